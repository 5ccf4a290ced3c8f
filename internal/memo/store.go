// store.go implements the filesystem artifact store rooted at the
// voice-memos directory. Layout:
//
//	<root>/<memoId>.txt
//	<root>/analysis/<kind>/<memoId>_<kind>.json
//	<root>/analysis/daily_summaries/summary_<YYYYMMDD>.json
//	<root>/writing_projects/<memoId>_interactive_interview_<stamp>.json
//	<root>/writing_projects/<memoId>_interview_insights_<sessionId>.md
package memo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when a memo's transcript file does not exist.
var ErrNotFound = errors.New("memo: transcript not found")

const (
	analysisDirName = "analysis"
	sessionsDirName = "writing_projects"
	summariesDir    = "daily_summaries"

	// sessionStampLayout names session record files. Seconds granularity;
	// same-second collisions get a numeric suffix so a save never
	// overwrites a prior save.
	sessionStampLayout = "20060102_150405"
)

// Store provides read/write access to memo artifacts on disk.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given memos directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the memos root directory.
func (s *Store) Root() string {
	return s.root
}

// EnsureDirs creates the analysis and writing_projects directory structure.
func (s *Store) EnsureDirs() error {
	dirs := []string{
		filepath.Join(s.root, sessionsDirName),
		filepath.Join(s.root, analysisDirName, summariesDir),
	}
	for _, k := range Kinds {
		dirs = append(dirs, filepath.Join(s.root, analysisDirName, string(k)))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

func (s *Store) transcriptPath(memoID string) string {
	return filepath.Join(s.root, memoID+".txt")
}

func (s *Store) analysisPath(memoID string, kind Kind) string {
	return filepath.Join(s.root, analysisDirName, string(kind), fmt.Sprintf("%s_%s.json", memoID, kind))
}

// SessionsDir returns the directory holding session records and writing
// artifacts.
func (s *Store) SessionsDir() string {
	return filepath.Join(s.root, sessionsDirName)
}

// LoadTranscript reads the raw transcript for memoID.
// Returns ErrNotFound if the transcript file does not exist.
func (s *Store) LoadTranscript(memoID string) (string, error) {
	data, err := os.ReadFile(s.transcriptPath(memoID))
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, memoID)
	}
	if err != nil {
		return "", fmt.Errorf("reading transcript %s: %w", memoID, err)
	}
	return string(data), nil
}

// ListMemoIDs returns the ids of all memos with a transcript file, sorted.
func (s *Store) ListMemoIDs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading memos directory: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(ids)
	return ids, nil
}

// HasAnyAnalysis reports whether any analysis kind exists for memoID.
func (s *Store) HasAnyAnalysis(memoID string) bool {
	for _, k := range Kinds {
		if _, err := os.Stat(s.analysisPath(memoID, k)); err == nil {
			return true
		}
	}
	return false
}

// loadAnalysis decodes the analysis file for (memoID, kind) into v.
// A missing file is not an error: found is false and v is left untouched.
// A file that exists but fails to parse returns found=false and the error,
// so callers can log the substitution and continue with the default.
func (s *Store) loadAnalysis(memoID string, kind Kind, v any) (found bool, err error) {
	data, err := os.ReadFile(s.analysisPath(memoID, kind))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s analysis for %s: %w", kind, memoID, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parsing %s analysis for %s: %w", kind, memoID, err)
	}
	return true, nil
}

// LoadProjects loads the projects analysis for memoID, or an empty default.
func (s *Store) LoadProjects(memoID string) (ProjectsAnalysis, error) {
	var rec ProjectsAnalysis
	if _, err := s.loadAnalysis(memoID, KindProjects, &rec); err != nil {
		return ProjectsAnalysis{}, err
	}
	return rec, nil
}

// LoadTasks loads the tasks analysis for memoID, or an empty default.
func (s *Store) LoadTasks(memoID string) (TasksAnalysis, error) {
	var rec TasksAnalysis
	if _, err := s.loadAnalysis(memoID, KindTasks, &rec); err != nil {
		return TasksAnalysis{}, err
	}
	return rec, nil
}

// LoadPersonal loads the personal analysis for memoID, or an empty default.
func (s *Store) LoadPersonal(memoID string) (PersonalAnalysis, error) {
	var rec PersonalAnalysis
	if _, err := s.loadAnalysis(memoID, KindPersonal, &rec); err != nil {
		return PersonalAnalysis{}, err
	}
	return rec, nil
}

// LoadWriting loads the writing analysis for memoID, or an empty default.
func (s *Store) LoadWriting(memoID string) (WritingAnalysis, error) {
	var rec WritingAnalysis
	if _, err := s.loadAnalysis(memoID, KindWriting, &rec); err != nil {
		return WritingAnalysis{}, err
	}
	return rec, nil
}

// LoadMemo loads the transcript and all four analyses for memoID.
// A missing transcript is fatal (ErrNotFound). Missing or unparsable
// analyses are substituted with empty defaults; each parse failure is
// reported in warns so the caller can log it.
func (s *Store) LoadMemo(memoID string) (*Memo, []error, error) {
	transcript, err := s.LoadTranscript(memoID)
	if err != nil {
		return nil, nil, err
	}

	m := &Memo{ID: memoID, Transcript: transcript}
	var warns []error

	if m.Projects, err = s.LoadProjects(memoID); err != nil {
		warns = append(warns, err)
	}
	if m.Tasks, err = s.LoadTasks(memoID); err != nil {
		warns = append(warns, err)
	}
	if m.Personal, err = s.LoadPersonal(memoID); err != nil {
		warns = append(warns, err)
	}
	if m.Writing, err = s.LoadWriting(memoID); err != nil {
		warns = append(warns, err)
	}

	return m, warns, nil
}

// SaveAnalysis writes an analysis record for (memoID, kind) atomically and
// returns the file path. The caller fills the record's envelope fields.
func (s *Store) SaveAnalysis(memoID string, kind Kind, record any) (string, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling %s analysis: %w", kind, err)
	}

	path := s.analysisPath(memoID, kind)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating analysis directory: %w", err)
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s analysis for %s: %w", kind, memoID, err)
	}
	return path, nil
}

// SaveSessionRecord persists rec as a new session record file and returns
// its path. The filename carries a fresh save stamp on every call, so
// saving a resumed session never overwrites an earlier save.
func (s *Store) SaveSessionRecord(rec SessionRecord) (string, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling session record: %w", err)
	}

	dir := s.SessionsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating sessions directory: %w", err)
	}

	stamp := time.Now().Format(sessionStampLayout)
	name := fmt.Sprintf("%s_interactive_interview_%s.json", rec.MemoID, stamp)
	path := filepath.Join(dir, name)
	for n := 2; ; n++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		}
		name = fmt.Sprintf("%s_interactive_interview_%s_%d.json", rec.MemoID, stamp, n)
		path = filepath.Join(dir, name)
	}

	if err := writeFileAtomic(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing session record: %w", err)
	}
	return path, nil
}

// SessionFile pairs a parsed session record with its on-disk path.
type SessionFile struct {
	Path   string
	Record SessionRecord
}

// LoadSessionRecord reads and parses a single session record file.
// Unlike the listing scan, a parse failure here is fatal: this is the
// record the caller explicitly asked for.
func (s *Store) LoadSessionRecord(path string) (SessionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("reading session record: %w", err)
	}
	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return SessionRecord{}, fmt.Errorf("parsing session record %s: %w", filepath.Base(path), err)
	}
	return rec, nil
}

// ListSessionRecords returns all session records, oldest first (save-stamp
// filenames sort chronologically). When memoID is non-empty only that
// memo's sessions are returned. Malformed files are skipped and reported
// in skipped rather than aborting the scan.
func (s *Store) ListSessionRecords(memoID string) (records []SessionFile, skipped []error, err error) {
	entries, err := os.ReadDir(s.SessionsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading sessions directory: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.Contains(name, "_interactive_interview_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		if memoID != "" && !strings.HasPrefix(name, memoID+"_interactive_interview_") {
			continue
		}

		path := filepath.Join(s.SessionsDir(), name)
		rec, loadErr := s.LoadSessionRecord(path)
		if loadErr != nil {
			skipped = append(skipped, loadErr)
			continue
		}
		records = append(records, SessionFile{Path: path, Record: rec})
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, skipped, nil
}

// SaveInsights writes the closing insights artifact for a session and
// returns its path.
func (s *Store) SaveInsights(memoID, sessionID, content string) (string, error) {
	name := fmt.Sprintf("%s_interview_insights_%s.md", memoID, sessionID)
	return s.saveSessionArtifact(name, content)
}

// SaveDevelopment writes the idea-development artifact for a memo.
func (s *Store) SaveDevelopment(memoID, content string) (string, error) {
	return s.saveSessionArtifact(memoID+"_development.md", content)
}

// SaveDraft writes a multi-memo draft artifact under the given file name.
// An existing file with that name gets a numeric suffix instead of being
// overwritten, so repeated drafts from the same memos on the same day all
// survive.
func (s *Store) SaveDraft(name, content string) (string, error) {
	dir := s.SessionsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating sessions directory: %w", err)
	}

	base := strings.TrimSuffix(name, ".md")
	path := filepath.Join(dir, name)
	for n := 2; ; n++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.md", base, n))
	}

	if err := writeFileAtomic(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

func (s *Store) saveSessionArtifact(name, content string) (string, error) {
	dir := s.SessionsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating sessions directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := writeFileAtomic(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

// SaveDailySummary writes the aggregated summary for a YYYYMMDD date.
func (s *Store) SaveDailySummary(date string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling daily summary: %w", err)
	}
	dir := filepath.Join(s.root, analysisDirName, summariesDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating summaries directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("summary_%s.json", date))
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing daily summary: %w", err)
	}
	return path, nil
}

// AnalysisFiles returns the paths of all analysis files of the given kind.
func (s *Store) AnalysisFiles(kind Kind) ([]string, error) {
	dir := filepath.Join(s.root, analysisDirName, string(kind))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s analysis directory: %w", kind, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fmt.Sprintf("_%s.json", kind)) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// writeFileAtomic writes data to path via a temporary file and rename, so
// readers never observe a partially written artifact.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
