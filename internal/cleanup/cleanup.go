// Package cleanup implements pruning of old interview session records.
package cleanup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// recordStampLayout is the save-stamp format in session record filenames.
const recordStampLayout = "20060102_150405"

// recordMarker identifies session record files among other artifacts in
// the writing_projects directory. Insight and draft markdown files are
// never pruned; they are the output the author keeps.
const recordMarker = "_interactive_interview_"

// recordStamp extracts the save stamp from a session record filename, or
// a zero time when the name does not match the record naming scheme.
func recordStamp(name string) (time.Time, bool) {
	if !strings.HasSuffix(name, ".json") {
		return time.Time{}, false
	}
	idx := strings.Index(name, recordMarker)
	if idx < 0 {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(name[idx+len(recordMarker):], ".json")
	// Collision-suffixed saves carry a trailing _N.
	if len(stamp) > len(recordStampLayout) && stamp[len(recordStampLayout)] == '_' {
		stamp = stamp[:len(recordStampLayout)]
	}
	t, err := time.Parse(recordStampLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PruneByAge removes session record files saved more than maxAgeDays ago.
// If dryRun is true nothing is deleted; the function only reports the
// names that would be removed.
func PruneByAge(sessionsDir string, maxAgeDays int, dryRun bool) ([]string, error) {
	entries, err := os.ReadDir(sessionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sessions directory: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)
	var pruned []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		t, ok := recordStamp(entry.Name())
		if !ok {
			continue
		}
		if t.Before(cutoff) {
			if !dryRun {
				path := filepath.Join(sessionsDir, entry.Name())
				if rmErr := os.Remove(path); rmErr != nil {
					return pruned, fmt.Errorf("removing %s: %w", entry.Name(), rmErr)
				}
			}
			pruned = append(pruned, entry.Name())
		}
	}

	return pruned, nil
}

// PruneKeepRecent removes all session record files except the most recent
// keep records per memo. If dryRun is true nothing is deleted. Returns the
// pruned file names.
func PruneKeepRecent(sessionsDir string, keep int, dryRun bool) ([]string, error) {
	entries, err := os.ReadDir(sessionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sessions directory: %w", err)
	}

	byMemo := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, ok := recordStamp(name); !ok {
			continue
		}
		memoID := name[:strings.Index(name, recordMarker)]
		byMemo[memoID] = append(byMemo[memoID], name)
	}

	var pruned []string
	memoIDs := make([]string, 0, len(byMemo))
	for id := range byMemo {
		memoIDs = append(memoIDs, id)
	}
	sort.Strings(memoIDs)

	for _, id := range memoIDs {
		names := byMemo[id]
		// Save-stamp names sort chronologically.
		sort.Strings(names)
		if len(names) <= keep {
			continue
		}
		for _, name := range names[:len(names)-keep] {
			if !dryRun {
				path := filepath.Join(sessionsDir, name)
				if rmErr := os.Remove(path); rmErr != nil {
					return pruned, fmt.Errorf("removing %s: %w", name, rmErr)
				}
			}
			pruned = append(pruned, name)
		}
	}

	return pruned, nil
}
