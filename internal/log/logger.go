// Package log provides structured event logging.
// This file appends JSON events to log.jsonl.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event type constants.
const (
	EventMemoProcessed       = "memo_processed"
	EventAnalysisSaved       = "analysis_saved"
	EventAnalysisParseFailed = "analysis_parse_failed"
	EventAnalysisMissing     = "analysis_missing"
	EventSimilarityScan      = "similarity_scan"
	EventMemoSkipped         = "memo_skipped"
	EventInterviewStarted    = "interview_started"
	EventInterviewResumed    = "interview_resumed"
	EventGenerationFallback  = "generation_fallback"
	EventSessionSaved        = "session_saved"
	EventInsightsSaved       = "insights_saved"
	EventDevelopmentSaved    = "development_saved"
	EventDraftSaved          = "draft_saved"
	EventRecordSkipped       = "record_skipped"
	EventArtifactsPruned     = "artifacts_pruned"
)

// LogEvent represents a single structured event written to the log.
type LogEvent struct {
	Time       time.Time `json:"time"`
	Run        string    `json:"run"`
	Event      string    `json:"event"`
	MemoID     string    `json:"memo,omitempty"`
	SessionID  string    `json:"session,omitempty"`
	Kind       string    `json:"kind,omitempty"`
	Path       string    `json:"path,omitempty"`
	Error      string    `json:"error,omitempty"`
	Candidates int       `json:"candidates,omitempty"`
	Skipped    int       `json:"skipped,omitempty"`
	Exchanges  int       `json:"exchanges,omitempty"`
	Pruned     int       `json:"pruned,omitempty"`
}

// Logger writes append-only JSONL events to a log file. Every event carries
// the run id assigned when the Logger was created, so the events of one
// process invocation can be correlated.
type Logger struct {
	path string
	run  string
	mu   sync.Mutex
}

// NewLogger creates a Logger that writes to .memoflow/log.jsonl inside dir.
// Creates the .memoflow/ directory if it does not already exist.
// Does not truncate an existing log file.
func NewLogger(dir string) (*Logger, error) {
	stateDir := filepath.Join(dir, ".memoflow")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("create .memoflow directory: %w", err)
	}

	return &Logger{
		path: filepath.Join(stateDir, "log.jsonl"),
		run:  uuid.New().String(),
	}, nil
}

// Run returns the run id stamped on every event from this Logger.
func (l *Logger) Run() string {
	return l.run
}

// Append writes a single LogEvent as one JSON line to the log file.
// If event.Time is the zero value, it is automatically set to time.Now().UTC().
// The file is opened in append mode, written to, and then closed.
// Thread-safe via mutex.
func (l *Logger) Append(event LogEvent) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	if event.Run == "" {
		event.Run = l.run
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write log event: %w", err)
	}

	return nil
}

// ReadAll reads and parses all events from the log file.
// Returns an empty slice (not an error) if the file does not exist.
func (l *Logger) ReadAll() ([]LogEvent, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []LogEvent{}, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var events []LogEvent
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event LogEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	return events, nil
}
