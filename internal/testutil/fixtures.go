// Package testutil provides filesystem fixtures shared by package tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/memoflow-dev/memoflow/internal/memo"
)

// TempMemos creates a temporary memos root with the full directory layout
// and returns its path. Cleaned up automatically with the test.
func TempMemos(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	store := memo.NewStore(dir)
	if err := store.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	return dir
}

// WriteTranscript writes a transcript file for memoID under root.
func WriteTranscript(t *testing.T, root, memoID, text string) {
	t.Helper()

	path := filepath.Join(root, memoID+".txt")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("write transcript %s: %v", memoID, err)
	}
}

// WriteAnalysis marshals record into the analysis file for (memoID, kind).
func WriteAnalysis(t *testing.T, root, memoID string, kind memo.Kind, record any) {
	t.Helper()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		t.Fatalf("marshal %s analysis: %v", kind, err)
	}
	WriteAnalysisRaw(t, root, memoID, kind, data)
}

// WriteAnalysisRaw writes raw bytes as the analysis file for (memoID, kind).
// Used to plant malformed records.
func WriteAnalysisRaw(t *testing.T, root, memoID string, kind memo.Kind, data []byte) {
	t.Helper()

	dir := filepath.Join(root, "analysis", string(kind))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("create analysis dir: %v", err)
	}
	path := filepath.Join(dir, memoID+"_"+string(kind)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s analysis: %v", kind, err)
	}
}

// WritingFixture builds a writing analysis with the given ideas and seed
// questions.
func WritingFixture(memoID string, ideas, questions []string) memo.WritingAnalysis {
	return memo.WritingAnalysis{
		WritingIdeas:       ideas,
		InterviewQuestions: questions,
		Envelope:           memo.Envelope{MemoID: memoID, Timestamp: "2026-08-01T09:00:00Z"},
	}
}
