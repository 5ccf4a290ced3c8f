package log

import (
	"testing"
)

func TestAppendAndReadAll(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	if err := logger.Append(LogEvent{Event: EventInterviewStarted, MemoID: "memo_0001", SessionID: "20260801_0930"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := logger.Append(LogEvent{Event: EventSessionSaved, MemoID: "memo_0001", Exchanges: 4}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	events, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Event != EventInterviewStarted || events[0].MemoID != "memo_0001" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[0].Time.IsZero() {
		t.Error("timestamp not auto-filled")
	}
	if events[0].Run != logger.Run() || events[1].Run != logger.Run() {
		t.Error("run id not stamped on events")
	}
	if events[1].Exchanges != 4 {
		t.Errorf("second event = %+v", events[1])
	}
}

func TestReadAllMissingFile(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	events, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events = %v", events)
	}
}

func TestAppendPreservesExistingLog(t *testing.T) {
	dir := t.TempDir()

	first, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if err := first.Append(LogEvent{Event: EventMemoProcessed, MemoID: "memo_0001"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// A new process run appends under a new run id.
	second, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if err := second.Append(LogEvent{Event: EventMemoProcessed, MemoID: "memo_0002"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	events, err := second.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Run == events[1].Run {
		t.Error("expected distinct run ids across logger instances")
	}
}
