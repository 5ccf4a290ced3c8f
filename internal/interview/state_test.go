package interview

import (
	"strings"
	"testing"

	"github.com/memoflow-dev/memoflow/internal/memo"
)

func TestNewStateAssignsSessionID(t *testing.T) {
	s := NewState("memo_0001")
	if s.SessionID == "" {
		t.Fatal("expected non-empty session id")
	}
	if len(s.SessionID) != len("20060102_1504") {
		t.Errorf("session id %q not in minute-stamp form", s.SessionID)
	}
}

func TestRestorePreservesSessionID(t *testing.T) {
	rec := memo.SessionRecord{
		MemoID:    "memo_0001",
		SessionID: "20260801_0930",
		ConversationHistory: []memo.Exchange{
			{Question: "q1", Response: "a1", Topic: "essay on habits"},
		},
		ExploredTopics: []string{"essay on habits"},
	}

	s := Restore(rec)
	if s.SessionID != "20260801_0930" {
		t.Errorf("session id changed on restore: %q", s.SessionID)
	}
	if len(s.Exchanges) != 1 || s.Exchanges[0].Response != "a1" {
		t.Errorf("history not restored verbatim: %+v", s.Exchanges)
	}
	if got := s.Topics(); len(got) != 1 || got[0] != "essay on habits" {
		t.Errorf("topics not restored: %v", got)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	s := NewState("memo_0002")
	s.AppendExchange("what drew you to this?", "the morning light", "light essay")
	s.AppendExchange("say more?", "it changes everything", "light essay")

	rec := s.Record(memo.ContextSummary{MemoID: "memo_0002", IdeaCount: 1})
	restored := Restore(rec)

	if restored.SessionID != s.SessionID {
		t.Errorf("session id lost: %q vs %q", restored.SessionID, s.SessionID)
	}
	if len(restored.Exchanges) != 2 {
		t.Fatalf("got %d exchanges, want 2", len(restored.Exchanges))
	}
	if restored.Exchanges[1].Question != "say more?" {
		t.Errorf("exchange order lost: %+v", restored.Exchanges)
	}
	if got := restored.Topics(); len(got) != 1 || got[0] != "light essay" {
		t.Errorf("topics after round trip: %v", got)
	}
}

func TestSummarizeWindowAndTruncation(t *testing.T) {
	s := NewState("memo_0003")
	long := strings.Repeat("x", 150)
	s.AppendExchange("q1", "a1", "")
	s.AppendExchange("q2", "a2", "")
	s.AppendExchange("q3", "a3", "")
	s.AppendExchange("q4", long, "")

	out := s.Summarize(3, 100)
	if strings.Contains(out, "q1") {
		t.Error("summary includes exchange outside the window")
	}
	for _, want := range []string{"q2", "q3", "q4"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %s:\n%s", want, out)
		}
	}
	if !strings.Contains(out, strings.Repeat("x", 100)+"...") {
		t.Error("long response not truncated to 100 runes")
	}
	if strings.Contains(out, strings.Repeat("x", 101)) {
		t.Error("truncation exceeded 100 runes")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := NewState("memo_0004")
	if got := s.Summarize(3, 100); got != "No exchanges yet." {
		t.Errorf("got %q", got)
	}
}

func TestTopicsDeduplicatedInOrder(t *testing.T) {
	s := NewState("memo_0005")
	s.AppendExchange("q1", "a1", "alpha")
	s.AppendExchange("q2", "a2", "beta")
	s.AppendExchange("q3", "a3", "alpha")

	got := s.Topics()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("topics = %v, want [alpha beta]", got)
	}
}
