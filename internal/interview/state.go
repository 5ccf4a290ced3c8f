package interview

import (
	"fmt"
	"strings"
	"time"

	"github.com/memoflow-dev/memoflow/internal/memo"
)

// sessionIDLayout names sessions down to the minute; the save stamp on the
// record filename carries finer resolution.
const sessionIDLayout = "20060102_1504"

// State is the evolving conversation state for one interview session. The
// session id is assigned once at creation and survives resumption; every
// save produces a new record file carrying the same id.
type State struct {
	MemoID    string
	SessionID string
	Exchanges []memo.Exchange

	topics   []string
	topicSet map[string]struct{}
}

// NewState starts a fresh session for memoID with a time-derived id.
func NewState(memoID string) *State {
	return &State{
		MemoID:    memoID,
		SessionID: time.Now().Format(sessionIDLayout),
		topicSet:  make(map[string]struct{}),
	}
}

// Restore rebuilds state from a persisted record. History, explored topics
// and the session id carry over verbatim.
func Restore(rec memo.SessionRecord) *State {
	s := &State{
		MemoID:    rec.MemoID,
		SessionID: rec.SessionID,
		Exchanges: append([]memo.Exchange(nil), rec.ConversationHistory...),
		topicSet:  make(map[string]struct{}),
	}
	for _, t := range rec.ExploredTopics {
		s.addTopic(t)
	}
	return s
}

// AppendExchange records one question/answer pair. A non-empty topic tags
// the exchange and is added to the explored-topic set.
func (s *State) AppendExchange(question, response, topic string) {
	s.Exchanges = append(s.Exchanges, memo.Exchange{
		Question:  question,
		Response:  response,
		Topic:     topic,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if topic != "" {
		s.addTopic(topic)
	}
}

func (s *State) addTopic(topic string) {
	if _, seen := s.topicSet[topic]; seen {
		return
	}
	s.topicSet[topic] = struct{}{}
	s.topics = append(s.topics, topic)
}

// Topics returns explored topics in first-seen order.
func (s *State) Topics() []string {
	return append([]string(nil), s.topics...)
}

// Summarize renders the last window exchanges with question and response
// text truncated to preview runes. Deterministic: no model call involved.
func (s *State) Summarize(window, preview int) string {
	if len(s.Exchanges) == 0 {
		return "No exchanges yet."
	}

	start := len(s.Exchanges) - window
	if start < 0 {
		start = 0
	}

	var b strings.Builder
	b.WriteString("Recent conversation:\n")
	for _, ex := range s.Exchanges[start:] {
		fmt.Fprintf(&b, "Q: %s\n", truncate(ex.Question, preview))
		fmt.Fprintf(&b, "A: %s\n", truncate(ex.Response, preview))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Record snapshots the state as a persistable session record.
func (s *State) Record(summary memo.ContextSummary) memo.SessionRecord {
	return memo.SessionRecord{
		MemoID:              s.MemoID,
		SessionID:           s.SessionID,
		Timestamp:           time.Now().Format(time.RFC3339),
		ConversationHistory: append([]memo.Exchange(nil), s.Exchanges...),
		ExploredTopics:      s.Topics(),
		ContextSummary:      summary,
	}
}

func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
