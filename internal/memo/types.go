// Package memo provides the data model and on-disk artifact store for
// transcribed voice memos, their extracted analyses, and interview sessions.
package memo

import (
	"encoding/json"
	"strings"
)

// Kind identifies one of the four extraction categories.
type Kind string

// Analysis kinds. Each kind has its own subdirectory under analysis/.
const (
	KindProjects Kind = "projects"
	KindTasks    Kind = "tasks"
	KindPersonal Kind = "personal"
	KindWriting  Kind = "writing"
)

// Kinds lists all analysis kinds in processing order.
var Kinds = []Kind{KindProjects, KindTasks, KindPersonal, KindWriting}

// Envelope carries the fields common to every analysis record.
type Envelope struct {
	MemoID    string `json:"memo_id"`
	Timestamp string `json:"timestamp"`
}

// ProjectsAnalysis holds project-related content extracted from a memo.
type ProjectsAnalysis struct {
	ProjectIdeas    []string `json:"project_ideas"`
	ProjectUpdates  []string `json:"project_updates"`
	ProjectPlanning []string `json:"project_planning"`
	Envelope
}

// TaskItem is a single actionable item with an estimated priority.
type TaskItem struct {
	Text     string `json:"text"`
	Priority string `json:"priority,omitempty"`
}

// UnmarshalJSON accepts both the structured {text, priority} form and the
// bare-string form the model sometimes produces.
func (t *TaskItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Text = s
		t.Priority = ""
		return nil
	}

	type alias TaskItem
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*t = TaskItem(a)
	return nil
}

// TasksAnalysis holds actionable items extracted from a memo.
type TasksAnalysis struct {
	TodoItems []TaskItem `json:"todo_items"`
	Reminders []TaskItem `json:"reminders"`
	Deadlines []TaskItem `json:"deadlines"`
	Envelope
}

// PersonalAnalysis holds mood, sleep, and self-reflection observations.
// Absent categories decode to the empty string.
type PersonalAnalysis struct {
	MoodSentiment    string `json:"mood_sentiment,omitempty"`
	SleepQuality     string `json:"sleep_quality,omitempty"`
	StressIndicators string `json:"stress_indicators,omitempty"`
	NeedsSupport     string `json:"needs_support,omitempty"`
	SelfReflection   string `json:"self_reflection,omitempty"`
	Envelope
}

// WritingAnalysis holds writing ideas and interview seed questions.
type WritingAnalysis struct {
	WritingIdeas       []string `json:"writing_ideas"`
	RoughDrafts        []string `json:"rough_drafts"`
	QuotesPhrases      []string `json:"quotes_phrases"`
	InterviewQuestions []string `json:"interview_questions"`
	Envelope
}

// Memo is one transcribed voice recording together with whatever analyses
// exist for it. Missing analyses are zero-valued, never nil pointers.
type Memo struct {
	ID         string
	Transcript string
	Projects   ProjectsAnalysis
	Tasks      TasksAnalysis
	Personal   PersonalAnalysis
	Writing    WritingAnalysis
}

// TranscriptPreview returns the first n runes of the transcript with
// newlines collapsed, for compact prompt and display rendering.
func (m *Memo) TranscriptPreview(n int) string {
	text := strings.Join(strings.Fields(m.Transcript), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// Exchange is one question/answer pair in an interview conversation.
type Exchange struct {
	Question  string `json:"question"`
	Response  string `json:"response"`
	Topic     string `json:"topic,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ContextSummary is the compact projection of an interview context stored
// inside a session record.
type ContextSummary struct {
	MemoID         string   `json:"memo_id"`
	RelatedMemoIDs []string `json:"related_memo_ids"`
	IdeaCount      int      `json:"idea_count"`
}

// SessionRecord is the durable projection of a conversation. Each save
// produces a new file; the SessionID field stays stable across resumes so
// repeated saves trace back to one logical session.
type SessionRecord struct {
	MemoID              string         `json:"memo_id"`
	SessionID           string         `json:"session_id"`
	Timestamp           string         `json:"timestamp"`
	ConversationHistory []Exchange     `json:"conversation_history"`
	ExploredTopics      []string       `json:"explored_topics"`
	ContextSummary      ContextSummary `json:"context_summary"`
}
