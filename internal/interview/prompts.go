package interview

import (
	"fmt"
	"strings"
)

const previewRunes = 150

const interviewerRole = `You are a thoughtful writing coach interviewing the author of a voice memo.
Ask exactly one open-ended question that helps the author develop their ideas into finished writing.
Build on what the author has already said. Do not repeat questions. Respond with the question only, no preamble.`

const insightsRole = `You are a writing coach reviewing an interview with the author of a voice memo.
Synthesize the key insights from the conversation: themes the author cares about, concrete angles
worth developing, and suggested next steps for the writing. Respond in markdown.`

// genericFallback is asked when generation fails and no seed question is
// left unexplored.
const genericFallback = "What else would you like to explore about this idea?"

// OpeningPrompt seeds the first question of a fresh session.
func OpeningPrompt(c *Context) string {
	var b strings.Builder
	b.WriteString(interviewerRole)
	b.WriteString("\n\n")
	writeContext(&b, c)
	b.WriteString("\nThis is the start of the interview. Ask your opening question.\n")
	return b.String()
}

// ResumePrompt seeds the first question after resuming a saved session.
func ResumePrompt(c *Context, s *State, window, preview int) string {
	var b strings.Builder
	b.WriteString(interviewerRole)
	b.WriteString("\n\n")
	writeContext(&b, c)
	writeHistory(&b, s, window, preview)
	b.WriteString("\nThe interview is resuming after a break. Ask a question that picks the conversation back up.\n")
	return b.String()
}

// FollowupPrompt asks for the next question given the latest answer.
func FollowupPrompt(c *Context, s *State, focus string, window, preview int) string {
	var b strings.Builder
	b.WriteString(interviewerRole)
	b.WriteString("\n\n")
	writeContext(&b, c)
	writeHistory(&b, s, window, preview)
	if focus != "" {
		fmt.Fprintf(&b, "\nCurrent focus: %s\n", focus)
	}
	b.WriteString("\nAsk your next question.\n")
	return b.String()
}

// InsightsPrompt asks for a markdown synthesis of the whole conversation.
func InsightsPrompt(c *Context, s *State) string {
	var b strings.Builder
	b.WriteString(insightsRole)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Memo %s transcript:\n%s\n", c.Memo.ID, strings.TrimSpace(c.Memo.Transcript))
	b.WriteString("\nFull conversation:\n")
	for _, ex := range s.Exchanges {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", ex.Question, ex.Response)
	}
	if topics := s.Topics(); len(topics) > 0 {
		fmt.Fprintf(&b, "\nTopics explored: %s\n", strings.Join(topics, ", "))
	}
	return b.String()
}

// FallbackQuestion picks the first seed question not yet asked, falling
// back to a fixed generic question. Never empty.
func FallbackQuestion(c *Context, s *State) string {
	asked := make(map[string]struct{}, len(s.Exchanges))
	for _, ex := range s.Exchanges {
		asked[ex.Question] = struct{}{}
	}
	for _, q := range c.SeedQuestions {
		if _, ok := asked[q]; !ok && strings.TrimSpace(q) != "" {
			return q
		}
	}
	return genericFallback
}

// writeContext renders the memo, its writing ideas and seed questions
// verbatim, and a preview of each related memo.
func writeContext(b *strings.Builder, c *Context) {
	fmt.Fprintf(b, "Memo %s transcript:\n%s\n", c.Memo.ID, strings.TrimSpace(c.Memo.Transcript))

	if len(c.Ideas) > 0 {
		b.WriteString("\nWriting ideas from this memo:\n")
		for _, idea := range c.Ideas {
			fmt.Fprintf(b, "- %s\n", idea)
		}
	}
	if len(c.SeedQuestions) > 0 {
		b.WriteString("\nSuggested interview questions:\n")
		for _, q := range c.SeedQuestions {
			fmt.Fprintf(b, "- %s\n", q)
		}
	}
	if len(c.Related) > 0 {
		b.WriteString("\nRelated memos:\n")
		for _, r := range c.Related {
			fmt.Fprintf(b, "- %s (similarity %.2f): %s\n", r.MemoID, r.Score, r.Memo.TranscriptPreview(previewRunes))
		}
	}
}

func writeHistory(b *strings.Builder, s *State, window, preview int) {
	if len(s.Exchanges) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(s.Summarize(window, preview))
	b.WriteString("\n")
}

// DescribeContext renders the interview context for the reserved "context"
// command. Shares structure with the prompt rendering but is addressed to
// the author, not the model.
func DescribeContext(c *Context, s *State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Interview context for %s (session %s)\n", c.Memo.ID, s.SessionID)
	fmt.Fprintf(&b, "Transcript: %s\n", c.Memo.TranscriptPreview(previewRunes))

	if len(c.Ideas) > 0 {
		b.WriteString("Writing ideas:\n")
		for _, idea := range c.Ideas {
			fmt.Fprintf(&b, "  - %s\n", idea)
		}
	}
	if len(c.Related) > 0 {
		b.WriteString("Related memos:\n")
		for _, r := range c.Related {
			fmt.Fprintf(&b, "  - %s (similarity %.2f)\n", r.MemoID, r.Score)
		}
	}
	if topics := s.Topics(); len(topics) > 0 {
		fmt.Fprintf(&b, "Topics explored: %s\n", strings.Join(topics, ", "))
	}
	fmt.Fprintf(&b, "Exchanges so far: %d", len(s.Exchanges))
	return b.String()
}
