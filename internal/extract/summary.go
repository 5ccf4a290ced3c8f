package extract

import (
	"fmt"
	"time"

	"github.com/memoflow-dev/memoflow/internal/memo"
)

// DailySummary aggregates one day's analyses across memos.
type DailySummary struct {
	Date           string          `json:"date"`
	MemoIDs        []string        `json:"memo_ids"`
	ProjectIdeas   []string        `json:"project_ideas"`
	TodoItems      []memo.TaskItem `json:"todo_items"`
	MoodSentiments []string        `json:"mood_sentiments"`
	WritingIdeas   []string        `json:"writing_ideas"`
	GeneratedAt    string          `json:"generated_at"`
}

// dateLayout is the canonical date form; the compact form matches the
// summary filenames so a date can be pasted from either place.
const (
	dateLayout        = "2006-01-02"
	compactDateLayout = "20060102"
)

// BuildDailySummary aggregates all analyses whose envelope timestamp falls
// on the given calendar day (YYYY-MM-DD or YYYYMMDD) and persists the
// summary. A memo is counted for the day when any of its analyses matches.
// Timestamps are parsed, not substring-matched, so memo ids or content
// containing digit runs never produce false matches.
func (p *Processor) BuildDailySummary(date string) (DailySummary, string, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		day, err = time.Parse(compactDateLayout, date)
	}
	if err != nil {
		return DailySummary{}, "", fmt.Errorf("invalid date %q (want YYYY-MM-DD or YYYYMMDD): %w", date, err)
	}

	ids, err := p.store.ListMemoIDs()
	if err != nil {
		return DailySummary{}, "", err
	}

	summary := DailySummary{
		Date:        day.Format(dateLayout),
		GeneratedAt: p.now().Format(time.RFC3339),
	}

	for _, id := range ids {
		m, _, err := p.store.LoadMemo(id)
		if err != nil {
			continue
		}

		matched := false
		if onDay(m.Projects.Timestamp, day) {
			matched = true
			summary.ProjectIdeas = append(summary.ProjectIdeas, m.Projects.ProjectIdeas...)
		}
		if onDay(m.Tasks.Timestamp, day) {
			matched = true
			summary.TodoItems = append(summary.TodoItems, m.Tasks.TodoItems...)
		}
		if onDay(m.Personal.Timestamp, day) {
			matched = true
			if m.Personal.MoodSentiment != "" {
				summary.MoodSentiments = append(summary.MoodSentiments, m.Personal.MoodSentiment)
			}
		}
		if onDay(m.Writing.Timestamp, day) {
			matched = true
			summary.WritingIdeas = append(summary.WritingIdeas, m.Writing.WritingIdeas...)
		}
		if matched {
			summary.MemoIDs = append(summary.MemoIDs, id)
		}
	}

	path, err := p.store.SaveDailySummary(day.Format(compactDateLayout), summary)
	if err != nil {
		return summary, "", err
	}
	return summary, path, nil
}

// onDay reports whether an RFC3339 timestamp falls on the given calendar
// day. Unparsable or missing timestamps never match.
func onDay(stamp string, day time.Time) bool {
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return false
	}
	return t.Format(dateLayout) == day.Format(dateLayout)
}
