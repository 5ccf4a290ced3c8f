// Package interview implements the context-aware writing interview: the
// aggregate context built for one memo, the conversation state machine,
// and the dialogue driver that alternates generated questions with the
// writer's answers.
package interview

import (
	"fmt"

	"github.com/memoflow-dev/memoflow/internal/memo"
	"github.com/memoflow-dev/memoflow/internal/similarity"
)

// Context aggregates everything the driver seeds prompts with: the target
// memo with its analyses, the related memos found by lexical similarity,
// and the writing ideas and seed questions pulled from the writing
// analysis. It is read-only for the duration of one session; a resumed
// session rebuilds it from current disk state instead of patching it.
type Context struct {
	Memo          *memo.Memo
	Related       []similarity.Related
	Ideas         []string
	SeedQuestions []string

	// Skipped records candidates the similarity scan could not read.
	// Diagnostic only; callers decide how to surface and log them.
	Skipped []similarity.Skipped
}

// Summary returns the compact projection stored inside session records.
func (c *Context) Summary() memo.ContextSummary {
	ids := make([]string, 0, len(c.Related))
	for _, r := range c.Related {
		ids = append(ids, r.MemoID)
	}
	return memo.ContextSummary{
		MemoID:         c.Memo.ID,
		RelatedMemoIDs: ids,
		IdeaCount:      len(c.Ideas),
	}
}

// BuildContext loads the target memo and assembles the interview context.
// A missing transcript is fatal (memo.ErrNotFound); analysis parse
// failures degrade to defaults and are reported in warns, and unreadable
// scan candidates land in the context's Skipped list. Safe to call
// repeatedly: it has no side effects.
func BuildContext(store *memo.Store, finder *similarity.Finder, memoID string) (*Context, []error, error) {
	m, warns, err := store.LoadMemo(memoID)
	if err != nil {
		return nil, nil, err
	}

	related, skipped, err := finder.Related(memoID)
	if err != nil {
		return nil, warns, fmt.Errorf("finding related memos: %w", err)
	}

	return &Context{
		Memo:          m,
		Related:       related,
		Ideas:         m.Writing.WritingIdeas,
		SeedQuestions: m.Writing.InterviewQuestions,
		Skipped:       skipped,
	}, warns, nil
}
