// Package writing implements the non-interactive writing helpers: listing
// extracted ideas, developing one memo's ideas, and drafting across memos.
package writing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/memoflow-dev/memoflow/internal/log"
	"github.com/memoflow-dev/memoflow/internal/memo"
	"github.com/memoflow-dev/memoflow/internal/ollama"
	"github.com/memoflow-dev/memoflow/prompts"
)

// Assistant runs the writing helpers against the store and model.
type Assistant struct {
	store  *memo.Store
	gen    ollama.Generator
	logger *log.Logger
	now    func() time.Time
}

// NewAssistant creates an Assistant.
func NewAssistant(store *memo.Store, gen ollama.Generator, logger *log.Logger) *Assistant {
	return &Assistant{store: store, gen: gen, logger: logger, now: time.Now}
}

// IdeaGroup is one memo's writing ideas.
type IdeaGroup struct {
	MemoID string
	Ideas  []string
}

// ListIdeas collects writing ideas across all memos, skipping memos with
// none. Unparsable analyses are reported in warns and skipped.
func (a *Assistant) ListIdeas() ([]IdeaGroup, []error, error) {
	ids, err := a.store.ListMemoIDs()
	if err != nil {
		return nil, nil, err
	}

	var groups []IdeaGroup
	var warns []error
	for _, id := range ids {
		analysis, err := a.store.LoadWriting(id)
		if err != nil {
			warns = append(warns, err)
			continue
		}
		if len(analysis.WritingIdeas) == 0 {
			continue
		}
		groups = append(groups, IdeaGroup{MemoID: id, Ideas: analysis.WritingIdeas})
	}
	return groups, warns, nil
}

type developData struct {
	MemoID     string
	Transcript string
	Ideas      []string
	Drafts     []string
}

// Develop asks the model to develop one memo's writing ideas and saves the
// result as a markdown artifact, returning its path. Unlike the interview,
// a generation failure here is fatal: there is nothing to fall back to.
func (a *Assistant) Develop(ctx context.Context, memoID string) (string, error) {
	m, _, err := a.store.LoadMemo(memoID)
	if err != nil {
		return "", err
	}

	prompt, err := prompts.Render("develop.tmpl", developData{
		MemoID:     m.ID,
		Transcript: strings.TrimSpace(m.Transcript),
		Ideas:      m.Writing.WritingIdeas,
		Drafts:     m.Writing.RoughDrafts,
	})
	if err != nil {
		return "", err
	}

	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating development: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty development completion")
	}

	path, err := a.store.SaveDevelopment(memoID, text)
	if err != nil {
		return "", err
	}
	_ = a.logger.Append(log.LogEvent{
		Event:  log.EventDevelopmentSaved,
		MemoID: memoID,
		Path:   path,
	})
	return path, nil
}

type draftMemo struct {
	MemoID     string
	Transcript string
	Ideas      []string
}

type draftData struct {
	Memos []draftMemo
}

// Draft asks the model for a first draft woven from the given memos and
// saves it, returning the path. Every listed memo must have a transcript.
func (a *Assistant) Draft(ctx context.Context, memoIDs []string) (string, error) {
	if len(memoIDs) == 0 {
		return "", fmt.Errorf("no memos given")
	}

	data := draftData{}
	for _, id := range memoIDs {
		m, _, err := a.store.LoadMemo(id)
		if err != nil {
			return "", err
		}
		data.Memos = append(data.Memos, draftMemo{
			MemoID:     m.ID,
			Transcript: strings.TrimSpace(m.Transcript),
			Ideas:      m.Writing.WritingIdeas,
		})
	}

	prompt, err := prompts.Render("draft.tmpl", data)
	if err != nil {
		return "", err
	}
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating draft: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty draft completion")
	}

	// Filename carries the source memo ids and the calendar date; the
	// store suffixes on collision so same-day redrafts never overwrite.
	name := fmt.Sprintf("draft_%s_%s.md", strings.Join(memoIDs, "_"), a.now().Format("20060102"))
	path, err := a.store.SaveDraft(name, a.draftDocument(memoIDs, text))
	if err != nil {
		return "", err
	}
	_ = a.logger.Append(log.LogEvent{
		Event: log.EventDraftSaved,
		Path:  path,
	})
	return path, nil
}

// draftDocument prepends the provenance header to the generated draft.
func (a *Assistant) draftDocument(memoIDs []string, text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Draft from Memos: %s\n\n", strings.Join(memoIDs, ", "))
	fmt.Fprintf(&b, "**Created:** %s\n", a.now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "**Source memos:** %s\n\n", strings.Join(memoIDs, ", "))
	b.WriteString(text)
	return b.String()
}
