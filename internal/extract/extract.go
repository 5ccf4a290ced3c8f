// Package extract runs the four analysis extractions over memo transcripts
// and persists the structured results.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/memoflow-dev/memoflow/internal/log"
	"github.com/memoflow-dev/memoflow/internal/memo"
	"github.com/memoflow-dev/memoflow/internal/ollama"
	"github.com/memoflow-dev/memoflow/prompts"
)

// Processor extracts analyses from transcripts and writes them to the store.
type Processor struct {
	store  *memo.Store
	gen    ollama.Generator
	logger *log.Logger
	now    func() time.Time
}

// NewProcessor creates a Processor.
func NewProcessor(store *memo.Store, gen ollama.Generator, logger *log.Logger) *Processor {
	return &Processor{store: store, gen: gen, logger: logger, now: time.Now}
}

// Result reports what one ProcessMemo call did.
type Result struct {
	MemoID  string
	Skipped bool     // transcript was empty
	Saved   []string // analysis file paths written
	Warns   []error  // per-kind failures that did not abort the memo
}

// ProcessMemo runs all four extractions for memoID. A missing transcript
// is fatal; an empty transcript is skipped. A kind whose completion fails
// to generate or parse is reported in Warns and the remaining kinds still
// run, so one bad completion never loses the others.
func (p *Processor) ProcessMemo(ctx context.Context, memoID string) (Result, error) {
	res := Result{MemoID: memoID}

	transcript, err := p.store.LoadTranscript(memoID)
	if err != nil {
		return res, err
	}
	if strings.TrimSpace(transcript) == "" {
		res.Skipped = true
		_ = p.logger.Append(log.LogEvent{
			Event:  log.EventMemoSkipped,
			MemoID: memoID,
			Error:  "empty transcript",
		})
		return res, nil
	}

	stamp := p.now().Format(time.RFC3339)
	for _, kind := range memo.Kinds {
		path, err := p.extractKind(ctx, memoID, kind, transcript, stamp)
		if err != nil {
			res.Warns = append(res.Warns, fmt.Errorf("%s: %w", kind, err))
			_ = p.logger.Append(log.LogEvent{
				Event:  log.EventAnalysisParseFailed,
				MemoID: memoID,
				Kind:   string(kind),
				Error:  err.Error(),
			})
			continue
		}
		res.Saved = append(res.Saved, path)
		_ = p.logger.Append(log.LogEvent{
			Event:  log.EventAnalysisSaved,
			MemoID: memoID,
			Kind:   string(kind),
			Path:   path,
		})
	}

	_ = p.logger.Append(log.LogEvent{
		Event:  log.EventMemoProcessed,
		MemoID: memoID,
	})
	return res, nil
}

func (p *Processor) extractKind(ctx context.Context, memoID string, kind memo.Kind, transcript, stamp string) (string, error) {
	prompt, err := prompts.Extraction(string(kind), transcript)
	if err != nil {
		return "", err
	}
	completion, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating: %w", err)
	}

	raw, err := ExtractJSON(completion)
	if err != nil {
		return "", err
	}

	envelope := memo.Envelope{MemoID: memoID, Timestamp: stamp}
	var record any
	switch kind {
	case memo.KindProjects:
		var rec memo.ProjectsAnalysis
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return "", fmt.Errorf("parsing completion: %w", err)
		}
		rec.Envelope = envelope
		record = rec
	case memo.KindTasks:
		var rec memo.TasksAnalysis
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return "", fmt.Errorf("parsing completion: %w", err)
		}
		rec.Envelope = envelope
		record = rec
	case memo.KindPersonal:
		var rec memo.PersonalAnalysis
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return "", fmt.Errorf("parsing completion: %w", err)
		}
		rec.Envelope = envelope
		record = rec
	case memo.KindWriting:
		var rec memo.WritingAnalysis
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return "", fmt.Errorf("parsing completion: %w", err)
		}
		rec.Envelope = envelope
		record = rec
	default:
		return "", fmt.Errorf("unknown kind %q", kind)
	}

	return p.store.SaveAnalysis(memoID, kind, record)
}

// BatchSummary aggregates a ProcessAll run.
type BatchSummary struct {
	Processed []string
	Skipped   []string
	Failed    map[string]error
}

// ProcessAll runs extraction over every memo with a transcript. Unless
// force is set, memos that already have any analysis are skipped. One
// memo's failure never aborts the batch.
func (p *Processor) ProcessAll(ctx context.Context, force bool) (BatchSummary, error) {
	summary := BatchSummary{Failed: make(map[string]error)}

	ids, err := p.store.ListMemoIDs()
	if err != nil {
		return summary, err
	}

	for _, id := range ids {
		if !force && p.store.HasAnyAnalysis(id) {
			summary.Skipped = append(summary.Skipped, id)
			continue
		}
		res, err := p.ProcessMemo(ctx, id)
		if err != nil {
			summary.Failed[id] = err
			continue
		}
		if res.Skipped {
			summary.Skipped = append(summary.Skipped, id)
			continue
		}
		summary.Processed = append(summary.Processed, id)
	}
	return summary, nil
}

// ExtractJSON pulls a JSON object out of a model completion, tolerating
// markdown code fences and prose around the object.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			text = rest[:end]
		} else {
			text = rest
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in completion")
	}
	return text[start : end+1], nil
}
