package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/memoflow-dev/memoflow/internal/log"
	"github.com/memoflow-dev/memoflow/internal/memo"
	"github.com/memoflow-dev/memoflow/internal/ollama"
)

// Phase is the driver's position in the conversation state machine.
type Phase int

const (
	// PhaseInit means no question has been asked yet.
	PhaseInit Phase = iota
	// PhaseAwaitingResponse means a question is outstanding.
	PhaseAwaitingResponse
	// PhaseTerminated means the session has ended and been persisted.
	PhaseTerminated
)

// minInsightExchanges is the exchange count a session must exceed before a
// closing insights artifact is worth synthesizing.
const minInsightExchanges = 2

// focusRotation is how many exchanges a writing idea stays the current
// focus before rotating to the next one.
const focusRotation = 3

// Action classifies the result of one HandleInput step.
type Action int

const (
	// ActionAsk means a new question is ready in Outcome.Text.
	ActionAsk Action = iota
	// ActionSummary carries the deterministic conversation summary.
	ActionSummary
	// ActionContext carries the rendered interview context.
	ActionContext
	// ActionIgnored means the input was blank; the current question stands.
	ActionIgnored
	// ActionTerminated means the session ended. SavedPath and InsightsPath
	// report what was written.
	ActionTerminated
)

// Outcome is the result of one driver step.
type Outcome struct {
	Action       Action
	Text         string
	SavedPath    string
	InsightsPath string
}

// Driver runs one interview session over an already built context. It is
// transport-agnostic: the line REPL and the TUI both feed it input through
// Start and HandleInput.
type Driver struct {
	store  *memo.Store
	gen    ollama.Generator
	logger *log.Logger

	ictx  *Context
	state *State

	phase    Phase
	question string
	resumed  bool

	summaryWindow int
	previewLength int
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithSummaryWindow sets how many exchanges summaries cover.
func WithSummaryWindow(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.summaryWindow = n
		}
	}
}

// WithPreviewLength sets the rune cutoff for summarized text.
func WithPreviewLength(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.previewLength = n
		}
	}
}

// WithResumedState marks the driver as continuing a restored session, so
// the first question picks the conversation back up instead of opening it.
func WithResumedState() DriverOption {
	return func(d *Driver) {
		d.resumed = true
	}
}

// NewDriver creates a Driver for one session. state is either fresh
// (NewState) or restored (Restore plus WithResumedState).
func NewDriver(store *memo.Store, gen ollama.Generator, logger *log.Logger, ictx *Context, state *State, opts ...DriverOption) *Driver {
	d := &Driver{
		store:         store,
		gen:           gen,
		logger:        logger,
		ictx:          ictx,
		state:         state,
		summaryWindow: 3,
		previewLength: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Phase returns the current conversation phase.
func (d *Driver) Phase() Phase {
	return d.phase
}

// Question returns the outstanding question, if any.
func (d *Driver) Question() string {
	return d.question
}

// SessionID returns the session's stable id.
func (d *Driver) SessionID() string {
	return d.state.SessionID
}

// Exchanges returns the number of recorded exchanges.
func (d *Driver) Exchanges() int {
	return len(d.state.Exchanges)
}

// Start produces the first question and moves to PhaseAwaitingResponse.
// Generation failure is absorbed: the driver falls back to a seed question
// and the session proceeds.
func (d *Driver) Start(ctx context.Context) (string, error) {
	if d.phase != PhaseInit {
		return "", fmt.Errorf("interview already started")
	}

	event := log.EventInterviewStarted
	prompt := OpeningPrompt(d.ictx)
	if d.resumed {
		event = log.EventInterviewResumed
		prompt = ResumePrompt(d.ictx, d.state, d.summaryWindow, d.previewLength)
	}
	_ = d.logger.Append(log.LogEvent{
		Event:     event,
		MemoID:    d.state.MemoID,
		SessionID: d.state.SessionID,
		Exchanges: len(d.state.Exchanges),
	})

	d.question = d.generate(ctx, prompt)
	d.phase = PhaseAwaitingResponse
	return d.question, nil
}

// HandleInput advances the conversation by one step. Reserved commands
// (quit, summary, context; case-insensitive) are never recorded as
// exchanges. Blank input is ignored. Any other input is recorded as the
// answer to the outstanding question and yields the next question.
//
// The returned error is non-nil only for persistence failures at
// termination; the session state is retained so Persist can be retried.
func (d *Driver) HandleInput(ctx context.Context, input string) (Outcome, error) {
	if d.phase != PhaseAwaitingResponse {
		return Outcome{}, fmt.Errorf("no question outstanding")
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Outcome{Action: ActionIgnored}, nil
	}

	switch strings.ToLower(trimmed) {
	case "quit":
		return d.terminate(ctx)
	case "summary":
		return Outcome{
			Action: ActionSummary,
			Text:   d.state.Summarize(d.summaryWindow, d.previewLength),
		}, nil
	case "context":
		return Outcome{
			Action: ActionContext,
			Text:   DescribeContext(d.ictx, d.state),
		}, nil
	}

	d.state.AppendExchange(d.question, trimmed, d.currentFocus())
	d.question = d.generate(ctx, FollowupPrompt(d.ictx, d.state, d.currentFocus(), d.summaryWindow, d.previewLength))
	return Outcome{Action: ActionAsk, Text: d.question}, nil
}

// currentFocus is the writing idea the conversation currently centers on.
// Derived from the exchange count so a restored session lands on the same
// idea it left off at: the focus advances every focusRotation exchanges
// and wraps around.
func (d *Driver) currentFocus() string {
	if len(d.ictx.Ideas) == 0 {
		return ""
	}
	return d.ictx.Ideas[(len(d.state.Exchanges)/focusRotation)%len(d.ictx.Ideas)]
}

// generate asks the model for the next question, falling back to a seed
// question when generation fails. Never returns an empty question.
func (d *Driver) generate(ctx context.Context, prompt string) string {
	text, err := d.gen.Generate(ctx, prompt)
	text = strings.TrimSpace(text)
	if err == nil && text != "" {
		return text
	}

	fallback := FallbackQuestion(d.ictx, d.state)
	ev := log.LogEvent{
		Event:     log.EventGenerationFallback,
		MemoID:    d.state.MemoID,
		SessionID: d.state.SessionID,
	}
	if err != nil {
		ev.Error = err.Error()
	} else {
		ev.Error = "empty completion"
	}
	_ = d.logger.Append(ev)
	return fallback
}

func (d *Driver) terminate(ctx context.Context) (Outcome, error) {
	out := Outcome{Action: ActionTerminated}

	path, err := d.Persist()
	if err != nil {
		// Phase stays AwaitingResponse so the caller can retry Persist
		// (or quit again) without losing the conversation.
		return out, err
	}
	out.SavedPath = path
	d.phase = PhaseTerminated

	if len(d.state.Exchanges) > minInsightExchanges {
		if insightsPath, err := d.synthesizeInsights(ctx); err == nil {
			out.InsightsPath = insightsPath
		}
	}
	return out, nil
}

// Persist saves the session record as a new file and returns its path.
// Called automatically at termination; exposed so a failed save can be
// retried without ending the process first.
func (d *Driver) Persist() (string, error) {
	path, err := d.store.SaveSessionRecord(d.state.Record(d.ictx.Summary()))
	if err != nil {
		return "", fmt.Errorf("saving session: %w", err)
	}
	_ = d.logger.Append(log.LogEvent{
		Event:     log.EventSessionSaved,
		MemoID:    d.state.MemoID,
		SessionID: d.state.SessionID,
		Path:      path,
		Exchanges: len(d.state.Exchanges),
	})
	return path, nil
}

// synthesizeInsights generates and saves the closing insights artifact.
// Best-effort: failures are logged and the session remains saved.
func (d *Driver) synthesizeInsights(ctx context.Context) (string, error) {
	text, err := d.gen.Generate(ctx, InsightsPrompt(d.ictx, d.state))
	if err != nil || strings.TrimSpace(text) == "" {
		ev := log.LogEvent{
			Event:     log.EventGenerationFallback,
			MemoID:    d.state.MemoID,
			SessionID: d.state.SessionID,
			Kind:      "insights",
		}
		if err != nil {
			ev.Error = err.Error()
		} else {
			ev.Error = "empty completion"
		}
		_ = d.logger.Append(ev)
		if err == nil {
			err = fmt.Errorf("empty insights completion")
		}
		return "", err
	}

	path, err := d.store.SaveInsights(d.state.MemoID, d.state.SessionID, text)
	if err != nil {
		return "", fmt.Errorf("saving insights: %w", err)
	}
	_ = d.logger.Append(log.LogEvent{
		Event:     log.EventInsightsSaved,
		MemoID:    d.state.MemoID,
		SessionID: d.state.SessionID,
		Path:      path,
	})
	return path, nil
}
