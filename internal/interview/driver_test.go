package interview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/memoflow-dev/memoflow/internal/log"
	"github.com/memoflow-dev/memoflow/internal/memo"
	"github.com/memoflow-dev/memoflow/internal/ollama"
	"github.com/memoflow-dev/memoflow/internal/similarity"
	"github.com/memoflow-dev/memoflow/internal/testutil"
)

func newTestDriver(t *testing.T, root, memoID string, gen ollama.Generator, opts ...DriverOption) (*Driver, *Context) {
	t.Helper()

	store := memo.NewStore(root)
	finder := similarity.NewFinder(store, 3, 0.1)
	ictx, _, err := BuildContext(store, finder, memoID)
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	logger, err := log.NewLogger(root)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	return NewDriver(store, gen, logger, ictx, NewState(memoID), opts...), ictx
}

func seedMemo(t *testing.T, root, memoID, transcript string, ideas, questions []string) {
	t.Helper()
	testutil.WriteTranscript(t, root, memoID, transcript)
	testutil.WriteAnalysis(t, root, memoID, memo.KindWriting, testutil.WritingFixture(memoID, ideas, questions))
}

func TestBuildContextMissingTranscript(t *testing.T) {
	root := testutil.TempMemos(t)
	store := memo.NewStore(root)
	finder := similarity.NewFinder(store, 3, 0.1)

	_, _, err := BuildContext(store, finder, "memo_9999")
	if !errors.Is(err, memo.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	// No artifacts may appear for a memo that does not exist.
	entries, err := os.ReadDir(filepath.Join(root, "writing_projects"))
	if err != nil {
		t.Fatalf("read sessions dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("unexpected artifacts: %v", entries)
	}
}

func TestBuildContextRelatedMemos(t *testing.T) {
	root := testutil.TempMemos(t)
	seedMemo(t, root, "memo_0046", "writing about morning routines and focused deep work habits", nil, nil)
	testutil.WriteTranscript(t, root, "memo_0047", "morning routines shape focused deep work habits for writers")
	testutil.WriteTranscript(t, root, "memo_0048", "completely unrelated grocery list bananas")

	store := memo.NewStore(root)
	finder := similarity.NewFinder(store, 3, 0.1)
	ictx, _, err := BuildContext(store, finder, "memo_0046")
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}

	ids := ictx.Summary().RelatedMemoIDs
	if len(ids) != 1 || ids[0] != "memo_0047" {
		t.Errorf("related = %v, want [memo_0047]", ids)
	}
}

func TestInterviewConversation(t *testing.T) {
	root := testutil.TempMemos(t)
	transcript := "I want to write about my grandmother's recipes and the stories behind them"
	seedMemo(t, root, "memo_0046", transcript,
		[]string{"grandmother's recipes essay"}, []string{"What first made you notice this?"})

	gen := ollama.NewMock("What dish do you remember most vividly?", "Who taught her those recipes?", "synthesized insights")
	d, ictx := newTestDriver(t, root, "memo_0046", gen)

	if len(ictx.Ideas) != 1 || ictx.Ideas[0] != "grandmother's recipes essay" {
		t.Fatalf("context ideas = %v", ictx.Ideas)
	}

	q, err := d.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if q != "What dish do you remember most vividly?" {
		t.Errorf("opening question = %q", q)
	}
	if d.Phase() != PhaseAwaitingResponse {
		t.Errorf("phase = %v", d.Phase())
	}
	// The opening prompt carries the transcript and the extracted ideas.
	if len(gen.Prompts) != 1 ||
		!strings.Contains(gen.Prompts[0], transcript) ||
		!strings.Contains(gen.Prompts[0], "grandmother's recipes essay") {
		t.Errorf("opening prompt missing context:\n%s", gen.Prompts[0])
	}

	out, err := d.HandleInput(context.Background(), "her sunday dumplings")
	if err != nil {
		t.Fatalf("HandleInput: %v", err)
	}
	if out.Action != ActionAsk || out.Text != "Who taught her those recipes?" {
		t.Errorf("outcome = %+v", out)
	}
	if d.Exchanges() != 1 {
		t.Errorf("exchanges = %d, want 1", d.Exchanges())
	}
}

func TestReservedCommandsNotRecorded(t *testing.T) {
	root := testutil.TempMemos(t)
	seedMemo(t, root, "memo_0001", "a memo", nil, nil)

	gen := ollama.NewMock("opening question?")
	d, _ := newTestDriver(t, root, "memo_0001", gen)
	if _, err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, cmd := range []string{"summary", "SUMMARY", "Context", "  summary  "} {
		out, err := d.HandleInput(context.Background(), cmd)
		if err != nil {
			t.Fatalf("HandleInput(%q): %v", cmd, err)
		}
		if out.Action != ActionSummary && out.Action != ActionContext {
			t.Errorf("%q treated as answer: %+v", cmd, out)
		}
	}
	if d.Exchanges() != 0 {
		t.Errorf("reserved commands recorded as exchanges: %d", d.Exchanges())
	}

	out, err := d.HandleInput(context.Background(), "   ")
	if err != nil {
		t.Fatalf("blank input: %v", err)
	}
	if out.Action != ActionIgnored {
		t.Errorf("blank input action = %v", out.Action)
	}
	if d.Exchanges() != 0 {
		t.Errorf("blank input recorded: %d", d.Exchanges())
	}
}

func TestQuitPersistsSession(t *testing.T) {
	root := testutil.TempMemos(t)
	seedMemo(t, root, "memo_0002", "a memo about gardens", nil, nil)

	gen := ollama.NewMock("q?")
	d, _ := newTestDriver(t, root, "memo_0002", gen)
	if _, err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := d.HandleInput(context.Background(), "an answer"); err != nil {
		t.Fatalf("HandleInput: %v", err)
	}

	out, err := d.HandleInput(context.Background(), "QUIT")
	if err != nil {
		t.Fatalf("quit: %v", err)
	}
	if out.Action != ActionTerminated || out.SavedPath == "" {
		t.Fatalf("outcome = %+v", out)
	}
	if d.Phase() != PhaseTerminated {
		t.Errorf("phase = %v", d.Phase())
	}
	// One exchange only: no insights artifact.
	if out.InsightsPath != "" {
		t.Errorf("insights for %d exchanges: %s", d.Exchanges(), out.InsightsPath)
	}

	store := memo.NewStore(root)
	rec, err := store.LoadSessionRecord(out.SavedPath)
	if err != nil {
		t.Fatalf("load saved record: %v", err)
	}
	if rec.SessionID != d.SessionID() || len(rec.ConversationHistory) != 1 {
		t.Errorf("record = %+v", rec)
	}
}

func TestInsightsAfterThreeExchanges(t *testing.T) {
	root := testutil.TempMemos(t)
	seedMemo(t, root, "memo_0003", "a memo", []string{"an idea"}, nil)

	gen := ollama.NewMock("q1?", "q2?", "q3?", "q4?", "# Insights\n- theme")
	d, _ := newTestDriver(t, root, "memo_0003", gen)
	if _, err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for _, answer := range []string{"a1", "a2", "a3"} {
		if _, err := d.HandleInput(context.Background(), answer); err != nil {
			t.Fatalf("HandleInput(%q): %v", answer, err)
		}
	}

	out, err := d.HandleInput(context.Background(), "quit")
	if err != nil {
		t.Fatalf("quit: %v", err)
	}
	if out.InsightsPath == "" {
		t.Fatal("expected insights artifact after 3 exchanges")
	}
	data, err := os.ReadFile(out.InsightsPath)
	if err != nil {
		t.Fatalf("read insights: %v", err)
	}
	if !strings.Contains(string(data), "# Insights") {
		t.Errorf("insights content = %q", data)
	}
	if !strings.Contains(filepath.Base(out.InsightsPath), d.SessionID()) {
		t.Errorf("insights filename %q missing session id", out.InsightsPath)
	}
}

func TestGenerationFailureFallsBack(t *testing.T) {
	root := testutil.TempMemos(t)
	seedMemo(t, root, "memo_0004", "a memo", nil,
		[]string{"What first made you notice this?", "Who is it for?"})

	gen := ollama.NewMock()
	gen.Err = errors.New("connection refused")
	d, _ := newTestDriver(t, root, "memo_0004", gen)

	q, err := d.Start(context.Background())
	if err != nil {
		t.Fatalf("Start must absorb generation failure: %v", err)
	}
	if q != "What first made you notice this?" {
		t.Errorf("fallback = %q, want first seed question", q)
	}

	out, err := d.HandleInput(context.Background(), "an answer")
	if err != nil {
		t.Fatalf("HandleInput: %v", err)
	}
	if out.Text != "Who is it for?" {
		t.Errorf("second fallback = %q, want next unasked seed question", out.Text)
	}
}

func TestGenerationFailureGenericFallback(t *testing.T) {
	root := testutil.TempMemos(t)
	seedMemo(t, root, "memo_0005", "a memo", nil, nil)

	gen := ollama.NewMock()
	gen.Err = errors.New("timeout")
	d, _ := newTestDriver(t, root, "memo_0005", gen)

	q, err := d.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if q != genericFallback {
		t.Errorf("got %q, want generic fallback", q)
	}
}

func TestResumePreservesSessionIDAndAppends(t *testing.T) {
	root := testutil.TempMemos(t)
	seedMemo(t, root, "memo_0006", "a memo about rivers", nil, nil)
	store := memo.NewStore(root)

	// First session: one exchange, then quit.
	gen := ollama.NewMock("q1?")
	d, _ := newTestDriver(t, root, "memo_0006", gen)
	if _, err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := d.HandleInput(context.Background(), "first answer"); err != nil {
		t.Fatalf("HandleInput: %v", err)
	}
	out, err := d.HandleInput(context.Background(), "quit")
	if err != nil {
		t.Fatalf("quit: %v", err)
	}
	firstPath := out.SavedPath
	sessionID := d.SessionID()

	// Resume from the saved record and add another exchange.
	rec, err := store.LoadSessionRecord(firstPath)
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	finder := similarity.NewFinder(store, 3, 0.1)
	ictx, _, err := BuildContext(store, finder, "memo_0006")
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	logger, err := log.NewLogger(root)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	gen2 := ollama.NewMock("resume q?", "next q?")
	d2 := NewDriver(store, gen2, logger, ictx, Restore(rec), WithResumedState())

	if _, err := d2.Start(context.Background()); err != nil {
		t.Fatalf("resumed Start: %v", err)
	}
	if _, err := d2.HandleInput(context.Background(), "second answer"); err != nil {
		t.Fatalf("resumed HandleInput: %v", err)
	}
	out2, err := d2.HandleInput(context.Background(), "quit")
	if err != nil {
		t.Fatalf("resumed quit: %v", err)
	}

	if out2.SavedPath == firstPath {
		t.Error("resumed save overwrote the original record file")
	}
	rec2, err := store.LoadSessionRecord(out2.SavedPath)
	if err != nil {
		t.Fatalf("load resumed record: %v", err)
	}
	if rec2.SessionID != sessionID {
		t.Errorf("session id changed: %q vs %q", rec2.SessionID, sessionID)
	}
	if len(rec2.ConversationHistory) != 2 {
		t.Errorf("history length = %d, want 2", len(rec2.ConversationHistory))
	}
	if rec2.ConversationHistory[0].Response != "first answer" {
		t.Errorf("original exchange lost: %+v", rec2.ConversationHistory[0])
	}

	// The original file must be untouched.
	orig, err := store.LoadSessionRecord(firstPath)
	if err != nil {
		t.Fatalf("reload original: %v", err)
	}
	if len(orig.ConversationHistory) != 1 {
		t.Errorf("original record mutated: %d exchanges", len(orig.ConversationHistory))
	}
}

func TestFocusRotation(t *testing.T) {
	root := testutil.TempMemos(t)
	seedMemo(t, root, "memo_0007", "a memo", []string{"idea one", "idea two"}, nil)

	gen := ollama.NewMock("q?")
	d, _ := newTestDriver(t, root, "memo_0007", gen)
	if _, err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 4; i++ {
		if _, err := d.HandleInput(context.Background(), "answer"); err != nil {
			t.Fatalf("HandleInput %d: %v", i, err)
		}
	}

	topics := d.state.Topics()
	if len(topics) != 2 || topics[0] != "idea one" || topics[1] != "idea two" {
		t.Errorf("explored topics = %v, want both ideas in order", topics)
	}
	if d.state.Exchanges[0].Topic != "idea one" {
		t.Errorf("first exchange topic = %q", d.state.Exchanges[0].Topic)
	}
	if d.state.Exchanges[3].Topic != "idea two" {
		t.Errorf("fourth exchange topic = %q", d.state.Exchanges[3].Topic)
	}
}

func TestRunREPLScriptedSession(t *testing.T) {
	root := testutil.TempMemos(t)
	seedMemo(t, root, "memo_0008", "a memo about bread baking", nil, nil)

	gen := ollama.NewMock("Why bread?", "What recipe?")
	d, _ := newTestDriver(t, root, "memo_0008", gen)

	in := strings.NewReader("because of the smell\nsummary\nquit\n")
	var out strings.Builder
	if err := RunREPL(context.Background(), d, in, &out); err != nil {
		t.Fatalf("RunREPL: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Why bread?", "What recipe?", "Recent conversation:", "Session saved:"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if d.Phase() != PhaseTerminated {
		t.Errorf("phase after REPL = %v", d.Phase())
	}
}

func TestRunREPLEOFSaves(t *testing.T) {
	root := testutil.TempMemos(t)
	seedMemo(t, root, "memo_0009", "a memo", nil, nil)

	gen := ollama.NewMock("q?")
	d, _ := newTestDriver(t, root, "memo_0009", gen)

	var out strings.Builder
	if err := RunREPL(context.Background(), d, strings.NewReader("an answer\n"), &out); err != nil {
		t.Fatalf("RunREPL: %v", err)
	}
	if d.Phase() != PhaseTerminated {
		t.Errorf("EOF did not terminate session: phase %v", d.Phase())
	}
	if !strings.Contains(out.String(), "Session saved:") {
		t.Errorf("no save reported:\n%s", out.String())
	}
}
