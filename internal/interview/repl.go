package interview

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// RunREPL drives a session over a line-based reader and writer. Input and
// output are injected so tests can script a whole conversation; the CLI
// passes os.Stdin and os.Stdout. EOF on the reader ends the session the
// same way typing quit would.
func RunREPL(ctx context.Context, d *Driver, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "=== Interview: %s (session %s) ===\n", d.state.MemoID, d.SessionID())
	fmt.Fprintln(out, "Commands: 'quit' to end, 'summary' for recent exchanges, 'context' for memo context.")
	fmt.Fprintln(out)

	question, err := d.Start(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n\n> ", question)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		outcome, err := d.HandleInput(ctx, scanner.Text())
		if err != nil {
			// Persistence failure: report and keep the session alive so
			// another quit can retry the save.
			fmt.Fprintf(out, "save failed: %v\ntype 'quit' to retry\n\n> ", err)
			continue
		}

		switch outcome.Action {
		case ActionAsk:
			fmt.Fprintf(out, "\n%s\n\n> ", outcome.Text)
		case ActionSummary, ActionContext:
			fmt.Fprintf(out, "\n%s\n\n> ", outcome.Text)
		case ActionIgnored:
			fmt.Fprint(out, "> ")
		case ActionTerminated:
			printTermination(out, outcome, d.Exchanges())
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	// EOF: end the session as if the author typed quit.
	outcome, err := d.HandleInput(ctx, "quit")
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	printTermination(out, outcome, d.Exchanges())
	return nil
}

func printTermination(out io.Writer, outcome Outcome, exchanges int) {
	fmt.Fprintf(out, "\nSession saved: %s (%d exchanges)\n", outcome.SavedPath, exchanges)
	if outcome.InsightsPath != "" {
		fmt.Fprintf(out, "Insights saved: %s\n", outcome.InsightsPath)
	}
}
