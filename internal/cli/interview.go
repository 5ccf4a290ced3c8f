// interview.go implements the "memoflow interview" command.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/memoflow-dev/memoflow/internal/interview"
	"github.com/memoflow-dev/memoflow/internal/tui"
)

var interviewTUI bool

var interviewCmd = &cobra.Command{
	Use:   "interview <memo-id>",
	Short: "Start an interactive writing interview about a memo",
	Long: `Interview you about a memo's writing ideas. The questions draw on the
memo's analyses and on related memos found by transcript similarity.
Type 'quit' to end and save, 'summary' for recent exchanges, 'context'
to see what the interviewer knows.`,
	Args: cobra.ExactArgs(1),
	RunE: runInterview,
}

func init() {
	interviewCmd.Flags().BoolVar(&interviewTUI, "tui", false, "Use the full-screen chat interface")
}

func runInterview(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	if err := e.store.EnsureDirs(); err != nil {
		return err
	}

	ictx, warns, err := interview.BuildContext(e.store, e.finder(), args[0])
	if err != nil {
		return err
	}
	e.reportContext(args[0], ictx, warns)

	return runSession(cmd, e, ictx, interview.NewState(args[0]), false, interviewTUI)
}

// runSession drives one interview session over either the TUI or the line
// REPL. Shared by interview and resume.
func runSession(cmd *cobra.Command, e *env, ictx *interview.Context, state *interview.State, resumed, useTUI bool) error {
	opts := []interview.DriverOption{
		interview.WithSummaryWindow(e.cfg.Interview.SummaryWindow),
		interview.WithPreviewLength(e.cfg.Interview.PreviewLength),
	}
	if resumed {
		opts = append(opts, interview.WithResumedState())
	}
	d := interview.NewDriver(e.store, e.writingClient(), e.logger, ictx, state, opts...)

	if useTUI && tui.IsTTY() {
		return tui.RunInterview(cmd.Context(), d)
	}
	return interview.RunREPL(cmd.Context(), d, os.Stdin, os.Stdout)
}
