// resume.go implements the "memoflow resume" command for continuing a
// saved interview session.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memoflow-dev/memoflow/internal/interview"
	"github.com/memoflow-dev/memoflow/internal/log"
	"github.com/memoflow-dev/memoflow/internal/memo"
)

var (
	resumeSessionPath string
	resumeTUI         bool
)

var resumeCmd = &cobra.Command{
	Use:   "resume <memo-id>",
	Short: "Resume the latest saved interview for a memo",
	Long: `Continue a saved interview session. By default the most recent session
record for the memo is used; --session selects a specific record file.
The conversation history and session id carry over, and ending the
resumed session writes a new record file rather than overwriting the old
one.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeSessionPath, "session", "", "Path to a specific session record file")
	resumeCmd.Flags().BoolVar(&resumeTUI, "tui", false, "Use the full-screen chat interface")
}

func runResume(cmd *cobra.Command, args []string) error {
	memoID := args[0]

	e, err := newEnv()
	if err != nil {
		return err
	}

	var rec memo.SessionRecord
	if resumeSessionPath != "" {
		// An explicitly named record must parse; there is no sane
		// fallback when the user pointed at a specific file.
		rec, err = e.store.LoadSessionRecord(resumeSessionPath)
		if err != nil {
			return err
		}
		if rec.MemoID != memoID {
			return fmt.Errorf("session record is for %s, not %s", rec.MemoID, memoID)
		}
	} else {
		records, skipped, err := e.store.ListSessionRecords(memoID)
		printWarns(skipped)
		for range skipped {
			_ = e.logger.Append(log.LogEvent{
				Event:  log.EventRecordSkipped,
				MemoID: memoID,
			})
		}
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no saved sessions for %s; start one with 'memoflow interview %s'", memoID, memoID)
		}
		rec = records[len(records)-1].Record
	}

	// Context is rebuilt from current disk state, not from the snapshot
	// inside the record: new memos and analyses take effect on resume.
	ictx, warns, err := interview.BuildContext(e.store, e.finder(), memoID)
	if err != nil {
		return err
	}
	e.reportContext(memoID, ictx, warns)

	state := interview.Restore(rec)
	fmt.Printf("Resuming session %s (%d exchanges so far)\n", state.SessionID, len(state.Exchanges))

	return runSession(cmd, e, ictx, state, true, resumeTUI)
}
