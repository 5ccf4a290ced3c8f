// sessions.go implements the "memoflow sessions" command.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [memo-id]",
	Short: "List saved interview sessions",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessions,
}

func runSessions(cmd *cobra.Command, args []string) error {
	memoID := ""
	if len(args) == 1 {
		memoID = args[0]
	}

	e, err := newEnv()
	if err != nil {
		return err
	}

	records, skipped, err := e.store.ListSessionRecords(memoID)
	if err != nil {
		return err
	}
	printWarns(skipped)

	if len(records) == 0 {
		fmt.Println("No saved sessions.")
		return nil
	}
	for _, sf := range records {
		rec := sf.Record
		fmt.Printf("%-12s session %s  %2d exchanges  %s\n",
			rec.MemoID, rec.SessionID, len(rec.ConversationHistory), filepath.Base(sf.Path))
	}
	return nil
}
