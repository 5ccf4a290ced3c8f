// draft.go implements the "memoflow draft" command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memoflow-dev/memoflow/internal/writing"
)

var draftCmd = &cobra.Command{
	Use:   "draft <memo-id>...",
	Short: "Draft a piece from one or more memos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDraft,
}

func runDraft(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	a := writing.NewAssistant(e.store, e.writingClient(), e.logger)

	path, err := a.Draft(cmd.Context(), args)
	if err != nil {
		return err
	}
	fmt.Printf("Draft saved: %s\n", path)
	return nil
}
