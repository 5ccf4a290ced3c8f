// develop.go implements the "memoflow develop" command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memoflow-dev/memoflow/internal/writing"
)

var developCmd = &cobra.Command{
	Use:   "develop <memo-id>",
	Short: "Develop a memo's writing ideas into concrete angles",
	Args:  cobra.ExactArgs(1),
	RunE:  runDevelop,
}

func runDevelop(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	a := writing.NewAssistant(e.store, e.writingClient(), e.logger)

	path, err := a.Develop(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Development notes saved: %s\n", path)
	return nil
}
