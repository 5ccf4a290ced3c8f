// ideas.go implements the "memoflow ideas" command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memoflow-dev/memoflow/internal/writing"
)

var ideasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "List writing ideas extracted across memos",
	RunE:  runIdeas,
}

func runIdeas(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	a := writing.NewAssistant(e.store, e.writingClient(), e.logger)

	groups, warns, err := a.ListIdeas()
	if err != nil {
		return err
	}
	printWarns(warns)

	if len(groups) == 0 {
		fmt.Println("No writing ideas yet. Run 'memoflow process --all' first.")
		return nil
	}
	for _, g := range groups {
		fmt.Printf("%s:\n", g.MemoID)
		for _, idea := range g.Ideas {
			fmt.Printf("  - %s\n", idea)
		}
	}
	return nil
}
