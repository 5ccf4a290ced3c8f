// process.go implements the "memoflow process" command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memoflow-dev/memoflow/internal/extract"
)

var (
	processAll   bool
	processForce bool
)

var processCmd = &cobra.Command{
	Use:   "process [memo-id]",
	Short: "Extract analyses from memo transcripts",
	Long: `Run the four extractions (projects, tasks, personal, writing) over a
memo transcript and save the structured results under analysis/.
With --all, every unprocessed memo in the directory is handled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&processAll, "all", false, "Process every memo without existing analyses")
	processCmd.Flags().BoolVar(&processForce, "force", false, "Reprocess memos that already have analyses")
}

func runProcess(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !processAll {
		return fmt.Errorf("give a memo id or --all")
	}

	e, err := newEnv()
	if err != nil {
		return err
	}
	p := extract.NewProcessor(e.store, e.extractClient(), e.logger)

	if len(args) == 1 {
		res, err := p.ProcessMemo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printWarns(res.Warns)
		if res.Skipped {
			fmt.Printf("Skipped %s: empty transcript\n", res.MemoID)
			return nil
		}
		fmt.Printf("Processed %s: %d analyses saved\n", res.MemoID, len(res.Saved))
		return nil
	}

	summary, err := p.ProcessAll(cmd.Context(), processForce)
	if err != nil {
		return err
	}
	fmt.Printf("Processed %d, skipped %d, failed %d\n",
		len(summary.Processed), len(summary.Skipped), len(summary.Failed))
	for id, ferr := range summary.Failed {
		fmt.Printf("  %s: %v\n", id, ferr)
	}
	return nil
}
