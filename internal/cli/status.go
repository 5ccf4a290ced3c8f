// status.go implements the "memoflow status" command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memoflow-dev/memoflow/internal/memo"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what has been processed in the memos directory",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	ids, err := e.store.ListMemoIDs()
	if err != nil {
		return err
	}

	processed := 0
	for _, id := range ids {
		if e.store.HasAnyAnalysis(id) {
			processed++
		}
	}

	fmt.Printf("Memos:      %d (%d processed, %d pending)\n", len(ids), processed, len(ids)-processed)
	for _, kind := range memo.Kinds {
		files, err := e.store.AnalysisFiles(kind)
		if err != nil {
			return err
		}
		fmt.Printf("  %-9s %d\n", kind+":", len(files))
	}

	records, skipped, err := e.store.ListSessionRecords("")
	if err != nil {
		return err
	}
	printWarns(skipped)

	sessions := make(map[string]struct{})
	for _, sf := range records {
		sessions[sf.Record.MemoID+"/"+sf.Record.SessionID] = struct{}{}
	}
	fmt.Printf("Interviews: %d sessions, %d saved records\n", len(sessions), len(records))
	return nil
}
