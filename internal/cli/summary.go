// summary.go implements the "memoflow summary" command.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/memoflow-dev/memoflow/internal/extract"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [date]",
	Short: "Build a daily summary across memos",
	Long: `Aggregate one day's analyses (YYYY-MM-DD or YYYYMMDD, default today)
into a single summary file under analysis/daily_summaries/.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	date := time.Now().Format("2006-01-02")
	if len(args) == 1 {
		date = args[0]
	}

	e, err := newEnv()
	if err != nil {
		return err
	}
	p := extract.NewProcessor(e.store, e.extractClient(), e.logger)

	summary, path, err := p.BuildDailySummary(date)
	if err != nil {
		return err
	}
	fmt.Printf("Summary for %s: %d memos, %d writing ideas, %d todo items\n",
		summary.Date, len(summary.MemoIDs), len(summary.WritingIdeas), len(summary.TodoItems))
	fmt.Printf("Saved: %s\n", path)
	return nil
}
