// clean.go implements the "memoflow clean" command for pruning old
// session records.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memoflow-dev/memoflow/internal/cleanup"
	"github.com/memoflow-dev/memoflow/internal/log"
)

var (
	cleanMaxAge     int
	cleanKeepRecent int
	cleanDryRun     bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Prune old interview session records",
	Long: `Remove session record files from writing_projects/. Insight and draft
markdown files are never touched. By default records older than the
configured max age are removed; --keep-recent instead keeps only the
newest N records per memo.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().IntVar(&cleanMaxAge, "max-age", 0, "Remove records older than this many days (default from config)")
	cleanCmd.Flags().IntVar(&cleanKeepRecent, "keep-recent", 0, "Keep only the newest N records per memo")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Report what would be removed without deleting")
}

func runClean(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	var pruned []string
	if cleanKeepRecent > 0 {
		pruned, err = cleanup.PruneKeepRecent(e.store.SessionsDir(), cleanKeepRecent, cleanDryRun)
	} else {
		maxAge := cleanMaxAge
		if maxAge <= 0 {
			maxAge = e.cfg.Cleanup.MaxAgeDays
		}
		pruned, err = cleanup.PruneByAge(e.store.SessionsDir(), maxAge, cleanDryRun)
	}
	if err != nil {
		return err
	}

	if len(pruned) == 0 {
		fmt.Println("Nothing to prune.")
		return nil
	}

	verb := "Pruned"
	if cleanDryRun {
		verb = "Would prune"
	}
	fmt.Printf("%s %d session records:\n", verb, len(pruned))
	for _, name := range pruned {
		fmt.Printf("  %s\n", name)
	}

	if !cleanDryRun {
		_ = e.logger.Append(log.LogEvent{
			Event:  log.EventArtifactsPruned,
			Pruned: len(pruned),
		})
	}
	return nil
}
