// init.go implements the "memoflow init" command.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/memoflow-dev/memoflow/internal/config"
	"github.com/memoflow-dev/memoflow/internal/memo"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a voice memos directory",
	Long: `Create the analysis and writing_projects directory layout and a
default .memoflow/config.yaml in the memos root. Existing config is
left untouched.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	store := memo.NewStore(memosDir)
	if err := store.EnsureDirs(); err != nil {
		return err
	}

	configPath := filepath.Join(memosDir, ".memoflow", "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Already initialized: %s\n", configPath)
		return nil
	}

	if err := config.WriteConfig(memosDir, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("Initialized memos directory: %s\n", memosDir)
	fmt.Printf("Config written to: %s\n", configPath)
	return nil
}
