package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kindred-labs/grimoire/internal/content"
)

var checkPath string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check for content updates without downloading",
	Run:   runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkPath, "path", "", "Project directory (default: current directory)")
}

func runCheck(cmd *cobra.Command, args []string) {
	fs, client, sum, log := collaborators()
	executor := content.NewExecutor(fs, client, sum, log)

	if err := executor.Check(cmd.Context(), resolvePath(checkPath)); err != nil {
		exitWithError(err.Error())
	}
}
