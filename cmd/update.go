package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kindred-labs/grimoire/internal/content"
	"github.com/kindred-labs/grimoire/internal/ui"
)

var (
	updatePath   string
	updateForce  bool
	updateDryRun bool
	updateYes    bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update installed content to the latest remote state",
	Long: `Compare the local manifest against the remote and download new and
modified files. Files removed from the source are reported but never
deleted. --force re-downloads everything, resetting local edits.`,
	Run: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updatePath, "path", "", "Project directory (default: current directory)")
	updateCmd.Flags().BoolVar(&updateForce, "force", false, "Re-download all files, skipping confirmation")
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Show what would change without downloading")
	updateCmd.Flags().BoolVarP(&updateYes, "yes", "y", false, "Apply updates without asking")
}

func runUpdate(cmd *cobra.Command, args []string) {
	fs, client, sum, log := collaborators()
	executor := content.NewExecutor(fs, client, sum, log)
	if !updateYes {
		executor.Confirm = ui.Confirm
	}

	if err := executor.Update(cmd.Context(), resolvePath(updatePath), updateForce, updateDryRun); err != nil {
		exitWithError(err.Error())
	}
}
