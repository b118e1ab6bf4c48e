package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kindred-labs/grimoire/internal/content"
)

var installPath string

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the .grimoire content tree",
	Long: `Download the remote manifest and install every file it lists,
verifying each download against its SHA-256 checksum.`,
	Run: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installPath, "path", "", "Project directory (default: current directory)")
}

func runInstall(cmd *cobra.Command, args []string) {
	fs, client, sum, log := collaborators()
	executor := content.NewExecutor(fs, client, sum, log)

	if err := executor.Install(cmd.Context(), resolvePath(installPath)); err != nil {
		exitWithError(err.Error())
	}
}
