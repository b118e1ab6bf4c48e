// Package cmd wires the CLI. Flags are parsed here and handed to the
// engine as plain values; all sync and compile logic lives under
// internal/.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kindred-labs/grimoire/internal/infra"
	"github.com/kindred-labs/grimoire/internal/ui"
)

var (
	// Version is set at build time
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "grimoire",
	Short: "Agent content distribution and spec compiler",
	Long: ui.Logo() + `

  Installs and updates shared agent content from a remote manifest,
  and compiles platform-agnostic agent specs for your AI tool.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("grimoire %s\n", Version)
	},
}

// exitWithError prints an error and exits
func exitWithError(msg string) {
	fmt.Fprintln(os.Stderr, ui.Error.Render("Error: "+msg))
	os.Exit(1)
}

// collaborators builds the production engine dependencies.
func collaborators() (infra.FileSystem, infra.HttpClient, infra.Checksum, infra.Logger) {
	return infra.NewOSFileSystem(), infra.NewHTTPClient(), infra.NewSHA256(), ui.NewLogger()
}

// resolvePath defaults a --path flag to the working directory.
func resolvePath(path string) string {
	if path != "" {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(err.Error())
	}
	return cwd
}
