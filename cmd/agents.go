package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kindred-labs/grimoire/internal/agents"
	"github.com/kindred-labs/grimoire/internal/compiler"
	"github.com/kindred-labs/grimoire/internal/content"
	"github.com/kindred-labs/grimoire/internal/detect"
	"github.com/kindred-labs/grimoire/internal/infra"
)

var (
	agentsPath   string
	agentsTool   string
	agentsForce  bool
	agentsDryRun bool
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Compile agent specs for your AI tool",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var agentsSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Compile agent specs from .grimoire/agents and install them",
	Run:   runAgentsSetup,
}

var agentsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Recompile agent specs and sync changed agents",
	Run:   runAgentsUpdate,
}

func init() {
	agentsCmd.AddCommand(agentsSetupCmd)
	agentsCmd.AddCommand(agentsUpdateCmd)

	agentsCmd.PersistentFlags().StringVar(&agentsPath, "path", "", "Project directory (default: current directory)")
	agentsCmd.PersistentFlags().StringVar(&agentsTool, "tool", "auto", "Target tool: auto, claude-code, opencode")
	agentsSetupCmd.Flags().BoolVar(&agentsForce, "force", false, "Overwrite existing agents")
	agentsUpdateCmd.Flags().BoolVar(&agentsForce, "force", false, "Reinstall all agents, not just changed ones")
	agentsSetupCmd.Flags().BoolVar(&agentsDryRun, "dry-run", false, "Show what would happen without writing")
	agentsUpdateCmd.Flags().BoolVar(&agentsDryRun, "dry-run", false, "Show what would happen without writing")
}

// platformFor maps a resolved tool to its compiler platform.
func platformFor(tool detect.Tool) compiler.Platform {
	if tool == detect.OpenCode {
		return compiler.OpenCode
	}
	return compiler.ClaudeCode
}

func resolveAgentsTool(fs infra.FileSystem, log infra.Logger, projectDir string) (detect.Tool, *detect.Detector) {
	tool, err := detect.ParseTool(agentsTool)
	if err != nil {
		exitWithError(err.Error())
	}
	detector := detect.New(fs, projectDir)
	if tool == detect.Auto {
		tool = detector.Detect()
		log.Info("Auto-detected tool: %s", tool)
	}
	return tool, detector
}

func runAgentsSetup(cmd *cobra.Command, args []string) {
	fs, _, _, log := collaborators()
	projectDir := resolvePath(agentsPath)
	tool, detector := resolveAgentsTool(fs, log, projectDir)

	sourceDir := detector.AgentsSourceDir()
	targetDir := detector.AgentsDir(tool)

	found, err := agents.Discover(fs, sourceDir)
	if err != nil || len(found) == 0 {
		log.Warn("No agent specs found in %s", filepath.Join(content.Dir, "agents"))
		log.Info("Run 'grimoire install' first.")
		return
	}
	log.Info("Found %d agent spec(s), compiling for %s", len(found), tool)

	knownSkills := agents.KnownSkills(fs, detector.SkillsSourceDir())
	comp, err := compiler.New(platformFor(tool))
	if err != nil {
		exitWithError(err.Error())
	}

	compiled, skipped, failed := 0, 0, 0
	for _, agent := range found {
		spec, err := agents.Load(fs, agent.Path, knownSkills)
		if err != nil {
			log.Error("Invalid spec %s: %v", agent.Name, err)
			failed++
			continue
		}
		if comp.Platform() == compiler.OpenCode && len(spec.Skills) > 0 {
			log.Warn("%s: opencode has no skills field; %d skill reference(s) dropped", agent.Name, len(spec.Skills))
		}
		artifact, err := comp.Compile(spec)
		if err != nil {
			log.Error("Failed to compile %s: %v", agent.Name, err)
			failed++
			continue
		}
		dest := filepath.Join(targetDir, artifact.Name)
		if fs.Exists(dest) && !agentsForce {
			log.Warn("Skipped (exists): %s", artifact.Name)
			skipped++
			continue
		}
		if agentsDryRun {
			log.Info("Would install: %s -> %s", artifact.Name, dest)
			compiled++
			continue
		}
		if err := agents.Install(fs, artifact, targetDir); err != nil {
			log.Error("Failed to install %s: %v", artifact.Name, err)
			failed++
			continue
		}
		log.Success("Compiled: %s", artifact.Name)
		compiled++
	}

	if agentsDryRun {
		log.Info("Dry run: %d agent(s) would be installed to %s", compiled, targetDir)
		return
	}
	log.Success("Setup complete: %d compiled, %d skipped, %d failed", compiled, skipped, failed)
	if skipped > 0 {
		log.Info("Use --force to overwrite existing agents.")
	}
	if failed > 0 {
		exitWithError("some agent specs failed to compile")
	}
}

func runAgentsUpdate(cmd *cobra.Command, args []string) {
	fs, _, sum, log := collaborators()
	projectDir := resolvePath(agentsPath)
	tool, detector := resolveAgentsTool(fs, log, projectDir)

	sourceDir := detector.AgentsSourceDir()
	targetDir := detector.AgentsDir(tool)

	if !fs.Exists(sourceDir) {
		log.Warn("No agent specs found in %s", filepath.Join(content.Dir, "agents"))
		log.Info("Run 'grimoire install' first.")
		return
	}
	if !fs.Exists(targetDir) {
		log.Warn("No agents installed yet.")
		log.Info("Run 'grimoire agents setup' first.")
		return
	}

	comp, err := compiler.New(platformFor(tool))
	if err != nil {
		exitWithError(err.Error())
	}
	knownSkills := agents.KnownSkills(fs, detector.SkillsSourceDir())

	differ := agents.NewDiffer(fs, sum, comp)
	diff, err := differ.Diff(sourceDir, targetDir, knownSkills)
	if err != nil {
		exitWithError(err.Error())
	}

	log.Info("Summary: %d new, %d modified, %d unchanged, %d removed",
		diff.Count(agents.StatusNew),
		diff.Count(agents.StatusModified),
		diff.Count(agents.StatusUnchanged),
		diff.Count(agents.StatusRemoved))

	for _, agent := range diff.Agents {
		switch agent.Status {
		case agents.StatusNew:
			log.Info("  + %s", agent.Name)
		case agents.StatusModified:
			log.Info("  ~ %s", agent.Name)
		case agents.StatusRemoved:
			log.Info("  - %s (removed from source)", agent.Name)
		default:
			log.Info("  = %s", agent.Name)
		}
	}
	for _, invalid := range diff.Invalid {
		log.Error("Invalid spec %s: %v", invalid.Name, invalid.Err)
	}

	if !diff.HasChanges() && !agentsForce {
		log.Success("All agents are up to date.")
		return
	}

	toInstall := diff.ToInstall(agentsForce)
	if len(toInstall) == 0 {
		log.Info("No agents to update.")
		return
	}

	if agentsDryRun {
		log.Info("Dry run: %d agent(s) would be updated.", len(toInstall))
		return
	}

	for _, artifact := range toInstall {
		if err := agents.Install(fs, artifact, targetDir); err != nil {
			log.Error("Failed to install %s: %v", artifact.Name, err)
			continue
		}
		log.Success("Updated: %s", artifact.Name)
	}

	if removed := diff.Count(agents.StatusRemoved); removed > 0 {
		log.Info("Note: %d agent(s) removed from source but still installed.", removed)
	}
	if len(diff.Invalid) > 0 {
		exitWithError("some agent specs are invalid")
	}
}
