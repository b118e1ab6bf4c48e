package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kindred-labs/grimoire/internal/content"
	"github.com/kindred-labs/grimoire/internal/detect"
	"github.com/kindred-labs/grimoire/internal/infra"
	"github.com/kindred-labs/grimoire/internal/skills"
	"github.com/kindred-labs/grimoire/internal/ui"
)

var (
	skillsPath   string
	skillsTool   string
	skillsForce  bool
	skillsDryRun bool
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage skills for your AI tool",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var skillsSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Copy skills from .grimoire/skills into your tool's directory",
	Run:   runSkillsSetup,
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available skills",
	Run:   runSkillsList,
}

var skillsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Sync installed skills with their source",
	Long: `Compare installed skills against .grimoire/skills file by file using
SHA-256 checksums, and copy only what changed. Skills removed from the
source are reported but never deleted. --force rewrites every file.`,
	Run: runSkillsUpdate,
}

func init() {
	skillsCmd.AddCommand(skillsSetupCmd)
	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsUpdateCmd)

	skillsCmd.PersistentFlags().StringVar(&skillsPath, "path", "", "Project directory (default: current directory)")
	skillsCmd.PersistentFlags().StringVar(&skillsTool, "tool", "auto", "Target tool: auto, claude-code, opencode")
	skillsSetupCmd.Flags().BoolVar(&skillsForce, "force", false, "Overwrite existing skills")
	skillsUpdateCmd.Flags().BoolVar(&skillsForce, "force", false, "Rewrite all files, not just changed ones")
	skillsSetupCmd.Flags().BoolVar(&skillsDryRun, "dry-run", false, "Show what would happen without writing")
	skillsUpdateCmd.Flags().BoolVar(&skillsDryRun, "dry-run", false, "Show what would happen without writing")
}

// resolveTool parses --tool and auto-detects when asked to.
func resolveTool(fs infra.FileSystem, log infra.Logger, projectDir string) (detect.Tool, *detect.Detector) {
	tool, err := detect.ParseTool(skillsTool)
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

func runSkillsSetup(cmd *cobra.Command, args []string) {
	fs, _, _, log := collaborators()
	projectDir := resolvePath(skillsPath)
	tool, detector := resolveTool(fs, log, projectDir)

	sourceDir := detector.SkillsSourceDir()
	targetDir := detector.SkillsDir(tool)

	found, err := skills.Discover(fs, sourceDir)
	if err != nil {
		log.Warn("No skills found in %s", sourceDir)
		log.Info("Run 'grimoire install' first.")
		return
	}
	if len(found) == 0 {
		log.Warn("No skills found in %s", sourceDir)
		return
	}
	log.Info("Found %d skill(s)", len(found))

	if !skillsDryRun {
		if err := fs.CreateDirAll(targetDir); err != nil {
			exitWithError(err.Error())
		}
	}

	copier := skills.NewCopier(fs)
	copied, skipped := 0, 0
	for _, skill := range found {
		if skillsDryRun {
			log.Info("Would copy: %s -> %s", skill.Name, filepath.Join(targetDir, skill.Name))
			copied++
			continue
		}
		ok, err := copier.Copy(skill, targetDir, skillsForce)
		if err != nil {
			exitWithError(err.Error())
		}
		if ok {
			log.Success("Copied: %s", skill.Name)
			copied++
		} else {
			log.Warn("Skipped (exists): %s", skill.Name)
			skipped++
		}
	}

	if skillsDryRun {
		log.Info("Dry run: %d skill(s) would be copied to %s", copied, targetDir)
		return
	}
	log.Success("Setup complete: %d copied, %d skipped", copied, skipped)
	if skipped > 0 {
		log.Info("Use --force to overwrite existing skills.")
	}
}

func runSkillsList(cmd *cobra.Command, args []string) {
	fs, _, _, log := collaborators()
	projectDir := resolvePath(skillsPath)
	tool, detector := resolveTool(fs, log, projectDir)

	sourceDir := detector.SkillsSourceDir()
	targetDir := detector.SkillsDir(tool)

	found, err := skills.Discover(fs, sourceDir)
	if err != nil || len(found) == 0 {
		log.Warn("No skills found in %s", sourceDir)
		log.Info("Run 'grimoire install' first.")
		return
	}

	log.Info("Available skills (%d):", len(found))
	for _, skill := range found {
		status := ""
		if fs.Exists(filepath.Join(targetDir, skill.Name)) {
			status = ui.Muted.Render(" [installed]")
		}
		log.Info("  - %s%s", skill.Name, status)
	}
}

func runSkillsUpdate(cmd *cobra.Command, args []string) {
	fs, _, sum, log := collaborators()
	projectDir := resolvePath(skillsPath)
	tool, detector := resolveTool(fs, log, projectDir)

	sourceDir := detector.SkillsSourceDir()
	targetDir := detector.SkillsDir(tool)

	if !fs.Exists(sourceDir) {
		log.Warn("No skills found in %s", filepath.Join(content.Dir, "skills"))
		log.Info("Run 'grimoire install' first.")
		return
	}
	if !fs.Exists(targetDir) {
		log.Warn("No skills installed yet.")
		log.Info("Run 'grimoire skills setup' first.")
		return
	}

	differ := skills.NewDiffer(fs, sum)
	diff, err := differ.Diff(sourceDir, targetDir)
	if err != nil {
		exitWithError(err.Error())
	}

	log.Info("Summary: %d new, %d updated, %d unchanged, %d removed",
		diff.Count(skills.StatusNew),
		diff.Count(skills.StatusUpdated),
		diff.Count(skills.StatusUnchanged),
		diff.Count(skills.StatusRemoved))

	for _, skill := range diff.Skills {
		log.Info("  %s", describeSkill(skill))
	}

	if !diff.HasChanges() {
		log.Success("All skills are up to date.")
		return
	}

	files := diff.FilesToUpdate(skillsForce)
	if len(files) == 0 {
		log.Info("No files to update.")
		return
	}

	log.Info("Files to update:")
	for _, file := range files {
		switch file.Status {
		case skills.FileNew:
			log.Info("  + %s", file.TargetPath)
		case skills.FileModified:
			log.Info("  ~ %s", file.TargetPath)
			printFileDiff(fs, log, file)
		default:
			log.Info("    %s", file.TargetPath)
		}
	}

	if skillsDryRun {
		log.Info("Dry run: %d file(s) would be updated.", len(files))
		return
	}

	for _, file := range files {
		if err := fs.CreateDirAll(filepath.Dir(file.TargetPath)); err != nil {
			exitWithError(err.Error())
		}
		if err := fs.Copy(file.SourcePath, file.TargetPath); err != nil {
			exitWithError(err.Error())
		}
	}
	log.Success("Updated %d file(s).", len(files))

	if removed := diff.Count(skills.StatusRemoved); removed > 0 {
		log.Info("Note: %d skill(s) removed from source but still installed.", removed)
	}
}

func describeSkill(skill skills.SkillDiff) string {
	switch skill.Status {
	case skills.StatusNew:
		return fmt.Sprintf("+ %s (new, %d file(s))", skill.Name, len(skill.Files))
	case skills.StatusUpdated:
		return fmt.Sprintf("~ %s (%d new, %d modified)", skill.Name,
			skill.Count(skills.FileNew), skill.Count(skills.FileModified))
	case skills.StatusRemoved:
		return fmt.Sprintf("- %s (removed from source)", skill.Name)
	default:
		return fmt.Sprintf("= %s (unchanged)", skill.Name)
	}
}

// printFileDiff shows a unified diff of a modified file when its content
// can be previewed.
func printFileDiff(fs infra.FileSystem, log infra.Logger, file skills.FileDiff) {
	installed, err := fs.Read(file.TargetPath)
	if err != nil {
		return
	}
	incoming, err := fs.Read(file.SourcePath)
	if err != nil {
		return
	}
	if rendered := ui.RenderDiff(file.RelPath, installed, incoming); rendered != "" {
		log.Info("%s", rendered)
	}
}
