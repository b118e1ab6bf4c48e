package skills

import (
	"path/filepath"
	"sort"

	"github.com/kindred-labs/grimoire/internal/infra"
)

// FileStatus classifies one file of a skill.
type FileStatus int

const (
	FileNew FileStatus = iota
	FileModified
	FileUnchanged
	FileRemoved
)

// Status classifies a whole skill.
type Status int

const (
	StatusNew Status = iota
	StatusUpdated
	StatusUnchanged
	StatusRemoved
)

// FileDiff describes one file within a skill.
type FileDiff struct {
	RelPath    string
	SourcePath string // empty for removed files
	TargetPath string
	Status     FileStatus
}

// SkillDiff describes one skill's state relative to its installed copy.
type SkillDiff struct {
	Name   string
	Status Status
	Files  []FileDiff
}

// Count returns how many files carry the given status.
func (s *SkillDiff) Count(status FileStatus) int {
	n := 0
	for _, f := range s.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// UpdateDiff is the full source-vs-installed comparison.
type UpdateDiff struct {
	Skills []SkillDiff
}

// Count returns how many skills carry the given status.
func (d *UpdateDiff) Count(status Status) int {
	n := 0
	for _, s := range d.Skills {
		if s.Status == status {
			n++
		}
	}
	return n
}

// HasChanges reports whether any skill differs from its installed copy.
func (d *UpdateDiff) HasChanges() bool {
	for _, s := range d.Skills {
		if s.Status != StatusUnchanged {
			return true
		}
	}
	return false
}

// FilesToUpdate returns the files an update must copy. Without force that
// is new and modified files only; unchanged files are skipped entirely so
// manual edits are not flagged as churn on every run. With force every
// file of every non-removed skill is rewritten, resetting a hand-edited
// install to the source of truth. Removed entries are never included.
func (d *UpdateDiff) FilesToUpdate(force bool) []FileDiff {
	var files []FileDiff
	for _, s := range d.Skills {
		if s.Status == StatusRemoved {
			continue
		}
		for _, f := range s.Files {
			if f.Status == FileRemoved {
				continue
			}
			if force || f.Status == FileNew || f.Status == FileModified {
				files = append(files, f)
			}
		}
	}
	return files
}

// Differ computes skill diffs with SHA-256 checksums.
type Differ struct {
	fs  infra.FileSystem
	sum infra.Checksum
}

// NewDiffer returns a Differ over the given collaborators.
func NewDiffer(fs infra.FileSystem, sum infra.Checksum) *Differ {
	return &Differ{fs: fs, sum: sum}
}

// Diff compares every skill under sourceDir with targetDir. Skills
// present only in the target are reported as removed, with no file
// detail; they are never deleted.
func (d *Differ) Diff(sourceDir, targetDir string) (*UpdateDiff, error) {
	source, err := Discover(d.fs, sourceDir)
	if err != nil {
		return nil, err
	}

	var target []Info
	if d.fs.Exists(targetDir) {
		if target, err = Discover(d.fs, targetDir); err != nil {
			return nil, err
		}
	}
	targetByName := make(map[string]Info, len(target))
	for _, t := range target {
		targetByName[t.Name] = t
	}
	sourceByName := make(map[string]bool, len(source))

	diff := &UpdateDiff{}
	for _, skill := range source {
		sourceByName[skill.Name] = true
		installed, ok := targetByName[skill.Name]
		if !ok {
			files, err := d.allNew(skill, filepath.Join(targetDir, skill.Name))
			if err != nil {
				return nil, err
			}
			diff.Skills = append(diff.Skills, SkillDiff{Name: skill.Name, Status: StatusNew, Files: files})
			continue
		}

		files, err := d.fileDiffs(skill.Path, installed.Path)
		if err != nil {
			return nil, err
		}
		status := StatusUnchanged
		for _, f := range files {
			if f.Status != FileUnchanged {
				status = StatusUpdated
				break
			}
		}
		diff.Skills = append(diff.Skills, SkillDiff{Name: skill.Name, Status: status, Files: files})
	}

	for _, t := range target {
		if !sourceByName[t.Name] {
			diff.Skills = append(diff.Skills, SkillDiff{Name: t.Name, Status: StatusRemoved})
		}
	}

	sort.Slice(diff.Skills, func(i, j int) bool { return diff.Skills[i].Name < diff.Skills[j].Name })
	return diff, nil
}

func (d *Differ) allNew(skill Info, targetRoot string) ([]FileDiff, error) {
	rels, err := listFiles(d.fs, skill.Path)
	if err != nil {
		return nil, err
	}

	files := make([]FileDiff, 0, len(rels))
	for _, rel := range rels {
		files = append(files, FileDiff{
			RelPath:    rel,
			SourcePath: filepath.Join(skill.Path, rel),
			TargetPath: filepath.Join(targetRoot, rel),
			Status:     FileNew,
		})
	}
	return files, nil
}

// fileDiffs classifies the union of both subtrees' relative paths.
func (d *Differ) fileDiffs(sourceRoot, targetRoot string) ([]FileDiff, error) {
	sourceRels, err := listFiles(d.fs, sourceRoot)
	if err != nil {
		return nil, err
	}
	targetRels, err := listFiles(d.fs, targetRoot)
	if err != nil {
		return nil, err
	}
	inTarget := make(map[string]bool, len(targetRels))
	for _, rel := range targetRels {
		inTarget[rel] = true
	}
	inSource := make(map[string]bool, len(sourceRels))

	var files []FileDiff
	for _, rel := range sourceRels {
		inSource[rel] = true
		fd := FileDiff{
			RelPath:    rel,
			SourcePath: filepath.Join(sourceRoot, rel),
			TargetPath: filepath.Join(targetRoot, rel),
		}
		if !inTarget[rel] {
			fd.Status = FileNew
			files = append(files, fd)
			continue
		}

		sourceSum, err := d.sum.SumFile(fd.SourcePath)
		if err != nil {
			return nil, err
		}
		targetSum, err := d.sum.SumFile(fd.TargetPath)
		if err != nil {
			return nil, err
		}
		if sourceSum == targetSum {
			fd.Status = FileUnchanged
		} else {
			fd.Status = FileModified
		}
		files = append(files, fd)
	}

	for _, rel := range targetRels {
		if !inSource[rel] {
			files = append(files, FileDiff{
				RelPath:    rel,
				TargetPath: filepath.Join(targetRoot, rel),
				Status:     FileRemoved,
			})
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}
