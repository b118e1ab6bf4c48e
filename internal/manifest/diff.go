package manifest

import "sort"

// Diff partitions the union of two manifests' paths into four disjoint
// sets. Renames are not detected; a renamed file shows up as removed plus
// new.
type Diff struct {
	New       []FileEntry
	Modified  []FileEntry
	Unchanged []FileEntry
	Removed   []string
}

// Compute classifies every path in local ∪ remote. Iteration is in sorted
// path order so the resulting diff is deterministic, which dry-run output
// and tests rely on.
func Compute(local, remote *Manifest) *Diff {
	localSums := local.checksums()
	remoteSums := remote.checksums()

	remotePaths := make([]string, 0, len(remoteSums))
	for path := range remoteSums {
		remotePaths = append(remotePaths, path)
	}
	sort.Strings(remotePaths)

	diff := &Diff{}
	for _, path := range remotePaths {
		entry := FileEntry{Path: path, Checksum: remoteSums[path]}
		localSum, ok := localSums[path]
		switch {
		case !ok:
			diff.New = append(diff.New, entry)
		case localSum != entry.Checksum:
			diff.Modified = append(diff.Modified, entry)
		default:
			diff.Unchanged = append(diff.Unchanged, entry)
		}
	}

	for path := range localSums {
		if _, ok := remoteSums[path]; !ok {
			diff.Removed = append(diff.Removed, path)
		}
	}
	sort.Strings(diff.Removed)

	return diff
}

// HasChanges reports whether anything needs downloading or reporting.
func (d *Diff) HasChanges() bool {
	return len(d.New) > 0 || len(d.Modified) > 0 || len(d.Removed) > 0
}

// ToDownload returns the entries an update must fetch: new then modified,
// each already path-sorted.
func (d *Diff) ToDownload() []FileEntry {
	entries := make([]FileEntry, 0, len(d.New)+len(d.Modified))
	entries = append(entries, d.New...)
	entries = append(entries, d.Modified...)
	return entries
}
