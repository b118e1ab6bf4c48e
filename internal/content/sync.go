// Package content installs and updates the .grimoire tree from a remote
// manifest: checksum-verified downloads, diff-driven updates, and an
// atomically written manifest snapshot as the only persisted state.
package content

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/kindred-labs/grimoire/internal/infra"
	"github.com/kindred-labs/grimoire/internal/manifest"
)

const (
	// Dir is the managed content directory inside a project.
	Dir = ".grimoire"
	// ManifestFile is the local snapshot of the last successful sync.
	ManifestFile = "manifest.json"
	// DefaultBaseURL is the raw content root of the distribution repo.
	DefaultBaseURL = "https://raw.githubusercontent.com/kindred-labs/grimoire-content/main"
)

// Executor orchestrates install, check and update against injected
// collaborators. It never retries; a failed file is reported and the run
// exits non-zero, and re-running is the recovery path since every write is
// an idempotent overwrite.
type Executor struct {
	FS   infra.FileSystem
	HTTP infra.HttpClient
	Sum  infra.Checksum
	Log  infra.Logger

	// BaseURL overrides DefaultBaseURL, mainly for tests and mirrors.
	BaseURL string

	// Confirm is asked before a non-forced update applies changes.
	// A nil Confirm proceeds without asking.
	Confirm func(prompt string) bool
}

// NewExecutor wires an Executor with the default remote.
func NewExecutor(fs infra.FileSystem, client infra.HttpClient, sum infra.Checksum, log infra.Logger) *Executor {
	return &Executor{FS: fs, HTTP: client, Sum: sum, Log: log}
}

func (e *Executor) base() string {
	if e.BaseURL != "" {
		return e.BaseURL
	}
	return DefaultBaseURL
}

// ManifestURL is the remote location of the distribution manifest.
func (e *Executor) ManifestURL() string {
	return e.base() + "/" + Dir + "/" + ManifestFile
}

func (e *Executor) contentURL(path string) string {
	return e.base() + "/" + Dir + "/" + path
}

func (e *Executor) contentDir(dir string) string {
	return filepath.Join(dir, Dir)
}

func (e *Executor) manifestPath(dir string) string {
	return filepath.Join(dir, Dir, ManifestFile)
}

// Install downloads the full remote tree into dir/.grimoire. Refuses to
// touch an existing installation; that is what Update is for.
func (e *Executor) Install(ctx context.Context, dir string) error {
	contentDir := e.contentDir(dir)
	if e.FS.Exists(contentDir) {
		e.Log.Warn("%s already exists. Use 'update' to update it.", contentDir)
		return nil
	}

	e.Log.Info("Downloading manifest...")
	remote, err := manifest.Fetch(ctx, e.HTTP, e.ManifestURL())
	if err != nil {
		return err
	}
	e.Log.Info("Manifest %s, %d file(s)", remote.Version, len(remote.Files))

	if err := e.FS.CreateDirAll(contentDir); err != nil {
		return err
	}

	downloaded, failed := e.download(ctx, dir, remote.Files)
	if failed != nil {
		e.Log.Error("%d file(s) failed; %d downloaded. Re-run install to retry.", len(failed.Errors), downloaded)
		return failed
	}

	// Snapshot only after every entry landed.
	if err := remote.Save(e.FS, e.manifestPath(dir)); err != nil {
		return err
	}

	e.Log.Success("Installed %d file(s) to %s", downloaded, contentDir)
	return nil
}

// Check compares the installed state with the remote without writing
// anything.
func (e *Executor) Check(ctx context.Context, dir string) error {
	if !e.FS.Exists(e.contentDir(dir)) {
		e.Log.Warn("%s not found. Run 'install' first.", Dir)
		return nil
	}

	local, err := manifest.Load(e.FS, e.manifestPath(dir))
	if err != nil {
		return err
	}
	remote, err := manifest.Fetch(ctx, e.HTTP, e.ManifestURL())
	if err != nil {
		return err
	}

	e.Log.Info("Local: %s, Remote: %s", local.Version, remote.Version)

	// Version tokens are opaque: equality is all that is ever checked.
	diff := manifest.Compute(local, remote)
	if local.Version == remote.Version && !diff.HasChanges() {
		e.Log.Success("Up to date.")
		return nil
	}

	e.Log.Info("Updates available: %d new, %d modified, %d removed",
		len(diff.New), len(diff.Modified), len(diff.Removed))
	e.preview(diff)
	e.Log.Info("Run 'update' to download updates.")
	return nil
}

// Update downloads new and modified entries only. Unchanged files are
// never rewritten and removed files are never deleted; removals are
// reported so local customization survives. The new manifest snapshot is
// written only after every download succeeded, and it always describes
// the complete remote state so future diffs stay correct.
func (e *Executor) Update(ctx context.Context, dir string, force, dryRun bool) error {
	if !e.FS.Exists(e.contentDir(dir)) {
		e.Log.Warn("%s not found. Run 'install' first.", Dir)
		return nil
	}

	local, err := manifest.Load(e.FS, e.manifestPath(dir))
	if err != nil {
		return err
	}
	remote, err := manifest.Fetch(ctx, e.HTTP, e.ManifestURL())
	if err != nil {
		return err
	}

	e.Log.Info("Local: %s, Remote: %s", local.Version, remote.Version)

	diff := manifest.Compute(local, remote)
	if !force && !diff.HasChanges() {
		e.Log.Success("Up to date.")
		return nil
	}

	entries := diff.ToDownload()
	if force {
		// Forced updates re-download everything the remote describes,
		// resetting local edits to the source of truth.
		entries = remote.Files
		e.Log.Info("Force update: downloading all %d file(s)", len(entries))
	} else {
		e.Log.Info("Updates available: %d new, %d modified, %d removed",
			len(diff.New), len(diff.Modified), len(diff.Removed))
		e.preview(diff)
	}

	if dryRun {
		e.Log.Info("Dry run: %d file(s) would be downloaded.", len(entries))
		return nil
	}

	if !force && e.Confirm != nil {
		if !e.Confirm(fmt.Sprintf("Download %d file(s)?", len(entries))) {
			e.Log.Info("Update aborted.")
			return nil
		}
	}

	downloaded, failed := e.download(ctx, dir, entries)
	if failed != nil {
		e.Log.Error("%d file(s) failed; %d downloaded. Manifest left unchanged; re-run update to retry.",
			len(failed.Errors), downloaded)
		return failed
	}

	if err := remote.Save(e.FS, e.manifestPath(dir)); err != nil {
		return err
	}

	e.Log.Success("Updated %d file(s).", downloaded)
	return nil
}

func (e *Executor) preview(diff *manifest.Diff) {
	for _, entry := range diff.New {
		e.Log.Info("  + %s", entry.Path)
	}
	for _, entry := range diff.Modified {
		e.Log.Info("  ~ %s", entry.Path)
	}
	for _, path := range diff.Removed {
		e.Log.Info("  - %s (removed from source, kept locally)", path)
	}
}

// download fetches entries sequentially, verifying each checksum. Failures
// are collected per file rather than aborting the batch, so one transient
// error does not throw away otherwise successful work.
func (e *Executor) download(ctx context.Context, dir string, entries []manifest.FileEntry) (int, *multierror.Error) {
	var failed *multierror.Error
	downloaded := 0

	for _, entry := range entries {
		if err := e.downloadEntry(ctx, dir, entry); err != nil {
			e.Log.Error("  %s: %v", entry.Path, err)
			failed = multierror.Append(failed, err)
			continue
		}
		e.Log.Info("  ↓ %s", entry.Path)
		downloaded++
	}

	return downloaded, failed
}

func (e *Executor) downloadEntry(ctx context.Context, dir string, entry manifest.FileEntry) error {
	data, err := e.HTTP.Get(ctx, e.contentURL(entry.Path))
	if err != nil {
		return err
	}

	actual := e.Sum.SumBytes(data)
	if actual != entry.Checksum {
		return &infra.ChecksumMismatchError{
			Path:     entry.Path,
			Expected: entry.Checksum,
			Actual:   actual,
		}
	}

	dest := filepath.Join(dir, Dir, filepath.FromSlash(entry.Path))
	if err := e.FS.CreateDirAll(filepath.Dir(dest)); err != nil {
		return err
	}
	return e.FS.Write(dest, data)
}
