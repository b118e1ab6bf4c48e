package infra

import (
	"io"
	"os"
	"path/filepath"
)

// OSFileSystem is the production FileSystem backed by the local disk.
type OSFileSystem struct{}

// NewOSFileSystem returns a FileSystem backed by the local disk.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (f *OSFileSystem) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

func (f *OSFileSystem) Write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func (f *OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (f *OSFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (f *OSFileSystem) CreateDirAll(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return &IOError{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}

func (f *OSFileSystem) ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, &IOError{Op: "readdir", Path: path, Err: err}
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, filepath.Join(path, entry.Name()))
	}
	return paths, nil
}

func (f *OSFileSystem) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Path: src}
		}
		return &IOError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return &IOError{Op: "create", Path: dst, Err: err}
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return &IOError{Op: "copy", Path: dst, Err: err}
	}
	return nil
}

func (f *OSFileSystem) Rename(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		return &IOError{Op: "rename", Path: newPath, Err: err}
	}
	return nil
}
