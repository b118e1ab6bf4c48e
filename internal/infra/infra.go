// Package infra defines the collaborator interfaces the engine depends on
// (filesystem, HTTP transport, checksumming, logging) and their production
// implementations. Engine packages only ever see the interfaces, which
// keeps sync and diff logic testable with in-memory fakes.
package infra

import "context"

// FileSystem abstracts the file operations the engine performs.
type FileSystem interface {
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
	Exists(path string) bool
	IsDir(path string) bool
	CreateDirAll(path string) error
	// ListDir returns the full paths of the directory's immediate entries.
	ListDir(path string) ([]string, error)
	Copy(src, dst string) error
	// Rename moves a file; on the same filesystem this is atomic, which is
	// what makes the manifest snapshot write safe.
	Rename(oldPath, newPath string) error
}

// HttpClient abstracts remote reads. Implementations must return a
// *NetworkError for transport failures and non-2xx responses.
type HttpClient interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Download(ctx context.Context, url, dest string) error
}

// Checksum computes lowercase-hex SHA-256 digests.
type Checksum interface {
	SumBytes(data []byte) string
	SumFile(path string) (string, error)
}

// Logger is the console reporting surface. Success is distinct from Info
// so terminal styling can highlight completed work.
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Success(format string, args ...interface{})
}
