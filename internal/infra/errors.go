package infra

import "fmt"

// NotFoundError indicates a required file or directory is absent.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

// NetworkError indicates a transport-level failure (connection, timeout,
// non-2xx status). The underlying cause, if any, is available via Unwrap.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed", e.URL)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError indicates malformed input: broken JSON, missing manifest
// fields, or an AGENT.md document that cannot be decoded.
type ParseError struct {
	Source  string
	Message string
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse %s: %s", e.Source, e.Message)
	}
	return e.Message
}

// ValidationError names the spec and field that violated a rule. A single
// document can produce several of these, collected into one multierror.
type ValidationError struct {
	Spec    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Spec, e.Field, e.Message)
}

// ChecksumMismatchError reports a downloaded or installed file whose
// SHA-256 does not match the expected value. Both hashes are shown so the
// user can tell corruption from a stale manifest.
type ChecksumMismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// UnknownPlatformError indicates a platform tag the compiler does not
// recognize. This is a fatal configuration error, never silently ignored.
type UnknownPlatformError struct {
	Name string
}

func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown platform %q (expected claude-code or opencode)", e.Name)
}

// IOError wraps a filesystem failure with the operation and path that
// produced it.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
