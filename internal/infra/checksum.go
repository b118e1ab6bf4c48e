package infra

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// SHA256 computes lowercase-hex SHA-256 digests, streaming for files so
// large content never needs to sit in memory.
type SHA256 struct{}

// NewSHA256 returns the production Checksum implementation.
func NewSHA256() *SHA256 {
	return &SHA256{}
}

func (s *SHA256) SumBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *SHA256) SumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Path: path}
		}
		return "", &IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", &IOError{Op: "read", Path: path, Err: err}
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
