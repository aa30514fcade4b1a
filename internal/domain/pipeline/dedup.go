package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
)

// ChecksumIndex tracks file content hashes across runs so a statement
// is only ever imported once. Implementations must be safe for
// concurrent workers.
type ChecksumIndex interface {
	// Seen reports whether the checksum was imported before.
	Seen(ctx context.Context, checksum string) (bool, error)

	// Add records a checksum with the file name it came from.
	Add(ctx context.Context, checksum, fileName string) error
}

// HashFile computes the SHA-256 of a file's bytes. The hash is taken
// before OCR so dedup is independent of OCR nondeterminism.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MemoryChecksumIndex is an in-memory index for single-run use.
type MemoryChecksumIndex struct {
	mu   sync.Mutex
	seen map[string]string
}

// NewMemoryChecksumIndex returns an empty index.
func NewMemoryChecksumIndex() *MemoryChecksumIndex {
	return &MemoryChecksumIndex{seen: make(map[string]string)}
}

func (m *MemoryChecksumIndex) Seen(ctx context.Context, checksum string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[checksum]
	return ok, nil
}

func (m *MemoryChecksumIndex) Add(ctx context.Context, checksum, fileName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[checksum] = fileName
	return nil
}

// Len reports how many checksums the index holds.
func (m *MemoryChecksumIndex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}
