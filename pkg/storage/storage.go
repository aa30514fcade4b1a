// Package storage provides the artifact store used for cached OCR text
// and generated exports. Only a local filesystem backend exists today;
// the interface keeps the pipeline decoupled from where artifacts live.
package storage

import (
	"context"
	"io"
	"time"
)

// ArtifactInfo contains metadata about a stored artifact.
type ArtifactInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Path      string    `json:"path"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines artifact persistence. Put overwrites an existing
// artifact of the same name so re-running an import is idempotent.
type Store interface {
	// Put stores an artifact under name, replacing any previous content.
	Put(ctx context.Context, name string, r io.Reader) (*ArtifactInfo, error)

	// Get opens an artifact for reading.
	Get(ctx context.Context, name string) (io.ReadCloser, *ArtifactInfo, error)

	// Exists reports whether an artifact is present.
	Exists(ctx context.Context, name string) (bool, error)

	// List returns metadata for artifacts whose names match the glob
	// pattern. An empty pattern lists everything.
	List(ctx context.Context, pattern string) ([]*ArtifactInfo, error)

	// Delete removes an artifact. Deleting a missing artifact is not
	// an error.
	Delete(ctx context.Context, name string) error
}
