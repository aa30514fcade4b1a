package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore persists artifacts as plain files under a base directory.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a local artifact store rooted at basePath,
// creating the directory if needed.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if basePath == "" {
		return nil, fmt.Errorf("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create base dir: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

// BasePath returns the directory artifacts are stored under.
func (s *LocalStore) BasePath() string {
	return s.basePath
}

func (s *LocalStore) resolve(name string) (string, error) {
	cleaned := filepath.Clean(name)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: invalid artifact name %q", name)
	}
	return filepath.Join(s.basePath, cleaned), nil
}

func (s *LocalStore) Put(ctx context.Context, name string, r io.Reader) (*ArtifactInfo, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}

	// Write to a temp file then rename so readers never see a partial
	// artifact.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".artifact-*")
	if err != nil {
		return nil, fmt.Errorf("storage: create temp: %w", err)
	}
	size, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("storage: write artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("storage: finalize artifact: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("storage: stat artifact: %w", err)
	}
	return &ArtifactInfo{
		Name:      name,
		Size:      size,
		Path:      path,
		UpdatedAt: st.ModTime(),
	}, nil
}

func (s *LocalStore) Get(ctx context.Context, name string) (io.ReadCloser, *ArtifactInfo, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, nil, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: artifact %q: %w", name, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: open artifact: %w", err)
	}
	return f, &ArtifactInfo{
		Name:      name,
		Size:      st.Size(),
		Path:      path,
		UpdatedAt: st.ModTime(),
	}, nil
}

func (s *LocalStore) Exists(ctx context.Context, name string) (bool, error) {
	path, err := s.resolve(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: stat artifact: %w", err)
	}
	return true, nil
}

func (s *LocalStore) List(ctx context.Context, pattern string) ([]*ArtifactInfo, error) {
	if pattern == "" {
		pattern = "*"
	}
	matches, err := filepath.Glob(filepath.Join(s.basePath, pattern))
	if err != nil {
		return nil, fmt.Errorf("storage: bad pattern %q: %w", pattern, err)
	}

	infos := make([]*ArtifactInfo, 0, len(matches))
	for _, path := range matches {
		st, err := os.Stat(path)
		if err != nil || st.IsDir() {
			continue
		}
		rel, err := filepath.Rel(s.basePath, path)
		if err != nil {
			continue
		}
		infos = append(infos, &ArtifactInfo{
			Name:      rel,
			Size:      st.Size(),
			Path:      path,
			UpdatedAt: st.ModTime(),
		})
	}
	return infos, nil
}

func (s *LocalStore) Delete(ctx context.Context, name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete artifact: %w", err)
	}
	return nil
}
