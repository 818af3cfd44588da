package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage is the object store for uploaded bytes. Paths are forward-slash
// keys relative to the store root.
type Storage interface {
	Save(path string, r io.Reader) error
	Open(path string) (io.ReadCloser, error)
}

// FileStorage keeps objects on the local filesystem under BasePath. Key
// layout matches the object-store convention, so swapping in a bucket-backed
// implementation is a matter of implementing Storage.
type FileStorage struct {
	basePath string
}

func NewFileStorage(basePath string) *FileStorage {
	return &FileStorage{basePath: basePath}
}

func (s *FileStorage) Save(path string, r io.Reader) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create storage file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	return nil
}

func (s *FileStorage) Open(path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// resolve rejects keys that would escape the store root.
func (s *FileStorage) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return filepath.Join(s.basePath, clean), nil
}
