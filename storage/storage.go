// Package storage persists uploaded document files on the local
// filesystem under one base directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type FileStore struct {
	basePath string
}

func NewFileStore(basePath string) (*FileStore, error) {
	if basePath == "" {
		basePath = filepath.Join("data", "uploads")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", basePath, err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Save writes content under a generated name and returns the stored path.
// The original file name only contributes its extension, so uploads can
// never collide or escape the base directory.
func (s *FileStore) Save(originalName string, content []byte) (string, error) {
	name := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(s.basePath, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("save file %s: %w", name, err)
	}
	return path, nil
}

// Load reads a stored file back.
func (s *FileStore) Load(storedPath string) ([]byte, error) {
	return os.ReadFile(storedPath)
}

// Remove deletes a stored file, ignoring files already gone.
func (s *FileStore) Remove(storedPath string) error {
	err := os.Remove(storedPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
