package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StorageService archives accepted resume uploads on local disk. A service
// built with an empty upload path is disabled and stores nothing.
type StorageService interface {
	Enabled() bool
	EnsureUploadDir() error
	SaveBytes(data []byte) (string, error)
	DeleteFile(path string) error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) Enabled() bool {
	return s.uploadPath != ""
}

func (s *storageService) EnsureUploadDir() error {
	if !s.Enabled() {
		return nil
	}

	if err := os.MkdirAll(s.uploadPath, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveBytes writes data under a generated name and returns the full path.
// It returns an empty path when storage is disabled.
func (s *storageService) SaveBytes(data []byte) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	filePath := filepath.Join(s.uploadPath, fmt.Sprintf("resume_%s.pdf", uuid.NewString()))

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *storageService) DeleteFile(path string) error {
	if path == "" {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
