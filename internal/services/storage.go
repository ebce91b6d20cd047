package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService keeps the original uploaded PDFs. Keys are opaque to callers.
type StorageService interface {
	Save(ctx context.Context, originalName string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	EnsureReady(ctx context.Context) error
}

type localStorage struct {
	uploadPath string
}

func NewLocalStorage(uploadPath string) StorageService {
	return &localStorage{
		uploadPath: uploadPath,
	}
}

func (s *localStorage) EnsureReady(_ context.Context) error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *localStorage) Save(_ context.Context, originalName string, data []byte) (string, error) {
	key := newObjectKey(originalName)
	filePath := filepath.Join(s.uploadPath, key)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return key, nil
}

func (s *localStorage) Delete(_ context.Context, key string) error {
	if key == "" || key != filepath.Base(key) {
		return fmt.Errorf("invalid storage key: %q", key)
	}

	if err := os.Remove(filepath.Join(s.uploadPath, key)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func newObjectKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("resume_%s%s", uuid.New().String(), ext)
}
