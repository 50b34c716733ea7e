package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const PropertyImageDir = "property_images"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var errUnsupportedImage = errors.New("unsupported image type")

// ImageStore writes uploaded images below Root. Stored paths are relative to
// Root with forward slashes, e.g. "property_images/<uuid>.jpg".
type ImageStore struct {
	Root string
}

func NewImageStore(root string) *ImageStore {
	if strings.TrimSpace(root) == "" {
		root = "uploads"
	}
	return &ImageStore{Root: root}
}

// SaveBase64 decodes a base64 payload (optionally a data URL) and stores it
// under subdir.
func (s *ImageStore) SaveBase64(b64 string, subdir string) (string, error) {
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+7:]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	ext, ok := imageExtensions[http.DetectContentType(data)]
	if !ok {
		return "", errUnsupportedImage
	}

	dir := filepath.Join(s.Root, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	filename := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(subdir, filename)), nil
}

// Remove deletes a stored image. Missing files are not an error.
func (s *ImageStore) Remove(rel string) error {
	if rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
