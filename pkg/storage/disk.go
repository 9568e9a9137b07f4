package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Store persists an uploaded object and returns its public URL.
type Store interface {
	Save(ctx context.Context, data []byte, ext string) (string, error)
}

// DiskStore writes objects under Dir and serves them from BaseURL.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &DiskStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}

	// rename so readers never see a partial file
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	return s.BaseURL + "/" + name, nil
}

var allowedImages = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// DetectImage sniffs data and reports its MIME type and file extension.
// ok is false for anything outside the image allow-list, whatever the client
// declared.
func DetectImage(data []byte) (mime, ext string, ok bool) {
	m := mimetype.Detect(data)
	for t := m; t != nil; t = t.Parent() {
		if allowedImages[t.String()] {
			return t.String(), t.Extension(), true
		}
	}
	return m.String(), m.Extension(), false
}
