// Package pictures stores profile pictures on local disk. Uploads arrive
// base64-encoded; retrieval streams the stored file back by filename and
// needs no session.
package pictures

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperr "github.com/codespark/backend/internal/errors"
)

// maxDecodedBytes caps a decoded upload at 5 MiB.
const maxDecodedBytes = 5 << 20

// extensions for the image formats accepted by Save, keyed by sniffed
// content type.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Service struct {
	rootDir string
}

func NewService(rootDir string) (*Service, error) {
	if strings.TrimSpace(rootDir) == "" {
		return nil, fmt.Errorf("pictures root directory is required")
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating pictures directory: %w", err)
	}
	return &Service{rootDir: rootDir}, nil
}

// Save decodes a base64 payload and persists it under a fresh filename,
// which becomes the user's profile_picture reference.
func (s *Service) Save(payload string) (string, error) {
	// tolerate data-URL prefixes from browser uploads
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", apperr.InvalidOperation("picture payload is not valid base64")
	}
	if len(data) == 0 {
		return "", apperr.InvalidOperation("picture payload is empty")
	}
	if len(data) > maxDecodedBytes {
		return "", apperr.InvalidOperation("picture payload too large")
	}

	ext, ok := imageExtensions[http.DetectContentType(data)]
	if !ok {
		return "", apperr.InvalidOperation("picture payload is not an image")
	}

	filename := uuid.NewString() + ext
	path := filepath.Join(s.rootDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing picture: %w", err)
	}
	return filename, nil
}

// Open returns a reader over the stored picture. Filenames are engine-issued
// uuids; anything resolving outside the root is rejected.
func (s *Service) Open(filename string) (io.ReadCloser, error) {
	clean := filepath.Base(filename)
	if clean != filename || clean == "." || clean == string(filepath.Separator) {
		return nil, apperr.InvalidOperation("invalid picture name")
	}

	f, err := os.Open(filepath.Join(s.rootDir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.NotFound("picture " + filename)
		}
		return nil, err
	}
	return f, nil
}
