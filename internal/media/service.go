package media

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

const keyPrefix = "images"

// ObjectStore is the slice of the object-store client the service needs.
type ObjectStore interface {
	UploadObject(ctx context.Context, key, contentType string, data []byte) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// Service pushes uploaded images to the public image host. Every upload
// gets a fresh key, so posting the same file twice creates two assets.
type Service struct {
	store    ObjectStore
	logger   *logger.Logger
	maxBytes int
}

func NewService(store ObjectStore, logg *logger.Logger, maxUploadMB int) *Service {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &Service{store: store, logger: logg, maxBytes: maxUploadMB << 20}
}

// MaxBytes is the accepted request body limit.
func (s *Service) MaxBytes() int64 {
	return int64(s.maxBytes)
}

// UploadResult describes the stored asset.
type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	SizeBytes   int    `json:"sizeBytes"`
}

// UploadImage sniffs the payload, rejects anything that is not an image,
// and stores it under a fresh UUID key.
func (s *Service) UploadImage(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image payload is empty")
	}
	if len(data) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("image exceeds the %d byte limit", s.maxBytes))
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported content type %s", detected.String()))
	}

	key := buildKey(filename, detected.Extension())
	url, err := s.store.UploadObject(ctx, key, detected.String(), data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading image")
	}

	logCtx := s.logger.WithField(ctx, "key", key)
	logCtx = s.logger.WithField(logCtx, "size_bytes", len(data))
	s.logger.Info(logCtx, "image uploaded")

	return &UploadResult{
		URL:         url,
		Key:         key,
		ContentType: detected.String(),
		SizeBytes:   len(data),
	}, nil
}

// DeleteImage removes a previously uploaded asset. Only keys under the
// image prefix are deletable through this surface.
func (s *Service) DeleteImage(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "object key is required")
	}
	if !strings.HasPrefix(key, keyPrefix+"/") || strings.Contains(key, "..") {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("key %q is not a managed image", key))
	}

	if err := s.store.DeleteObject(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting image")
	}

	s.logger.Info(s.logger.WithField(ctx, "key", key), "image deleted")
	return nil
}

// buildKey derives the object key from a fresh UUID plus the sniffed
// extension. The original filename only contributes a sanitized slug.
func buildKey(filename, extension string) string {
	slug := sanitizeSlug(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	id := uuid.NewString()
	if slug == "" {
		return fmt.Sprintf("%s/%s%s", keyPrefix, id, extension)
	}
	return fmt.Sprintf("%s/%s-%s%s", keyPrefix, slug, id, extension)
}

func sanitizeSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
