package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"github.com/evohome/evohome-cms/pkg/objectstore"
	"github.com/evohome/evohome-cms/pkg/slug"
	"go.uber.org/zap"
)

// UploadService validates images and hands them to the configured object store
type UploadService struct {
	store objectstore.Store
	now   func() time.Time
}

// NewUploadService creates a new upload service instance
func NewUploadService(store objectstore.Store) *UploadService {
	return &UploadService{store: store, now: time.Now}
}

// Store saves an image and returns the URL it is served from. The declared
// content type must agree with the bytes.
func (s *UploadService) Store(ctx context.Context, data []byte, filename, contentType string) (*models.UploadResponse, error) {
	if contentType == "" {
		contentType = objectstore.SniffImageType(data)
	}
	contentType = objectstore.NormalizeContentType(contentType)

	if err := objectstore.ValidateImageType(contentType); err != nil {
		metrics.ImageUploads.WithLabelValues("invalid").Inc()
		return nil, errors.InvalidInputError("file", err.Error())
	}
	if err := objectstore.ValidateImageSize(len(data)); err != nil {
		metrics.ImageUploads.WithLabelValues("invalid").Inc()
		return nil, errors.InvalidInputError("file", err.Error())
	}
	if sniffed := objectstore.SniffImageType(data); sniffed != contentType {
		metrics.ImageUploads.WithLabelValues("invalid").Inc()
		return nil, errors.InvalidInputError("file", fmt.Sprintf("content looks like %s, not %s", sniffed, contentType))
	}

	key, err := s.objectKey(filename, contentType)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("error").Inc()
		return nil, errors.InternalError("generate upload key: " + err.Error())
	}

	url, err := s.store.Put(ctx, key, data, contentType)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("error").Inc()
		logger.Error("Failed to store upload", zap.String("key", key), zap.Error(err))
		return nil, errors.StorageError("store upload", err)
	}

	metrics.ImageUploads.WithLabelValues("success").Inc()
	logger.Info("Image uploaded",
		zap.String("driver", s.store.Driver()),
		zap.String("key", key),
		zap.Int("size_bytes", len(data)))

	return &models.UploadResponse{URL: url, Key: key, ContentType: contentType, Size: len(data)}, nil
}

// objectKey builds yyyy/mm/<name>-<random><ext> from the original file name
func (s *UploadService) objectKey(filename, contentType string) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(filename, "\\", "/")), path.Ext(filename))
	name := slug.Make(base)
	if len(name) > 60 {
		name = strings.Trim(name[:60], "-")
	}
	if name != "" {
		token = name + "-" + token
	}

	now := s.now().UTC()
	return fmt.Sprintf("%04d/%02d/%s%s", now.Year(), int(now.Month()), token, objectstore.ExtensionFor(contentType)), nil
}
