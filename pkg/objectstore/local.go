package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"go.uber.org/zap"
)

// LocalStore writes uploads to a directory that the API serves statically
type LocalStore struct {
	dir       string
	publicURL string
}

// NewLocalStore creates the upload directory if needed
func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("uploads directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	if publicURL == "" {
		publicURL = "/static/uploads"
	}

	logger.Info("Local upload storage initialized",
		zap.String("dir", dir),
		zap.String("public_url", publicURL))

	return &LocalStore{dir: dir, publicURL: publicURL}, nil
}

// Driver returns "local"
func (s *LocalStore) Driver() string { return "local" }

// Dir returns the directory uploads are written to
func (s *LocalStore) Dir() string { return s.dir }

// Put writes data to dir/key atomically and returns publicURL/key
func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	start := time.Now()

	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	target := filepath.Join(s.dir, clean)

	err := writeFileAtomic(target, data)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.UploadDuration.WithLabelValues(s.Driver(), "error").Observe(duration)
		logger.LogAPICall(ctx, "local_storage", "put", "error", duration,
			zap.Error(err),
			zap.String("key", key))
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	metrics.UploadDuration.WithLabelValues(s.Driver(), "success").Observe(duration)
	logger.LogAPICall(ctx, "local_storage", "put", "success", duration,
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("size_bytes", len(data)))

	return joinURL(s.publicURL, filepath.ToSlash(clean)), nil
}

func writeFileAtomic(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
