// Package objectstore persists uploaded images and returns the URL they are served from.
package objectstore

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// MaxImageSize is the largest accepted upload (10MB)
const MaxImageSize = 10 * 1024 * 1024

// Store writes an object under key and returns its public URL
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Driver() string
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// NormalizeContentType lowercases the type, drops parameters and maps image/jpg to image/jpeg
func NormalizeContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" {
		ct = "image/jpeg"
	}
	return ct
}

// ValidateImageType accepts jpeg, png, webp and gif
func ValidateImageType(contentType string) error {
	if _, ok := imageExtensions[NormalizeContentType(contentType)]; !ok {
		return fmt.Errorf("invalid file type: %s. Allowed types: jpeg, png, webp, gif", contentType)
	}
	return nil
}

// ValidateImageSize rejects empty payloads and anything over MaxImageSize
func ValidateImageSize(size int) error {
	if size == 0 {
		return fmt.Errorf("file is empty")
	}
	if size > MaxImageSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes)", size, MaxImageSize)
	}
	return nil
}

// SniffImageType detects the content type from the payload itself
func SniffImageType(data []byte) string {
	return NormalizeContentType(http.DetectContentType(data))
}

// ExtensionFor returns the file extension used for a content type
func ExtensionFor(contentType string) string {
	return imageExtensions[NormalizeContentType(contentType)]
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
