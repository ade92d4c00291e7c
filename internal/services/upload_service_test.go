package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/evohome/evohome-cms/internal/services"
	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/objectstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestUploadService_Store(t *testing.T) {
	store := new(MockObjectStore)
	service := services.NewUploadService(store)
	ctx := context.Background()

	store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
		year := time.Now().UTC().Format("2006")
		return bytes.HasPrefix([]byte(key), []byte(year+"/")) &&
			bytes.Contains([]byte(key), []byte("/heat-pump-")) &&
			bytes.HasSuffix([]byte(key), []byte(".png"))
	}), pngHeader, "image/png").Return("/static/uploads/x.png", nil).Once()

	resp, err := service.Store(ctx, pngHeader, `C:\photos\Heat Pump.PNG`, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/static/uploads/x.png", resp.URL)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.Equal(t, len(pngHeader), resp.Size)
	store.AssertExpectations(t)
}

func TestUploadService_SniffsMissingType(t *testing.T) {
	store := new(MockObjectStore)
	service := services.NewUploadService(store)
	ctx := context.Background()

	store.On("Put", ctx, mock.Anything, pngHeader, "image/png").Return("/u/x.png", nil).Once()

	resp, err := service.Store(ctx, pngHeader, "", "")
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.ContentType)
}

func TestUploadService_Rejects(t *testing.T) {
	store := new(MockObjectStore)
	service := services.NewUploadService(store)
	ctx := context.Background()

	_, err := service.Store(ctx, []byte("plain text"), "a.txt", "text/plain")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = service.Store(ctx, pngHeader, "a.jpg", "image/jpeg")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = service.Store(ctx, []byte{}, "a.png", "image/png")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	big := make([]byte, objectstore.MaxImageSize+1)
	copy(big, pngHeader)
	_, err = service.Store(ctx, big, "a.png", "image/png")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_StoreFailure(t *testing.T) {
	store := new(MockObjectStore)
	service := services.NewUploadService(store)
	ctx := context.Background()

	store.On("Put", ctx, mock.Anything, pngHeader, "image/png").Return("", assert.AnError).Once()

	_, err := service.Store(ctx, pngHeader, "a.png", "image/png")
	assert.ErrorIs(t, err, errors.ErrStorageUnavailable)
}
