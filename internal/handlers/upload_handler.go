package handlers

import (
	"io"
	"net/http"

	"github.com/evohome/evohome-cms/internal/services"
	"github.com/evohome/evohome-cms/pkg/objectstore"
	"github.com/gin-gonic/gin"
)

const uploadFormField = "file"

type UploadHandler struct {
	service services.UploadServiceInterface
}

func NewUploadHandler(service services.UploadServiceInterface) *UploadHandler {
	return &UploadHandler{service: service}
}

// UploadImage accepts a multipart image in the "file" field
func (h *UploadHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile(uploadFormField)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Missing file field", err)
		return
	}
	if header.Size > objectstore.MaxImageSize {
		respondError(c, http.StatusRequestEntityTooLarge, "File too large (max 10MB)", nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Unreadable file", err)
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(file, objectstore.MaxImageSize+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Unreadable file", err)
		return
	}

	resp, err := h.service.Store(c.Request.Context(), data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
