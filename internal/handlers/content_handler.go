package handlers

import (
	"net/http"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/internal/services"
	"github.com/gin-gonic/gin"
)

// ContentHandler serves singleton content slots
type ContentHandler struct {
	service services.ContentServiceInterface
}

func NewContentHandler(service services.ContentServiceInterface) *ContentHandler {
	return &ContentHandler{service: service}
}

func (h *ContentHandler) ListSlots(c *gin.Context) {
	resp, err := h.service.ListSlots(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContentHandler) GetSlot(c *gin.Context) {
	resp, err := h.service.GetSlot(c.Request.Context(), c.Param("slot"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PutSlot replaces the whole slot with the request body
func (h *ContentHandler) PutSlot(c *gin.Context) {
	doc, ok := readDocument(c)
	if !ok {
		return
	}
	resp, err := h.service.PutSlot(c.Request.Context(), c.Param("slot"), doc)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetSlotField sets a single nested field: {"path": "hero.title", "value": ...}
func (h *ContentHandler) SetSlotField(c *gin.Context) {
	var req models.SetSlotFieldRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.SetSlotField(c.Request.Context(), c.Param("slot"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContentHandler) MergeSlot(c *gin.Context) {
	doc, ok := readDocument(c)
	if !ok {
		return
	}
	resp, err := h.service.MergeSlot(c.Request.Context(), c.Param("slot"), doc)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
