package handlers

import (
	"net/http"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/internal/services"
	"github.com/gin-gonic/gin"
)

// CollectionHandler serves ordered record collections (services, blogs, gallery)
type CollectionHandler struct {
	service services.RecordServiceInterface
}

func NewCollectionHandler(service services.RecordServiceInterface) *CollectionHandler {
	return &CollectionHandler{service: service}
}

func (h *CollectionHandler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), c.Param("collection"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CollectionHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("collection"), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Upsert inserts a record or replaces the one with the same key
func (h *CollectionHandler) Upsert(c *gin.Context) {
	doc, ok := readDocument(c)
	if !ok {
		return
	}
	resp, err := h.service.Upsert(c.Request.Context(), c.Param("collection"), doc)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := http.StatusOK
	if resp.Outcome == models.OutcomeCreated {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *CollectionHandler) Replace(c *gin.Context) {
	doc, ok := readDocument(c)
	if !ok {
		return
	}
	resp, err := h.service.Replace(c.Request.Context(), c.Param("collection"), c.Param("id"), doc)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CollectionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("collection"), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CollectionHandler) Reorder(c *gin.Context) {
	var req models.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Reorder(c.Request.Context(), c.Param("collection"), *req.From, *req.To)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
