package handlers

import (
	"net/http"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/internal/services"
	"github.com/gin-gonic/gin"
)

// PageHandler serves page-builder pages and the block palette
type PageHandler struct {
	service services.PageServiceInterface
}

func NewPageHandler(service services.PageServiceInterface) *PageHandler {
	return &PageHandler{service: service}
}

func (h *PageHandler) BlockTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"blockTypes": h.service.BlockTypes()})
}

func (h *PageHandler) ListPages(c *gin.Context) {
	pages, err := h.service.ListPages(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

func (h *PageHandler) GetPage(c *gin.Context) {
	page, err := h.service.GetPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SavePage stores the full page document. Send the version you loaded to
// detect concurrent edits; omit it to overwrite.
func (h *PageHandler) SavePage(c *gin.Context) {
	doc, ok := readDocument(c)
	if !ok {
		return
	}
	page, err := h.service.SavePage(c.Request.Context(), c.Param("slug"), doc)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PageHandler) DeletePage(c *gin.Context) {
	if err := h.service.DeletePage(c.Request.Context(), c.Param("slug")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PageHandler) InsertBlock(c *gin.Context) {
	var req models.InsertBlockRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := h.service.InsertBlock(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PageHandler) RemoveBlock(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	page, err := h.service.RemoveBlock(c.Request.Context(), c.Param("slug"), index)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PageHandler) ReorderBlocks(c *gin.Context) {
	var req models.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := h.service.ReorderBlocks(c.Request.Context(), c.Param("slug"), *req.From, *req.To)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
