package handlers

import (
	"net/http"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/internal/services"
	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	service services.LeadServiceInterface
}

func NewLeadHandler(service services.LeadServiceInterface) *LeadHandler {
	return &LeadHandler{service: service}
}

// SubmitLead accepts the public contact form
func (h *LeadHandler) SubmitLead(c *gin.Context) {
	var req models.CreateLeadRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.SubmitLead(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListLeads returns leads newest first; ?page=1&pageSize=20
func (h *LeadHandler) ListLeads(c *gin.Context) {
	resp, err := h.service.ListLeads(c.Request.Context(),
		intQuery(c, "page", 1),
		intQuery(c, "pageSize", models.DefaultLeadPageSize))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
