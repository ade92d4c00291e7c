package handlers

import (
	"net/http"

	"github.com/evohome/evohome-cms/internal/middleware"
	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/internal/services"
	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler handles admin login, session and maintenance endpoints
type AdminHandler struct {
	auth services.AdminAuthServiceInterface
	seed services.SeedServiceInterface
}

func NewAdminHandler(auth services.AdminAuthServiceInterface, seed services.SeedServiceInterface) *AdminHandler {
	return &AdminHandler{auth: auth, seed: seed}
}

func (h *AdminHandler) Login(c *gin.Context) {
	if !h.auth.PasswordLoginEnabled() {
		respondError(c, http.StatusNotFound, "Password login is not configured", nil)
		return
	}

	var req models.AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, _, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errors.ErrUnauthorized) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password", err)
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Session returns the admin session resolved by AdminAuthMiddleware
func (h *AdminHandler) Session(c *gin.Context) {
	session, err := middleware.GetAdminSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "isAdmin": session.Role == "admin", "session": session})
}

// Verify reports whether the bearer token is valid without requiring it
func (h *AdminHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, h.auth.Check(middleware.BearerToken(c)))
}

// Seed loads the bundled fixtures. A partial failure still answers 200; the
// report names the entries that failed.
func (h *AdminHandler) Seed(c *gin.Context) {
	report, err := h.seed.Run(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	created, updated, unchanged := report.Totals()
	logger.Info("Seed run finished",
		zap.Bool("failed", report.Failed()),
		zap.Int("created", created),
		zap.Int("updated", updated),
		zap.Int("unchanged", unchanged))

	c.JSON(http.StatusOK, gin.H{"success": !report.Failed(), "report": report})
}
