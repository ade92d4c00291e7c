package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// AdminKeyHeader carries the shared admin key for scripted clients
	AdminKeyHeader = "X-Admin-Key"

	// AdminSessionContextKey stores the authenticated admin session in request context.
	AdminSessionContextKey = "admin_session"
)

var (
	ErrAdminSessionNotFound = errors.New("admin session not found in context")
	ErrInvalidAdminSession  = errors.New("invalid admin session type")
)

// AdminVerifier checks admin credentials
type AdminVerifier interface {
	Verify(token string) (*models.AdminSession, error)
	VerifyKey(key string) (*models.AdminSession, error)
}

// AdminAuthMiddleware accepts either "Authorization: Bearer <token>" or the
// X-Admin-Key header and stores the resulting session in context.
func AdminAuthMiddleware(verifier AdminVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			session *models.AdminSession
			err     error
		)

		switch {
		case c.GetHeader(AdminKeyHeader) != "":
			session, err = verifier.VerifyKey(c.GetHeader(AdminKeyHeader))
		case BearerToken(c) != "":
			session, err = verifier.Verify(BearerToken(c))
		default:
			_ = c.Error(errors.New("missing admin credentials")) //nolint:errcheck
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err != nil {
			logger.Warn("Admin authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			_ = c.Error(err) //nolint:errcheck
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(AdminSessionContextKey, session)
		c.Next()
	}
}

// BearerToken extracts the token from an Authorization: Bearer header
func BearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func GetAdminSession(c *gin.Context) (*models.AdminSession, error) {
	val, exists := c.Get(AdminSessionContextKey)
	if !exists {
		return nil, ErrAdminSessionNotFound
	}

	session, ok := val.(*models.AdminSession)
	if !ok {
		return nil, ErrInvalidAdminSession
	}

	return session, nil
}
