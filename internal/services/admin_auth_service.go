package services

import (
	"context"
	"strings"
	"time"

	"github.com/evohome/evohome-cms/config"
	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/jwt"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"go.uber.org/zap"
)

const (
	adminSubject = "admin"
	adminRole    = "admin"
	tokenType    = "bearer"

	AuthMethodToken = "token"
	AuthMethodKey   = "key"
)

// AdminAuthService checks admin credentials against configured secrets.
// There is no user store: one admin identity, reachable by password login or shared key.
type AdminAuthService struct {
	email        string
	password     string
	apiKey       string
	tokenManager *jwt.TokenManager
}

// NewAdminAuthService creates a new admin auth service instance
func NewAdminAuthService(cfg config.AdminConfig) *AdminAuthService {
	var tokenManager *jwt.TokenManager
	if cfg.JWTSecret != "" {
		tokenManager = jwt.NewTokenManager(
			cfg.JWTSecret,
			cfg.JWTIssuer,
			time.Duration(cfg.JWTExpireMinutes)*time.Minute,
		)
	}

	return &AdminAuthService{
		email:        strings.TrimSpace(cfg.Email),
		password:     cfg.Password,
		apiKey:       cfg.APIKey,
		tokenManager: tokenManager,
	}
}

// PasswordLoginEnabled reports whether email/password login is configured
func (s *AdminAuthService) PasswordLoginEnabled() bool {
	return s.email != "" && s.password != "" && s.tokenManager != nil
}

// Authenticate exchanges admin credentials for a bearer token. The email match
// is case-insensitive.
func (s *AdminAuthService) Authenticate(ctx context.Context, email, password string) (*models.AdminLoginResponse, *models.AdminSession, error) {
	if !s.PasswordLoginEnabled() {
		metrics.AdminLogins.WithLabelValues("disabled").Inc()
		return nil, nil, errors.ErrUnauthorized
	}

	emailOK := jwt.TimingSafeCompare(strings.ToLower(strings.TrimSpace(email)), strings.ToLower(s.email))
	passwordOK := jwt.TimingSafeCompare(password, s.password)
	if !emailOK || !passwordOK {
		metrics.AdminLogins.WithLabelValues("invalid").Inc()
		logger.Warn("Admin login rejected", zap.String("email", email))
		return nil, nil, errors.ErrUnauthorized
	}

	token, expiresAt, err := s.tokenManager.GenerateToken(adminSubject, s.email, adminRole)
	if err != nil {
		metrics.AdminLogins.WithLabelValues("error").Inc()
		return nil, nil, errors.InternalError("issue admin token: " + err.Error())
	}

	metrics.AdminLogins.WithLabelValues("success").Inc()
	logger.Info("Admin logged in", zap.String("email", s.email))

	session := &models.AdminSession{
		Subject:   adminSubject,
		Email:     s.email,
		Role:      adminRole,
		Method:    AuthMethodToken,
		ExpiresAt: expiresAt.Unix(),
		IssuedAt:  expiresAt.Add(-s.tokenManager.GetExpirationTime()).Unix(),
	}
	return &models.AdminLoginResponse{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt.Unix(),
	}, session, nil
}

// Verify validates a bearer token and returns the admin session it carries
func (s *AdminAuthService) Verify(token string) (*models.AdminSession, error) {
	if s.tokenManager == nil || token == "" {
		return nil, errors.ErrUnauthorized
	}
	claims, err := s.tokenManager.ValidateToken(token)
	if err != nil {
		return nil, errors.ErrUnauthorized
	}
	if claims.Subject != adminSubject || claims.Role != adminRole {
		return nil, errors.ErrUnauthorized
	}

	session := &models.AdminSession{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
		Method:  AuthMethodToken,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Unix()
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Unix()
	}
	return session, nil
}

// VerifyKey checks the shared admin key
func (s *AdminAuthService) VerifyKey(key string) (*models.AdminSession, error) {
	if s.apiKey == "" || key == "" || !jwt.TimingSafeCompare(key, s.apiKey) {
		return nil, errors.ErrUnauthorized
	}
	return &models.AdminSession{Subject: adminSubject, Role: adminRole, Method: AuthMethodKey}, nil
}

// Check reports whether token is valid and grants admin rights
func (s *AdminAuthService) Check(token string) models.Verification {
	session, err := s.Verify(token)
	if err != nil {
		return models.Verification{}
	}
	return models.Verification{Valid: true, IsAdmin: session.Role == adminRole}
}
