package services

import (
	"context"
	"strings"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/internal/notify"
	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"go.uber.org/zap"
)

// LeadService stores contact form submissions and notifies the site owner
type LeadService struct {
	repo       repository.ContentRepositoryInterface
	dispatcher *notify.Dispatcher
}

// NewLeadService creates a new lead service instance
func NewLeadService(repo repository.ContentRepositoryInterface, dispatcher *notify.Dispatcher) *LeadService {
	if dispatcher == nil {
		dispatcher = notify.NewDispatcher()
	}
	return &LeadService{repo: repo, dispatcher: dispatcher}
}

// SubmitLead stores the lead, then notifies in the background. A notification
// failure never fails the submission.
func (s *LeadService) SubmitLead(ctx context.Context, req *models.CreateLeadRequest) (*models.CreateLeadResponse, error) {
	lead := models.Lead{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
		Source:  strings.TrimSpace(req.Source),
	}
	if lead.Name == "" {
		metrics.LeadSubmissions.WithLabelValues("invalid").Inc()
		return nil, errors.InvalidInputError("name", "name is required")
	}
	if lead.Email == "" {
		metrics.LeadSubmissions.WithLabelValues("invalid").Inc()
		return nil, errors.InvalidInputError("email", "email is required")
	}

	stored, err := s.repo.CreateLead(ctx, lead)
	if err != nil {
		metrics.LeadSubmissions.WithLabelValues("error").Inc()
		logger.Error("Failed to store lead", zap.Error(err))
		return nil, err
	}
	metrics.LeadSubmissions.WithLabelValues("success").Inc()
	logger.Info("Lead stored",
		zap.String("lead_id", stored.ID),
		zap.String("source", stored.Source),
		zap.Strings("notify_channels", s.dispatcher.Channels()))

	s.dispatcher.DispatchAsync(stored)

	return &models.CreateLeadResponse{Success: true, ID: stored.ID}, nil
}

// ListLeads returns one page of leads, newest first
func (s *LeadService) ListLeads(ctx context.Context, page, pageSize int) (*models.LeadListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = models.DefaultLeadPageSize
	}
	if pageSize > models.MaxLeadPageSize {
		pageSize = models.MaxLeadPageSize
	}

	leads, total, err := s.repo.ListLeads(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &models.LeadListResponse{Items: leads, Total: total, Page: page, PageSize: pageSize}, nil
}
