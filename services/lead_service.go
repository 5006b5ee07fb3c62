package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"checkout-service/models"
	aws_pkg "checkout-service/pkg/aws"
	"checkout-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxPageSize = 100

// LeadService captures storefront enquiries and lists them for admins.
type LeadService interface {
	CaptureLead(ctx context.Context, req *models.CreateLeadRequest) (*models.Lead, *ServiceError)
	ListLeads(ctx context.Context, status string, page, limit int) ([]models.Lead, int64, *ServiceError)
	UpdateLeadStatus(ctx context.Context, id uuid.UUID, status string) *ServiceError
}

type leadServiceImpl struct {
	repo        repository.LeadRepository
	snsClient   aws_pkg.SNSPublisher
	snsTopicArn string
	metrics     MetricsRecorder
	logger      *zap.Logger
}

// NewLeadService creates a new LeadService.
func NewLeadService(
	repo repository.LeadRepository,
	snsClient aws_pkg.SNSPublisher,
	snsTopicArn string,
	metrics MetricsRecorder,
	logger *zap.Logger,
) LeadService {
	return &leadServiceImpl{
		repo:        repo,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		metrics:     metrics,
		logger:      logger,
	}
}

// CaptureLead stores the enquiry and announces it on SNS so the
// notification pipeline can e-mail the sales team.
func (s *leadServiceImpl) CaptureLead(ctx context.Context, req *models.CreateLeadRequest) (*models.Lead, *ServiceError) {
	lead := &models.Lead{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Country:   strings.TrimSpace(req.Country),
		ProductID: strings.TrimSpace(req.ProductID),
		Message:   strings.TrimSpace(req.Message),
		Source:    strings.TrimSpace(req.Source),
		Status:    models.LeadStatusNew,
	}
	if lead.Source == "" {
		lead.Source = "storefront"
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		s.logger.Error("Failed to persist lead", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to save enquiry"}
	}

	s.logger.Info("Lead captured",
		zap.String("lead_id", lead.ID.String()),
		zap.String("product_id", lead.ProductID),
		zap.String("source", lead.Source),
	)

	s.publishEvent(ctx, models.LeadCapturedEvent{
		EventType: "lead_captured",
		LeadID:    lead.ID.String(),
		Name:      lead.Name,
		Email:     lead.Email,
		ProductID: lead.ProductID,
		Source:    lead.Source,
		Timestamp: time.Now(),
	})

	if s.metrics != nil {
		go func() {
			_ = s.metrics.RecordCount(context.Background(), aws_pkg.MetricLeadsCaptured, map[string]string{"Source": lead.Source})
		}()
	}

	return lead, nil
}

func (s *leadServiceImpl) ListLeads(ctx context.Context, status string, page, limit int) ([]models.Lead, int64, *ServiceError) {
	if status != "" && status != models.LeadStatusNew && status != models.LeadStatusContacted {
		return nil, 0, badRequest("unknown lead status")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = 20
	}

	leads, total, err := s.repo.FindAll(ctx, status, page, limit)
	if err != nil {
		s.logger.Error("Failed to list leads", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch leads"}
	}
	return leads, total, nil
}

func (s *leadServiceImpl) UpdateLeadStatus(ctx context.Context, id uuid.UUID, status string) *ServiceError {
	if status != models.LeadStatusNew && status != models.LeadStatusContacted {
		return badRequest("unknown lead status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "Lead not found"}
		}
		s.logger.Error("Failed to update lead status", zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update lead"}
	}
	return nil
}

// publishEvent marshals an event and publishes it to SNS (non-fatal on error).
func (s *leadServiceImpl) publishEvent(ctx context.Context, event interface{}) {
	if s.snsClient == nil || s.snsTopicArn == "" {
		s.logger.Warn("SNS not configured, skipping event publish")
		return
	}
	b, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal SNS event", zap.Error(err))
		return
	}
	if err := s.snsClient.Publish(ctx, s.snsTopicArn, b); err != nil {
		s.logger.Error("Failed to publish SNS event", zap.Error(err))
		return
	}
	s.logger.Info("Published SNS event", zap.String("topic", s.snsTopicArn))
}
