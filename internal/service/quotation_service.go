package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/models"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type quotationStore interface {
	CreateWithItems(ctx context.Context, request *models.QuotationRequest, items []models.RequestItem) error
	GetByID(ctx context.Context, id string) (*models.QuotationRequest, error)
	GetItems(ctx context.Context, requestID string) ([]models.RequestItem, error)
	List(ctx context.Context, filter models.QuotationFilter) ([]models.QuotationRequest, error)
	Stats(ctx context.Context) (*models.QuotationStats, error)
}

// QuotationConfig tunes RFQ defaults.
type QuotationConfig struct {
	DefaultResponseDays int
}

// quotationAnnouncer is told about freshly opened requests; failures stay
// inside the announcer.
type quotationAnnouncer interface {
	QuotationOpened(ctx context.Context, request *models.QuotationRequest, items []models.RequestItem)
}

// QuotationService manages the quotation request lifecycle.
type QuotationService struct {
	repo      quotationStore
	announcer quotationAnnouncer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	cfg       QuotationConfig
}

// NewQuotationService constructs a QuotationService.
func NewQuotationService(repo quotationStore, announcer quotationAnnouncer, validate *validator.Validate, logger *zap.Logger, cfg QuotationConfig) *QuotationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultResponseDays <= 0 {
		cfg.DefaultResponseDays = 7
	}
	return &QuotationService{repo: repo, announcer: announcer, validator: validate, logger: logger, now: time.Now, cfg: cfg}
}

// Create opens a new quotation request with its items.
func (s *QuotationService) Create(ctx context.Context, req dto.CreateQuotationRequest) (*dto.QuotationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid quotation payload")
	}

	now := s.now().UTC()
	responseDays := req.ResponseDays
	if responseDays <= 0 {
		responseDays = s.cfg.DefaultResponseDays
	}

	request := &models.QuotationRequest{
		Number:           "SOL-" + now.Format("20060102150405"),
		TenderReference:  req.TenderReference,
		Description:      req.Description,
		Status:           models.QuotationStatusOpen,
		ResponseDeadline: now.AddDate(0, 0, responseDays),
		Notes:            optionalString(req.Notes),
		CreatedAt:        now,
	}

	items := make([]models.RequestItem, 0, len(req.Items))
	for _, input := range req.Items {
		items = append(items, models.RequestItem{
			Code:           input.Code,
			Description:    input.Description,
			Quantity:       input.Quantity,
			Unit:           input.Unit,
			Specifications: optionalString(input.Specifications),
		})
	}

	if err := s.repo.CreateWithItems(ctx, request, items); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create quotation request")
	}

	s.logger.Info("quotation request created",
		zap.String("request_id", request.ID),
		zap.String("number", request.Number),
		zap.Int("items", len(items)))

	if s.announcer != nil {
		s.announcer.QuotationOpened(ctx, request, items)
	}

	return &dto.QuotationResponse{QuotationRequest: *request, Items: items}, nil
}

// Get fetches a request with its items.
func (s *QuotationService) Get(ctx context.Context, id string) (*dto.QuotationResponse, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "request id is required")
	}

	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quotation request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quotation request")
	}

	items, err := s.repo.GetItems(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request items")
	}

	return &dto.QuotationResponse{QuotationRequest: *request, Items: items}, nil
}

// List returns requests matching the query.
func (s *QuotationService) List(ctx context.Context, query dto.QuotationQuery) ([]models.QuotationRequest, error) {
	filter := models.QuotationFilter{
		TenderReference: query.TenderReference,
		Limit:           query.Limit,
		Offset:          query.Offset,
	}
	switch query.Status {
	case "":
	case string(models.QuotationStatusOpen), string(models.QuotationStatusClosed):
		filter.Status = models.QuotationStatus(query.Status)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", query.Status))
	}

	requests, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list quotation requests")
	}
	return requests, nil
}

// Stats aggregates system-wide quotation figures.
func (s *QuotationService) Stats(ctx context.Context) (*models.QuotationStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate quotation stats")
	}
	return stats, nil
}

func optionalString(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}
