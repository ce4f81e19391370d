package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/models"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type dashboardQuotationStore interface {
	Stats(ctx context.Context) (*models.QuotationStats, error)
}

type dashboardSupplierStore interface {
	CountActive(ctx context.Context) (int, error)
}

type dashboardDeliveryStore interface {
	CountPending(ctx context.Context) (int, error)
}

type dashboardPaymentStore interface {
	CountDueWithin(ctx context.Context, days int) (int, error)
}

// DashboardConfig tunes the stats endpoint.
type DashboardConfig struct {
	CacheTTL      time.Duration
	DueWindowDays int
}

// DashboardService composes headline figures for the operations panel.
type DashboardService struct {
	quotations dashboardQuotationStore
	suppliers  dashboardSupplierStore
	deliveries dashboardDeliveryStore
	payments   dashboardPaymentStore
	cache      *CacheService
	logger     *zap.Logger
	cfg        DashboardConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Quotations dashboardQuotationStore
	Suppliers  dashboardSupplierStore
	Deliveries dashboardDeliveryStore
	Payments   dashboardPaymentStore
	Cache      *CacheService
	Logger     *zap.Logger
	Config     DashboardConfig
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.DueWindowDays <= 0 {
		cfg.DueWindowDays = 30
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		quotations: params.Quotations,
		suppliers:  params.Suppliers,
		deliveries: params.Deliveries,
		payments:   params.Payments,
		cache:      params.Cache,
		logger:     logger,
		cfg:        cfg,
	}
}

// Stats returns the dashboard snapshot and whether it came from cache.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, bool, error) {
	const cacheKey = "dashboard:stats"
	if s.cache != nil {
		var cached dto.DashboardStats
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	quotationStats, err := s.quotations.Stats(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate quotation stats")
	}

	stats := &dto.DashboardStats{Quotations: *quotationStats}

	if s.suppliers != nil {
		if count, err := s.suppliers.CountActive(ctx); err != nil {
			s.logger.Warn("active supplier count failed", zap.Error(err))
		} else {
			stats.ActiveSuppliers = count
		}
	}
	if s.deliveries != nil {
		if count, err := s.deliveries.CountPending(ctx); err != nil {
			s.logger.Warn("pending delivery count failed", zap.Error(err))
		} else {
			stats.PendingDeliveries = count
		}
	}
	if s.payments != nil {
		if count, err := s.payments.CountDueWithin(ctx, s.cfg.DueWindowDays); err != nil {
			s.logger.Warn("due installment count failed", zap.Error(err))
		} else {
			stats.InstallmentsDue = count
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, stats, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, false, nil
}
