package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/models"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type paymentStore interface {
	CreateWithInstallments(ctx context.Context, payment *models.Payment, installments []models.PaymentInstallment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetInstallments(ctx context.Context, paymentID string) ([]models.PaymentInstallment, error)
	PayInstallment(ctx context.Context, id string, amount float64, paidAt time.Time, notes *string) error
	ListDueWithin(ctx context.Context, days int) ([]models.PaymentInstallment, error)
	ListOverdue(ctx context.Context) ([]models.PaymentInstallment, error)
}

type supplierGetter interface {
	GetByID(ctx context.Context, id string) (*models.Supplier, error)
}

// PaymentDetail is a payment with its installment schedule.
type PaymentDetail struct {
	models.Payment
	Installments []models.PaymentInstallment `json:"installments"`
}

// PaymentService manages supplier payments and installment schedules.
type PaymentService struct {
	payments  paymentStore
	suppliers supplierGetter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(payments paymentStore, suppliers supplierGetter, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{payments: payments, suppliers: suppliers, validator: validate, logger: logger, now: time.Now}
}

// Create registers a payment. Amounts are spread over monthly
// installments; rounding drift lands on the last slice so the sum always
// matches the total.
func (s *PaymentService) Create(ctx context.Context, req dto.CreatePaymentRequest) (*PaymentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	if _, err := s.suppliers.GetByID(ctx, req.SupplierID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "supplier not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supplier")
	}

	count := req.Installments
	if count <= 1 {
		count = 1
	}
	method := models.PaymentMethodInstallment
	if count == 1 {
		method = models.PaymentMethodCash
	}

	payment := &models.Payment{
		RequestID:        optionalString(req.RequestID),
		SupplierID:       req.SupplierID,
		Description:      req.Description,
		TotalAmount:      req.TotalAmount,
		Method:           method,
		InstallmentCount: count,
		CreatedAt:        s.now().UTC(),
	}

	base := round2(req.TotalAmount / float64(count))
	installments := make([]models.PaymentInstallment, 0, count)
	accumulated := 0.0
	for i := 0; i < count; i++ {
		amount := base
		if i == count-1 {
			amount = round2(req.TotalAmount - accumulated)
		}
		accumulated += amount
		installments = append(installments, models.PaymentInstallment{
			Number:  i + 1,
			Amount:  amount,
			DueDate: req.FirstDueDate.AddDate(0, i, 0),
			Status:  models.InstallmentStatusPending,
		})
	}

	if err := s.payments.CreateWithInstallments(ctx, payment, installments); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}

	s.logger.Info("payment registered",
		zap.String("payment_id", payment.ID),
		zap.String("supplier_id", payment.SupplierID),
		zap.Int("installments", count))

	return &PaymentDetail{Payment: *payment, Installments: installments}, nil
}

// Get fetches a payment with its installments.
func (s *PaymentService) Get(ctx context.Context, id string) (*PaymentDetail, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	installments, err := s.payments.GetInstallments(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load installments")
	}
	return &PaymentDetail{Payment: *payment, Installments: installments}, nil
}

// PayInstallment settles one pending installment. Settling an installment
// twice is a conflict, not an idempotent success.
func (s *PaymentService) PayInstallment(ctx context.Context, installmentID string, req dto.PayInstallmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	err := s.payments.PayInstallment(ctx, installmentID, req.Amount, s.now().UTC(), optionalString(req.Notes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "installment not found or already settled")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to settle installment")
	}
	return nil
}

// DueWithin lists pending installments falling due inside the window.
func (s *PaymentService) DueWithin(ctx context.Context, days int) ([]models.PaymentInstallment, error) {
	if days <= 0 {
		days = 30
	}
	installments, err := s.payments.ListDueWithin(ctx, days)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list due installments")
	}
	return installments, nil
}

// Overdue lists pending installments already past due.
func (s *PaymentService) Overdue(ctx context.Context) ([]models.PaymentInstallment, error) {
	installments, err := s.payments.ListOverdue(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list overdue installments")
	}
	return installments, nil
}
