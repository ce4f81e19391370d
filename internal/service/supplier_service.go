package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/models"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type supplierStore interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id string) (*models.Supplier, error)
	List(ctx context.Context, filter models.SupplierFilter) ([]models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
}

// SupplierService manages the supplier directory.
type SupplierService struct {
	repo      supplierStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSupplierService constructs a SupplierService.
func NewSupplierService(repo supplierStore, validate *validator.Validate, logger *zap.Logger) *SupplierService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{repo: repo, validator: validate, logger: logger}
}

// Create registers a supplier.
func (s *SupplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*models.Supplier, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid supplier payload")
	}

	supplier := &models.Supplier{
		Name:     req.Name,
		CNPJ:     req.CNPJ,
		Email:    req.Email,
		Phone:    optionalString(req.Phone),
		WhatsApp: optionalString(req.WhatsApp),
		City:     optionalString(req.City),
		State:    optionalString(req.State),
		Category: optionalString(req.Category),
		Active:   true,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create supplier")
	}

	s.logger.Info("supplier registered", zap.String("supplier_id", supplier.ID), zap.String("cnpj", supplier.CNPJ))
	return supplier, nil
}

// Get fetches a supplier.
func (s *SupplierService) Get(ctx context.Context, id string) (*models.Supplier, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "supplier not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supplier")
	}
	return supplier, nil
}

// List returns suppliers matching the filter.
func (s *SupplierService) List(ctx context.Context, filter models.SupplierFilter) ([]models.Supplier, error) {
	suppliers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list suppliers")
	}
	return suppliers, nil
}

// Update edits the mutable fields of a supplier.
func (s *SupplierService) Update(ctx context.Context, id string, req dto.UpdateSupplierRequest) (*models.Supplier, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid supplier payload")
	}

	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "supplier not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supplier")
	}

	supplier.Name = req.Name
	supplier.Email = req.Email
	supplier.Phone = optionalString(req.Phone)
	supplier.WhatsApp = optionalString(req.WhatsApp)
	supplier.City = optionalString(req.City)
	supplier.State = optionalString(req.State)
	supplier.Category = optionalString(req.Category)
	if req.Active != nil {
		supplier.Active = *req.Active
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update supplier")
	}
	return supplier, nil
}
