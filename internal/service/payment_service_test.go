package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospshop/procurement-api/internal/dto"
	"github.com/hospshop/procurement-api/internal/models"
	appErrors "github.com/hospshop/procurement-api/pkg/errors"
)

type stubPaymentRepo struct {
	payments     map[string]models.Payment
	installments map[string][]models.PaymentInstallment
	payErr       error
	paidID       string
	paidAmount   float64
}

func (m *stubPaymentRepo) CreateWithInstallments(ctx context.Context, payment *models.Payment, installments []models.PaymentInstallment) error {
	if payment.ID == "" {
		payment.ID = "pay-new"
	}
	if m.payments == nil {
		m.payments = make(map[string]models.Payment)
		m.installments = make(map[string][]models.PaymentInstallment)
	}
	m.payments[payment.ID] = *payment
	m.installments[payment.ID] = installments
	return nil
}

func (m *stubPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	if payment, ok := m.payments[id]; ok {
		return &payment, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubPaymentRepo) GetInstallments(ctx context.Context, paymentID string) ([]models.PaymentInstallment, error) {
	return m.installments[paymentID], nil
}

func (m *stubPaymentRepo) PayInstallment(ctx context.Context, id string, amount float64, paidAt time.Time, notes *string) error {
	if m.payErr != nil {
		return m.payErr
	}
	m.paidID = id
	m.paidAmount = amount
	return nil
}

func (m *stubPaymentRepo) ListDueWithin(ctx context.Context, days int) ([]models.PaymentInstallment, error) {
	return nil, nil
}

func (m *stubPaymentRepo) ListOverdue(ctx context.Context) ([]models.PaymentInstallment, error) {
	return nil, nil
}

func paymentFixture() (*stubPaymentRepo, *stubSupplierReader) {
	return &stubPaymentRepo{}, &stubSupplierReader{
		suppliers: map[string]models.Supplier{
			"sup-1": {ID: "sup-1", Name: "MedSupply LTDA", Active: true},
		},
	}
}

func TestPaymentServiceCreateSpreadsInstallments(t *testing.T) {
	payments, suppliers := paymentFixture()
	svc := NewPaymentService(payments, suppliers, nil, nil)
	firstDue := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)

	detail, err := svc.Create(context.Background(), dto.CreatePaymentRequest{
		SupplierID:   "sup-1",
		Description:  "monitores lote 1",
		TotalAmount:  100,
		Installments: 3,
		FirstDueDate: firstDue,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentMethodInstallment, detail.Method)
	require.Len(t, detail.Installments, 3)
	// 100/3 rounds to 33.33; the last slice absorbs the remainder.
	assert.InDelta(t, 33.33, detail.Installments[0].Amount, 0.001)
	assert.InDelta(t, 33.33, detail.Installments[1].Amount, 0.001)
	assert.InDelta(t, 33.34, detail.Installments[2].Amount, 0.001)

	sum := 0.0
	for _, inst := range detail.Installments {
		sum += inst.Amount
	}
	assert.InDelta(t, 100, sum, 0.001)

	assert.Equal(t, firstDue, detail.Installments[0].DueDate)
	assert.Equal(t, firstDue.AddDate(0, 1, 0), detail.Installments[1].DueDate)
	assert.Equal(t, firstDue.AddDate(0, 2, 0), detail.Installments[2].DueDate)
	assert.Equal(t, models.InstallmentStatusPending, detail.Installments[0].Status)
}

func TestPaymentServiceCreateCashWhenSingleInstallment(t *testing.T) {
	payments, suppliers := paymentFixture()
	svc := NewPaymentService(payments, suppliers, nil, nil)

	detail, err := svc.Create(context.Background(), dto.CreatePaymentRequest{
		SupplierID:   "sup-1",
		Description:  "pagamento à vista",
		TotalAmount:  5400.5,
		FirstDueDate: time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentMethodCash, detail.Method)
	require.Len(t, detail.Installments, 1)
	assert.InDelta(t, 5400.5, detail.Installments[0].Amount, 0.001)
}

func TestPaymentServiceCreateUnknownSupplier(t *testing.T) {
	payments, suppliers := paymentFixture()
	svc := NewPaymentService(payments, suppliers, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreatePaymentRequest{
		SupplierID:   "sup-missing",
		Description:  "fornecedor inexistente",
		TotalAmount:  100,
		FirstDueDate: time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestPaymentServiceCreateRejectsNonPositiveAmount(t *testing.T) {
	payments, suppliers := paymentFixture()
	svc := NewPaymentService(payments, suppliers, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreatePaymentRequest{
		SupplierID:   "sup-1",
		Description:  "valor inválido",
		TotalAmount:  0,
		FirstDueDate: time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestPaymentServicePayInstallmentAlreadySettled(t *testing.T) {
	payments, suppliers := paymentFixture()
	payments.payErr = sql.ErrNoRows
	svc := NewPaymentService(payments, suppliers, nil, nil)

	err := svc.PayInstallment(context.Background(), "inst-1", dto.PayInstallmentRequest{Amount: 33.33})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestPaymentServicePayInstallment(t *testing.T) {
	payments, suppliers := paymentFixture()
	svc := NewPaymentService(payments, suppliers, nil, nil)

	err := svc.PayInstallment(context.Background(), "inst-1", dto.PayInstallmentRequest{Amount: 33.33})
	require.NoError(t, err)
	assert.Equal(t, "inst-1", payments.paidID)
	assert.InDelta(t, 33.33, payments.paidAmount, 0.001)
}
