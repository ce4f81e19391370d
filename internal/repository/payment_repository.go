package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hospshop/procurement-api/internal/models"
)

// PaymentRepository persists payments and their installments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateWithInstallments inserts a payment and all installments in one
// transaction.
func (r *PaymentRepository) CreateWithInstallments(ctx context.Context, payment *models.Payment, installments []models.PaymentInstallment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payment tx: %w", err)
	}

	const paymentQuery = `INSERT INTO payments
	(id, request_id, supplier_id, description, total_amount, method, installment_count, created_at)
	VALUES (:id, :request_id, :supplier_id, :description, :total_amount, :method, :installment_count, :created_at)`
	if _, err := tx.NamedExecContext(ctx, paymentQuery, payment); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create payment: %w", err)
	}

	const installmentQuery = `INSERT INTO payment_installments
	(id, payment_id, number, amount, due_date, status)
	VALUES (:id, :payment_id, :number, :amount, :due_date, :status)`
	for i := range installments {
		if installments[i].ID == "" {
			installments[i].ID = uuid.NewString()
		}
		installments[i].PaymentID = payment.ID
		if installments[i].Status == "" {
			installments[i].Status = models.InstallmentStatusPending
		}
		if _, err := tx.NamedExecContext(ctx, installmentQuery, installments[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("create installment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment: %w", err)
	}
	return nil
}

// GetByID fetches a payment by identifier.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	const query = `SELECT id, request_id, supplier_id, description, total_amount, method, installment_count, created_at
	FROM payments WHERE id = $1`
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetInstallments returns the installments of a payment in order.
func (r *PaymentRepository) GetInstallments(ctx context.Context, paymentID string) ([]models.PaymentInstallment, error) {
	const query = `SELECT id, payment_id, number, amount, due_date, status, paid_at, paid_amount, notes
	FROM payment_installments WHERE payment_id = $1 ORDER BY number ASC`
	var installments []models.PaymentInstallment
	if err := r.db.SelectContext(ctx, &installments, query, paymentID); err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	return installments, nil
}

// PayInstallment settles a pending installment. Already-settled
// installments match zero rows and surface sql.ErrNoRows.
func (r *PaymentRepository) PayInstallment(ctx context.Context, id string, amount float64, paidAt time.Time, notes *string) error {
	const query = `UPDATE payment_installments
	SET status = 'paid', paid_at = $2, paid_amount = $3, notes = $4
	WHERE id = $1 AND status = 'pending'`
	result, err := r.db.ExecContext(ctx, query, id, paidAt, amount, notes)
	if err != nil {
		return fmt.Errorf("pay installment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check installment rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListDueWithin returns pending installments due inside the window.
func (r *PaymentRepository) ListDueWithin(ctx context.Context, days int) ([]models.PaymentInstallment, error) {
	const query = `SELECT id, payment_id, number, amount, due_date, status, paid_at, paid_amount, notes
	FROM payment_installments
	WHERE status = 'pending' AND due_date BETWEEN NOW() AND NOW() + ($1 * INTERVAL '1 day')
	ORDER BY due_date ASC`
	var installments []models.PaymentInstallment
	if err := r.db.SelectContext(ctx, &installments, query, days); err != nil {
		return nil, fmt.Errorf("list due installments: %w", err)
	}
	return installments, nil
}

// ListOverdue returns pending installments past their due date.
func (r *PaymentRepository) ListOverdue(ctx context.Context) ([]models.PaymentInstallment, error) {
	const query = `SELECT id, payment_id, number, amount, due_date, status, paid_at, paid_amount, notes
	FROM payment_installments
	WHERE status = 'pending' AND due_date < NOW()
	ORDER BY due_date ASC`
	var installments []models.PaymentInstallment
	if err := r.db.SelectContext(ctx, &installments, query); err != nil {
		return nil, fmt.Errorf("list overdue installments: %w", err)
	}
	return installments, nil
}

// CountDueWithin returns how many pending installments fall due inside
// the window.
func (r *PaymentRepository) CountDueWithin(ctx context.Context, days int) (int, error) {
	const query = `SELECT COUNT(*) FROM payment_installments
	WHERE status = 'pending' AND due_date BETWEEN NOW() AND NOW() + ($1 * INTERVAL '1 day')`
	var count int
	if err := r.db.GetContext(ctx, &count, query, days); err != nil {
		return 0, fmt.Errorf("count due installments: %w", err)
	}
	return count, nil
}
