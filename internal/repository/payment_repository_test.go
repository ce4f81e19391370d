package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/hospshop/procurement-api/internal/models"
)

func newPaymentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPaymentRepositoryCreateWithInstallments(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payment_installments")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payment_installments")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	payment := &models.Payment{
		SupplierID:       "sup-1",
		Description:      "fornecimento de monitores",
		TotalAmount:      73500,
		Method:           models.PaymentMethodInstallment,
		InstallmentCount: 2,
	}
	installments := []models.PaymentInstallment{
		{Number: 1, Amount: 36750, DueDate: time.Now().AddDate(0, 1, 0)},
		{Number: 2, Amount: 36750, DueDate: time.Now().AddDate(0, 2, 0)},
	}

	err := repo.CreateWithInstallments(context.Background(), payment, installments)
	require.NoError(t, err)
	require.NotEmpty(t, payment.ID)
	require.Equal(t, payment.ID, installments[0].PaymentID)
	require.Equal(t, models.InstallmentStatusPending, installments[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryPayInstallmentAlreadySettled(t *testing.T) {
	db, mock, cleanup := newPaymentRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = 'pending'")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.PayInstallment(context.Background(), "inst-1", 36750, time.Now(), nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
