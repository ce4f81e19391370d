package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/hospshop/procurement-api/internal/models"
)

func newAwardRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAwardRepositoryCreateAward(t *testing.T) {
	db, mock, cleanup := newAwardRepoMock(t)
	defer cleanup()
	repo := NewAwardRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE quotation_requests SET status = 'closed' WHERE id = $1 AND status = 'open'")).
		WithArgs("req-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE supplier_proposals SET status = 'winning' WHERE id = $1 AND request_id = $2 AND status = 'received'")).
		WithArgs("prop-2", "req-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE supplier_proposals SET status = 'rejected' WHERE request_id = $1 AND id != $2")).
		WithArgs("req-1", "prop-2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO award_decisions")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	decision, err := repo.CreateAward(context.Background(), AwardParams{
		RequestID:         "req-1",
		WinningProposalID: "prop-2",
		Criterion:         models.CriterionLowestPrice,
		Savings:           10500,
	})
	require.NoError(t, err)
	require.NotEmpty(t, decision.ID)
	require.Equal(t, "prop-2", decision.WinningProposalID)
	require.InDelta(t, 10500, decision.Savings, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardRepositoryCreateAwardRequestAlreadyClosed(t *testing.T) {
	db, mock, cleanup := newAwardRepoMock(t)
	defer cleanup()
	repo := NewAwardRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE quotation_requests SET status = 'closed' WHERE id = $1 AND status = 'open'")).
		WithArgs("req-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.CreateAward(context.Background(), AwardParams{
		RequestID:         "req-1",
		WinningProposalID: "prop-2",
		Criterion:         models.CriterionLowestPrice,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardRepositoryCreateAwardProposalAlreadyDecided(t *testing.T) {
	db, mock, cleanup := newAwardRepoMock(t)
	defer cleanup()
	repo := NewAwardRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE quotation_requests SET status = 'closed' WHERE id = $1 AND status = 'open'")).
		WithArgs("req-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE supplier_proposals SET status = 'winning' WHERE id = $1 AND request_id = $2 AND status = 'received'")).
		WithArgs("prop-9", "req-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.CreateAward(context.Background(), AwardParams{
		RequestID:         "req-1",
		WinningProposalID: "prop-9",
		Criterion:         models.CriterionLowestPrice,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
