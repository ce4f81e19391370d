package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/hospshop/procurement-api/internal/models"
)

func newProposalRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestProposalRepositoryCreateWithItems(t *testing.T) {
	db, mock, cleanup := newProposalRepoMock(t)
	defer cleanup()
	repo := NewProposalRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO supplier_proposals")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO proposal_items")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	proposal := &models.SupplierProposal{
		RequestID:    "req-1",
		SupplierID:   "sup-1",
		Number:       "PROP-sup-1-1700000000",
		TotalValue:   78500,
		DeliveryTime: "15 dias",
		ValidUntil:   time.Now().Add(30 * 24 * time.Hour),
	}
	items := []models.ProposalItem{{RequestItemID: "item-1", UnitPrice: 15700, LineTotal: 78500}}

	err := repo.CreateWithItems(context.Background(), proposal, items)
	require.NoError(t, err)
	require.NotEmpty(t, proposal.ID)
	require.Equal(t, models.ProposalStatusReceived, proposal.Status)
	require.Equal(t, proposal.ID, items[0].ProposalID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalRepositoryListByRequestOrdersCheapestFirst(t *testing.T) {
	db, mock, cleanup := newProposalRepoMock(t)
	defer cleanup()
	repo := NewProposalRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "request_id", "supplier_id", "number", "total_value", "delivery_time", "payment_terms", "status", "submitted_at", "valid_until", "notes"}).
		AddRow("prop-2", "req-1", "sup-2", "PROP-2", 73500.0, "20 dias", nil, models.ProposalStatusReceived, now, now, nil).
		AddRow("prop-1", "req-1", "sup-1", "PROP-1", 78500.0, "15 dias", nil, models.ProposalStatusReceived, now, now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY total_value ASC, submitted_at ASC")).
		WithArgs("req-1").
		WillReturnRows(rows)

	proposals, err := repo.ListByRequest(context.Background(), "req-1")
	require.NoError(t, err)
	require.Len(t, proposals, 2)
	require.Equal(t, "prop-2", proposals[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalRepositoryExistsForSupplier(t *testing.T) {
	db, mock, cleanup := newProposalRepoMock(t)
	defer cleanup()
	repo := NewProposalRepository(db)

	rows := sqlmock.NewRows([]string{"exists"}).AddRow(true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("req-1", "sup-1").
		WillReturnRows(rows)

	exists, err := repo.ExistsForSupplier(context.Background(), "req-1", "sup-1")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}
