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

// AwardRepository persists award decisions.
type AwardRepository struct {
	db *sqlx.DB
}

// NewAwardRepository constructs the repository.
func NewAwardRepository(db *sqlx.DB) *AwardRepository {
	return &AwardRepository{db: db}
}

// AwardParams groups the rows touched by a winner selection.
type AwardParams struct {
	RequestID         string
	WinningProposalID string
	Criterion         models.AwardCriterion
	Justification     *string
	Savings           float64
	DecidedBy         *string
}

// CreateAward applies the full award as one transaction: the winner
// becomes winning, siblings become rejected, the request closes, and the
// decision row is written. The request close is guarded on status =
// 'open'; when another award got there first the guard matches zero rows
// and the transaction aborts with sql.ErrNoRows, so concurrent awards
// cannot both succeed.
func (r *AwardRepository) CreateAward(ctx context.Context, params AwardParams) (*models.AwardDecision, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin award tx: %w", err)
	}

	const closeQuery = `UPDATE quotation_requests SET status = 'closed' WHERE id = $1 AND status = 'open'`
	result, err := tx.ExecContext(ctx, closeQuery, params.RequestID)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, fmt.Errorf("close quotation request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, fmt.Errorf("check request close rows: %w", err)
	}
	if rows == 0 {
		tx.Rollback() //nolint:errcheck
		return nil, sql.ErrNoRows
	}

	const winnerQuery = `UPDATE supplier_proposals SET status = 'winning' WHERE id = $1 AND request_id = $2 AND status = 'received'`
	result, err = tx.ExecContext(ctx, winnerQuery, params.WinningProposalID, params.RequestID)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, fmt.Errorf("mark winning proposal: %w", err)
	}
	rows, err = result.RowsAffected()
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, fmt.Errorf("check winner rows: %w", err)
	}
	if rows == 0 {
		tx.Rollback() //nolint:errcheck
		return nil, sql.ErrNoRows
	}

	const rejectQuery = `UPDATE supplier_proposals SET status = 'rejected' WHERE request_id = $1 AND id != $2`
	if _, err := tx.ExecContext(ctx, rejectQuery, params.RequestID, params.WinningProposalID); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, fmt.Errorf("reject sibling proposals: %w", err)
	}

	decision := &models.AwardDecision{
		ID:                uuid.NewString(),
		RequestID:         params.RequestID,
		WinningProposalID: params.WinningProposalID,
		Criterion:         params.Criterion,
		Justification:     params.Justification,
		Savings:           params.Savings,
		DecidedBy:         params.DecidedBy,
		DecidedAt:         time.Now().UTC(),
	}
	const decisionQuery = `INSERT INTO award_decisions
	(id, request_id, winning_proposal_id, criterion, justification, savings, decided_by, decided_at)
	VALUES (:id, :request_id, :winning_proposal_id, :criterion, :justification, :savings, :decided_by, :decided_at)`
	if _, err := tx.NamedExecContext(ctx, decisionQuery, decision); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, fmt.Errorf("create award decision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit award: %w", err)
	}
	return decision, nil
}

// List returns all award decisions, newest first.
func (r *AwardRepository) List(ctx context.Context) ([]models.AwardDecision, error) {
	const query = `SELECT id, request_id, winning_proposal_id, criterion, justification, savings, decided_by, decided_at
	FROM award_decisions ORDER BY decided_at DESC`
	var decisions []models.AwardDecision
	if err := r.db.SelectContext(ctx, &decisions, query); err != nil {
		return nil, fmt.Errorf("list award decisions: %w", err)
	}
	return decisions, nil
}

// GetByRequest fetches the award decision of a request.
func (r *AwardRepository) GetByRequest(ctx context.Context, requestID string) (*models.AwardDecision, error) {
	const query = `SELECT id, request_id, winning_proposal_id, criterion, justification, savings, decided_by, decided_at
	FROM award_decisions WHERE request_id = $1`
	var decision models.AwardDecision
	if err := r.db.GetContext(ctx, &decision, query, requestID); err != nil {
		return nil, err
	}
	return &decision, nil
}
