package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hospshop/procurement-api/internal/models"
)

// ProposalRepository persists supplier proposals and their priced items.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository constructs the repository.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// CreateWithItems inserts a proposal and its line items in one
// transaction.
func (r *ProposalRepository) CreateWithItems(ctx context.Context, proposal *models.SupplierProposal, items []models.ProposalItem) error {
	if proposal.ID == "" {
		proposal.ID = uuid.NewString()
	}
	if proposal.Status == "" {
		proposal.Status = models.ProposalStatusReceived
	}
	if proposal.SubmittedAt.IsZero() {
		proposal.SubmittedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin proposal tx: %w", err)
	}

	const proposalQuery = `INSERT INTO supplier_proposals
	(id, request_id, supplier_id, number, total_value, delivery_time, payment_terms, status, submitted_at, valid_until, notes)
	VALUES (:id, :request_id, :supplier_id, :number, :total_value, :delivery_time, :payment_terms, :status, :submitted_at, :valid_until, :notes)`
	if _, err := tx.NamedExecContext(ctx, proposalQuery, proposal); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create proposal: %w", err)
	}

	const itemQuery = `INSERT INTO proposal_items
	(id, proposal_id, request_item_id, unit_price, line_total, brand, model)
	VALUES (:id, :proposal_id, :request_item_id, :unit_price, :line_total, :brand, :model)`
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		items[i].ProposalID = proposal.ID
		if _, err := tx.NamedExecContext(ctx, itemQuery, items[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("create proposal item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit proposal: %w", err)
	}
	return nil
}

// GetByID fetches a proposal by identifier.
func (r *ProposalRepository) GetByID(ctx context.Context, id string) (*models.SupplierProposal, error) {
	const query = `SELECT id, request_id, supplier_id, number, total_value, delivery_time, payment_terms, status, submitted_at, valid_until, notes
	FROM supplier_proposals WHERE id = $1`
	var proposal models.SupplierProposal
	if err := r.db.GetContext(ctx, &proposal, query, id); err != nil {
		return nil, err
	}
	return &proposal, nil
}

// ListByRequest returns all proposals of a request ordered cheapest
// first; equal totals rank the earlier submission first so comparison
// rankings are deterministic.
func (r *ProposalRepository) ListByRequest(ctx context.Context, requestID string) ([]models.SupplierProposal, error) {
	const query = `SELECT id, request_id, supplier_id, number, total_value, delivery_time, payment_terms, status, submitted_at, valid_until, notes
	FROM supplier_proposals WHERE request_id = $1
	ORDER BY total_value ASC, submitted_at ASC`
	var proposals []models.SupplierProposal
	if err := r.db.SelectContext(ctx, &proposals, query, requestID); err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	return proposals, nil
}

// GetItems returns the priced items of a proposal.
func (r *ProposalRepository) GetItems(ctx context.Context, proposalID string) ([]models.ProposalItem, error) {
	const query = `SELECT id, proposal_id, request_item_id, unit_price, line_total, brand, model
	FROM proposal_items WHERE proposal_id = $1`
	var items []models.ProposalItem
	if err := r.db.SelectContext(ctx, &items, query, proposalID); err != nil {
		return nil, fmt.Errorf("list proposal items: %w", err)
	}
	return items, nil
}

// ExistsForSupplier reports whether the supplier already has a proposal
// on the request.
func (r *ProposalRepository) ExistsForSupplier(ctx context.Context, requestID, supplierID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM supplier_proposals WHERE request_id = $1 AND supplier_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, requestID, supplierID); err != nil {
		return false, fmt.Errorf("check proposal existence: %w", err)
	}
	return exists, nil
}
