package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hospshop/procurement-api/internal/models"
)

// QuotationRepository persists quotation requests and their line items.
type QuotationRepository struct {
	db *sqlx.DB
}

// NewQuotationRepository constructs the repository.
func NewQuotationRepository(db *sqlx.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// CreateWithItems inserts a request and all of its items in one
// transaction. Either the whole request becomes visible or none of it.
func (r *QuotationRepository) CreateWithItems(ctx context.Context, request *models.QuotationRequest, items []models.RequestItem) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.QuotationStatusOpen
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin quotation tx: %w", err)
	}

	const requestQuery = `INSERT INTO quotation_requests
	(id, number, tender_reference, description, status, response_deadline, notes, created_at)
	VALUES (:id, :number, :tender_reference, :description, :status, :response_deadline, :notes, :created_at)`
	if _, err := tx.NamedExecContext(ctx, requestQuery, request); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create quotation request: %w", err)
	}

	const itemQuery = `INSERT INTO request_items
	(id, request_id, code, description, quantity, unit, specifications, position)
	VALUES (:id, :request_id, :code, :description, :quantity, :unit, :specifications, :position)`
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		items[i].RequestID = request.ID
		items[i].Position = i + 1
		if _, err := tx.NamedExecContext(ctx, itemQuery, items[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("create request item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit quotation request: %w", err)
	}
	return nil
}

// GetByID fetches a request by identifier.
func (r *QuotationRepository) GetByID(ctx context.Context, id string) (*models.QuotationRequest, error) {
	const query = `SELECT id, number, tender_reference, description, status, response_deadline, notes, created_at
	FROM quotation_requests WHERE id = $1`
	var request models.QuotationRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// GetItems returns the request's line items in defined order.
func (r *QuotationRepository) GetItems(ctx context.Context, requestID string) ([]models.RequestItem, error) {
	const query = `SELECT id, request_id, code, description, quantity, unit, specifications, position
	FROM request_items WHERE request_id = $1 ORDER BY position ASC`
	var items []models.RequestItem
	if err := r.db.SelectContext(ctx, &items, query, requestID); err != nil {
		return nil, fmt.Errorf("list request items: %w", err)
	}
	return items, nil
}

// List returns requests matching the filter, latest first.
func (r *QuotationRepository) List(ctx context.Context, filter models.QuotationFilter) ([]models.QuotationRequest, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(`SELECT id, number, tender_reference, description, status, response_deadline, notes, created_at
	FROM quotation_requests`)

	conditions := make([]string, 0, 2)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.TenderReference != "" {
		args = append(args, filter.TenderReference)
		conditions = append(conditions, fmt.Sprintf("tender_reference = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var requests []models.QuotationRequest
	if err := r.db.SelectContext(ctx, &requests, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list quotation requests: %w", err)
	}
	return requests, nil
}

// Stats aggregates system-wide quotation figures.
func (r *QuotationRepository) Stats(ctx context.Context) (*models.QuotationStats, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM quotation_requests) AS total_requests,
	(SELECT COUNT(*) FROM quotation_requests WHERE status = 'open') AS open_requests,
	(SELECT COUNT(*) FROM quotation_requests WHERE status = 'closed') AS closed_requests,
	(SELECT COUNT(*) FROM supplier_proposals) AS total_proposals,
	(SELECT COALESCE(SUM(savings), 0) FROM award_decisions) AS total_savings`
	var stats models.QuotationStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("quotation stats: %w", err)
	}
	if stats.TotalRequests > 0 {
		stats.AvgProposalsPerRequest = float64(stats.TotalProposals) / float64(stats.TotalRequests)
	}
	return &stats, nil
}
