package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hospshop/procurement-api/internal/models"
)

// ContractRepository persists generated contract metadata.
type ContractRepository struct {
	db *sqlx.DB
}

// NewContractRepository constructs the repository.
func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// Create inserts a contract row.
func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	if contract.ID == "" {
		contract.ID = uuid.NewString()
	}
	if contract.GeneratedAt.IsZero() {
		contract.GeneratedAt = time.Now().UTC()
	}
	const query = `INSERT INTO contracts
	(id, number, request_id, proposal_id, supplier_id, total_value, file_name, generated_at)
	VALUES (:id, :number, :request_id, :proposal_id, :supplier_id, :total_value, :file_name, :generated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, contract); err != nil {
		return fmt.Errorf("create contract: %w", err)
	}
	return nil
}

// GetByRequest fetches the contract generated for a request.
func (r *ContractRepository) GetByRequest(ctx context.Context, requestID string) (*models.Contract, error) {
	const query = `SELECT id, number, request_id, proposal_id, supplier_id, total_value, file_name, generated_at
	FROM contracts WHERE request_id = $1 ORDER BY generated_at DESC LIMIT 1`
	var contract models.Contract
	if err := r.db.GetContext(ctx, &contract, query, requestID); err != nil {
		return nil, err
	}
	return &contract, nil
}
