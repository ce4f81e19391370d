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

// SupplierRepository persists the supplier directory.
type SupplierRepository struct {
	db *sqlx.DB
}

// NewSupplierRepository constructs the repository.
func NewSupplierRepository(db *sqlx.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// Create inserts a supplier row.
func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	now := time.Now().UTC()
	if supplier.ID == "" {
		supplier.ID = uuid.NewString()
	}
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = now
	}
	supplier.UpdatedAt = now
	const query = `INSERT INTO suppliers
	(id, name, cnpj, email, phone, whatsapp, city, state, category, active, created_at, updated_at)
	VALUES (:id, :name, :cnpj, :email, :phone, :whatsapp, :city, :state, :category, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, supplier); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}
	return nil
}

// GetByID fetches a supplier by identifier.
func (r *SupplierRepository) GetByID(ctx context.Context, id string) (*models.Supplier, error) {
	const query = `SELECT id, name, cnpj, email, phone, whatsapp, city, state, category, active, created_at, updated_at
	FROM suppliers WHERE id = $1`
	var supplier models.Supplier
	if err := r.db.GetContext(ctx, &supplier, query, id); err != nil {
		return nil, err
	}
	return &supplier, nil
}

// List returns suppliers matching the filter ordered by name.
func (r *SupplierRepository) List(ctx context.Context, filter models.SupplierFilter) ([]models.Supplier, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 3)
	builder.WriteString(`SELECT id, name, cnpj, email, phone, whatsapp, city, state, category, active, created_at, updated_at
	FROM suppliers`)

	conditions := make([]string, 0, 3)
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR cnpj ILIKE $%d)", len(args), len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY name ASC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var suppliers []models.Supplier
	if err := r.db.SelectContext(ctx, &suppliers, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}

// Update overwrites the mutable columns of a supplier.
func (r *SupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	supplier.UpdatedAt = time.Now().UTC()
	const query = `UPDATE suppliers SET
	name = :name, email = :email, phone = :phone, whatsapp = :whatsapp,
	city = :city, state = :state, category = :category, active = :active, updated_at = :updated_at
	WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, supplier)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check supplier update rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update supplier: no rows affected")
	}
	return nil
}

// CountActive returns the number of active suppliers.
func (r *SupplierRepository) CountActive(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM suppliers WHERE active = true`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count active suppliers: %w", err)
	}
	return count, nil
}
