package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hospshop/procurement-api/internal/models"
)

// NotificationRepository persists dispatch attempt records.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification log row.
func (r *NotificationRepository) Create(ctx context.Context, log *models.NotificationLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notification_log
	(id, channel, recipient, subject, status, error, created_at)
	VALUES (:id, :channel, :recipient, :subject, :status, :error, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create notification log: %w", err)
	}
	return nil
}

// ListRecent returns the latest dispatch records.
func (r *NotificationRepository) ListRecent(ctx context.Context, limit int) ([]models.NotificationLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `SELECT id, channel, recipient, subject, status, error, created_at
	FROM notification_log ORDER BY created_at DESC LIMIT $1`
	var logs []models.NotificationLog
	if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
		return nil, fmt.Errorf("list notification log: %w", err)
	}
	return logs, nil
}
