package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Falleiro/Finova/internal/domain/notification"
)

type NotificationRepository struct {
	db *DB
}

var _ notification.Repository = (*NotificationRepository)(nil)

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Record(ctx context.Context, n notification.Notification) error {
	if n.ID == "" {
		return notification.ErrInvalidInput
	}

	query := `
		INSERT INTO notifications (id, kind, entity_id, body, delivered, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, string(n.Kind), n.EntityID, n.Body, n.Delivered, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListRecent(ctx context.Context, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, kind, entity_id, body, delivered, created_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		var stored notification.Notification
		var kind string
		var entityID sql.NullString
		if err := rows.Scan(&stored.ID, &kind, &entityID, &stored.Body, &stored.Delivered, &stored.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		stored.Kind = notification.Kind(kind)
		if entityID.Valid {
			stored.EntityID = entityID.String
		}
		notifications = append(notifications, &stored)
	}
	return notifications, rows.Err()
}
