// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for in-app
// notifications and the append-only action log.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/domain"
)

// CreateNotification inserts a notification row, assigning a UUID when absent.
func CreateNotification(ctx context.Context, db *gorm.DB, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(n).Error
}

// ListNotifications returns notifications visible to a reader, newest first.
// A notification matches when it targets the reader's role or the reader
// directly. limit caps the result size; limit <= 0 means no cap.
func ListNotifications(ctx context.Context, db *gorm.DB, role, userID string, limit int) ([]domain.Notification, error) {
	q := db.WithContext(ctx).
		Where("target_role = ? OR target_user_id = ?", role, userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Notification
	err := q.Find(&out).Error
	return out, err
}

// CreateActionLog appends an audit record. The log is append-only; rows are
// read back through ListActionLogs but never updated or deleted.
func CreateActionLog(ctx context.Context, db *gorm.DB, a *domain.ActionLog) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(a).Error
}

// ListActionLogs returns audit records newest first. entity and entityID
// narrow the result when non-empty.
func ListActionLogs(ctx context.Context, db *gorm.DB, entity, entityID string, limit int) ([]domain.ActionLog, error) {
	q := db.WithContext(ctx).Order("created_at DESC")
	if entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if entityID != "" {
		q = q.Where("entity_id = ?", entityID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.ActionLog
	err := q.Find(&out).Error
	return out, err
}
