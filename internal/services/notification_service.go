// Package services – NotificationService
//
// Read-side access to the in-app notification feed written by the alert
// dispatcher.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/repo"
)

// NotificationService exposes the notification feed.
type NotificationService struct {
	DB *gorm.DB
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// List returns the notifications visible to a reader, newest first.
func (s *NotificationService) List(ctx context.Context, role, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return repo.ListNotifications(ctx, s.DB, role, userID, limit)
}

// Logs returns the audit trail, newest first, optionally narrowed to one
// entity kind or one entity.
func (s *NotificationService) Logs(ctx context.Context, entity, entityID string, limit int) ([]domain.ActionLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return repo.ListActionLogs(ctx, s.DB, entity, entityID, limit)
}
