// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for compliance
// documents, including the expiry-scan selection query.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/oneshot"
)

// CreateComplianceDocument inserts a document row, assigning a UUID when absent.
func CreateComplianceDocument(ctx context.Context, db *gorm.DB, d *domain.ComplianceDocument) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(d).Error
}

// GetComplianceDocument fetches a document by ID, or ErrNotFound.
func GetComplianceDocument(ctx context.Context, db *gorm.DB, id string) (*domain.ComplianceDocument, error) {
	var d domain.ComplianceDocument
	if err := db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListComplianceDocuments returns documents ordered by expiration ascending,
// optionally scoped to a vehicle.
func ListComplianceDocuments(ctx context.Context, db *gorm.DB, vehicleID string) ([]domain.ComplianceDocument, error) {
	q := db.WithContext(ctx).Order("expires_at ASC")
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	var out []domain.ComplianceDocument
	err := q.Find(&out).Error
	return out, err
}

// ListExpiringDocuments selects every document whose expiration date falls
// on or before the given deadline and whose expiry alert has not fired yet.
// This is the scanner's work queue.
func ListExpiringDocuments(ctx context.Context, db *gorm.DB, deadline time.Time) ([]domain.ComplianceDocument, error) {
	var out []domain.ComplianceDocument
	err := db.WithContext(ctx).
		Where("expires_at <= ? AND alert_state <> ?", deadline, oneshot.StatePending).
		Order("expires_at ASC").
		Find(&out).Error
	return out, err
}

// MarkDocumentAlerted flips a document's expiry alert to pending and records
// when it fired.
func MarkDocumentAlerted(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.ComplianceDocument{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"alert_state":   oneshot.StatePending,
			"alert_sent_at": at,
		}).Error
}

// UpdateComplianceDocument persists the given document row in full.
func UpdateComplianceDocument(ctx context.Context, db *gorm.DB, d *domain.ComplianceDocument) error {
	return db.WithContext(ctx).Save(d).Error
}

// DeleteComplianceDocument soft-deletes a document by ID.
func DeleteComplianceDocument(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.ComplianceDocument{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
