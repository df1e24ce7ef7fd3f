// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Driver model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/domain"
)

// CreateDriver inserts a driver row, assigning a UUID when absent.
func CreateDriver(ctx context.Context, db *gorm.DB, d *domain.Driver) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(d).Error
}

// GetDriver fetches a driver by ID, or ErrNotFound if missing.
func GetDriver(ctx context.Context, db *gorm.DB, id string) (*domain.Driver, error) {
	var d domain.Driver
	if err := db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDrivers returns all drivers ordered by last name.
func ListDrivers(ctx context.Context, db *gorm.DB) ([]domain.Driver, error) {
	var out []domain.Driver
	err := db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&out).Error
	return out, err
}

// UpdateDriver persists the given driver row in full.
func UpdateDriver(ctx context.Context, db *gorm.DB, d *domain.Driver) error {
	return db.WithContext(ctx).Save(d).Error
}

// DeleteDriver soft-deletes a driver by ID. Returns ErrNotFound when no row
// was affected.
func DeleteDriver(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.Driver{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
