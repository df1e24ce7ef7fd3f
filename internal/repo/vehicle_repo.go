// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Vehicle
// model, including the monotonic odometer write used by the fuel pipeline.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a vehicle is not found, functions return ErrNotFound.
//   - On other DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/domain"
)

// CreateVehicle inserts a vehicle row, assigning a UUID when the caller did
// not provide one.
func CreateVehicle(ctx context.Context, db *gorm.DB, v *domain.Vehicle) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(v).Error
}

// GetVehicle fetches a vehicle by ID, or ErrNotFound if missing.
func GetVehicle(ctx context.Context, db *gorm.DB, id string) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVehicles returns all vehicles ordered by registration.
func ListVehicles(ctx context.Context, db *gorm.DB) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	err := db.WithContext(ctx).Order("registration ASC").Find(&out).Error
	return out, err
}

// UpdateVehicle persists the given vehicle row in full.
func UpdateVehicle(ctx context.Context, db *gorm.DB, v *domain.Vehicle) error {
	return db.WithContext(ctx).Save(v).Error
}

// DeleteVehicle soft-deletes a vehicle by ID. Returns ErrNotFound when no
// row was affected.
func DeleteVehicle(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.Vehicle{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdvanceVehicleKm applies a monotonic odometer write: the stored current_km
// is raised to km only when km is greater, so a stale or rolled-back entry
// can never move the vehicle backwards. It returns the effective reading
// after the write (the max of the stored and submitted values).
func AdvanceVehicleKm(ctx context.Context, db *gorm.DB, id string, km int) (int, error) {
	res := db.WithContext(ctx).
		Model(&domain.Vehicle{}).
		Where("id = ? AND current_km < ?", id, km).
		Update("current_km", km)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		return km, nil
	}
	// The stored value is already >= km; read it back.
	v, err := GetVehicle(ctx, db, id)
	if err != nil {
		return 0, err
	}
	return v.CurrentKm, nil
}
