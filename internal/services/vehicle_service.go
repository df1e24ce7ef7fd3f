// Package services – VehicleService
//
// This file implements the VehicleService, which manages the fleet roster.
// Creating a vehicle also seeds its full set of maintenance counters in the
// same transaction, so a vehicle is never visible without its threshold
// tracking rows.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/repo"
)

// VehicleService provides vehicle roster operations.
type VehicleService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewVehicleService constructs a VehicleService.
func NewVehicleService(db *gorm.DB) *VehicleService {
	return &VehicleService{DB: db}
}

// Create registers a vehicle and seeds one maintenance counter per tracked
// category, all in one transaction. The counters start from the vehicle's
// initial odometer reading.
func (s *VehicleService) Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	// Pre-check the plate for a friendly error; the unique index is the
	// real guarantee under concurrency.
	var count int64
	if err := s.DB.WithContext(ctx).
		Model(&domain.Vehicle{}).
		Where("registration = ?", v.Registration).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateRegistration
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateVehicle(ctx, tx, v); err != nil {
			return err
		}
		return repo.SeedCounters(ctx, tx, v.ID, v.CurrentKm)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Get fetches a vehicle by ID.
func (s *VehicleService) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	v, err := repo.GetVehicle(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrVehicleNotFound
	}
	return v, err
}

// List returns the fleet roster ordered by registration.
func (s *VehicleService) List(ctx context.Context) ([]domain.Vehicle, error) {
	return repo.ListVehicles(ctx, s.DB)
}

// Update persists edits to a vehicle's descriptive fields. The odometer is
// not edited here; it only moves forward through fuel entries.
func (s *VehicleService) Update(ctx context.Context, id string, apply func(*domain.Vehicle)) (*domain.Vehicle, error) {
	v, err := repo.GetVehicle(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}
	apply(v)
	if err := repo.UpdateVehicle(ctx, s.DB, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete soft-deletes a vehicle.
func (s *VehicleService) Delete(ctx context.Context, id string) error {
	err := repo.DeleteVehicle(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrVehicleNotFound
	}
	return err
}

// Counters returns the maintenance counters of a vehicle.
func (s *VehicleService) Counters(ctx context.Context, vehicleID string) ([]domain.MaintenanceCounter, error) {
	if _, err := s.Get(ctx, vehicleID); err != nil {
		return nil, err
	}
	return repo.ListCounters(ctx, s.DB, vehicleID)
}
