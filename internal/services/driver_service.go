// Package services – DriverService
//
// Straightforward CRUD over the driver roster; the interesting driver-related
// behavior (fuel submission) lives in FuelService.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/repo"
)

// DriverService provides driver roster operations.
type DriverService struct {
	DB *gorm.DB
}

// NewDriverService constructs a DriverService.
func NewDriverService(db *gorm.DB) *DriverService {
	return &DriverService{DB: db}
}

// Create registers a driver.
func (s *DriverService) Create(ctx context.Context, d *domain.Driver) (*domain.Driver, error) {
	if err := repo.CreateDriver(ctx, s.DB, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get fetches a driver by ID.
func (s *DriverService) Get(ctx context.Context, id string) (*domain.Driver, error) {
	d, err := repo.GetDriver(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDriverNotFound
	}
	return d, err
}

// List returns all drivers ordered by name.
func (s *DriverService) List(ctx context.Context) ([]domain.Driver, error) {
	return repo.ListDrivers(ctx, s.DB)
}

// Update applies edits to a driver row.
func (s *DriverService) Update(ctx context.Context, id string, apply func(*domain.Driver)) (*domain.Driver, error) {
	d, err := repo.GetDriver(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDriverNotFound
	}
	if err != nil {
		return nil, err
	}
	apply(d)
	if err := repo.UpdateDriver(ctx, s.DB, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete soft-deletes a driver.
func (s *DriverService) Delete(ctx context.Context, id string) error {
	err := repo.DeleteDriver(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrDriverNotFound
	}
	return err
}
