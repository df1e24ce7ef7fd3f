// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the FuelEntry
// model plus the monthly spend aggregate consumed by the budget monitor.
//
// Error semantics:
//   - When an entry is not found, functions return ErrNotFound.
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/domain"
)

// CreateFuelEntry inserts a fuel entry row, assigning a UUID when absent.
func CreateFuelEntry(ctx context.Context, db *gorm.DB, e *domain.FuelEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(e).Error
}

// GetFuelEntry fetches a fuel entry by ID, or ErrNotFound if missing.
func GetFuelEntry(ctx context.Context, db *gorm.DB, id string) (*domain.FuelEntry, error) {
	var e domain.FuelEntry
	if err := db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ListFuelEntries returns fuel entries newest first, optionally scoped to a
// vehicle when vehicleID is non-empty.
func ListFuelEntries(ctx context.Context, db *gorm.DB, vehicleID string) ([]domain.FuelEntry, error) {
	q := db.WithContext(ctx).Order("date DESC")
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	var out []domain.FuelEntry
	err := q.Find(&out).Error
	return out, err
}

// UpdateFuelEntry persists the given entry row in full (raw inputs and the
// re-derived field set together).
func UpdateFuelEntry(ctx context.Context, db *gorm.DB, e *domain.FuelEntry) error {
	return db.WithContext(ctx).Save(e).Error
}

// DeleteFuelEntry soft-deletes a fuel entry by ID. Returns ErrNotFound when
// no row was affected.
func DeleteFuelEntry(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.FuelEntry{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MonthBounds returns the [start, end) UTC interval covering the given
// calendar month. Shared by the spend aggregates below and the budget
// reporting queries.
func MonthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// SumMonthlySpend returns the total amount paid across a vehicle's fuel
// entries within one calendar month. Months with no entries sum to 0.
func SumMonthlySpend(ctx context.Context, db *gorm.DB, vehicleID string, year, month int) (float64, error) {
	start, end := MonthBounds(year, month)
	var total *float64
	err := db.WithContext(ctx).
		Model(&domain.FuelEntry{}).
		Where("vehicle_id = ? AND date >= ? AND date < ?", vehicleID, start, end).
		Select("SUM(amount_paid)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

// ListFuelEntriesForYear returns a vehicle's entries within one calendar
// year ordered by date ascending, for budget/consumption reporting.
func ListFuelEntriesForYear(ctx context.Context, db *gorm.DB, vehicleID string, year int) ([]domain.FuelEntry, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	var out []domain.FuelEntry
	err := db.WithContext(ctx).
		Where("vehicle_id = ? AND date >= ? AND date < ?", vehicleID, start, end).
		Order("date ASC").
		Find(&out).Error
	return out, err
}
