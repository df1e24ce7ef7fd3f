// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for monthly fuel
// budgets.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/oneshot"
)

// CreateBudget inserts a budget row, assigning a UUID when absent. The unique
// index on (vehicle_id, year, month) rejects duplicates.
func CreateBudget(ctx context.Context, db *gorm.DB, b *domain.MonthlyFuelBudget) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(b).Error
}

// GetBudget fetches the budget for one vehicle-month, or ErrNotFound.
func GetBudget(ctx context.Context, db *gorm.DB, vehicleID string, year, month int) (*domain.MonthlyFuelBudget, error) {
	var b domain.MonthlyFuelBudget
	err := db.WithContext(ctx).
		First(&b, "vehicle_id = ? AND year = ? AND month = ?", vehicleID, year, month).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBudgetByID fetches a budget by primary key, or ErrNotFound.
func GetBudgetByID(ctx context.Context, db *gorm.DB, id string) (*domain.MonthlyFuelBudget, error) {
	var b domain.MonthlyFuelBudget
	if err := db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBudgets returns budgets for one calendar year ordered by month,
// optionally scoped to a vehicle.
func ListBudgets(ctx context.Context, db *gorm.DB, year int, vehicleID string) ([]domain.MonthlyFuelBudget, error) {
	q := db.WithContext(ctx).Where("year = ?", year).Order("vehicle_id ASC, month ASC")
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	var out []domain.MonthlyFuelBudget
	err := q.Find(&out).Error
	return out, err
}

// UpdateBudget persists the given budget row in full.
func UpdateBudget(ctx context.Context, db *gorm.DB, b *domain.MonthlyFuelBudget) error {
	return db.WithContext(ctx).Save(b).Error
}

// MarkBudgetAlerted flips a budget's overrun alert to pending.
func MarkBudgetAlerted(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Model(&domain.MonthlyFuelBudget{}).
		Where("id = ?", id).
		Update("alert_state", oneshot.StatePending).Error
}

// DeleteBudget removes a budget row by ID. Returns ErrNotFound when no row
// was affected.
func DeleteBudget(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.MonthlyFuelBudget{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
