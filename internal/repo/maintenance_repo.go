// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for maintenance
// counters (per-vehicle, per-category threshold state) and maintenance
// requests.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/oneshot"
)

// SeedCounters creates one MaintenanceCounter per tracked category for a new
// vehicle, using the default intervals and the vehicle's current reading as
// the starting last-service point.
func SeedCounters(ctx context.Context, db *gorm.DB, vehicleID string, startKm int) error {
	now := time.Now().UTC()
	counters := make([]domain.MaintenanceCounter, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		counters = append(counters, domain.MaintenanceCounter{
			ID:            uuid.NewString(),
			VehicleID:     vehicleID,
			Category:      cat,
			IntervalKm:    domain.DefaultIntervals[cat],
			LastServiceKm: startKm,
			AlertState:    oneshot.StateNotDue,
			CreatedAt:     now,
		})
	}
	return db.WithContext(ctx).Create(&counters).Error
}

// ListCounters returns every counter of a vehicle in category order.
func ListCounters(ctx context.Context, db *gorm.DB, vehicleID string) ([]domain.MaintenanceCounter, error) {
	var out []domain.MaintenanceCounter
	err := db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("category ASC").
		Find(&out).Error
	return out, err
}

// GetCounter fetches one vehicle/category counter, or ErrNotFound.
func GetCounter(ctx context.Context, db *gorm.DB, vehicleID string, cat domain.Category) (*domain.MaintenanceCounter, error) {
	var c domain.MaintenanceCounter
	err := db.WithContext(ctx).
		First(&c, "vehicle_id = ? AND category = ?", vehicleID, cat).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCounterState persists a counter's alert state transition.
func UpdateCounterState(ctx context.Context, db *gorm.DB, id string, state oneshot.State) error {
	return db.WithContext(ctx).
		Model(&domain.MaintenanceCounter{}).
		Where("id = ?", id).
		Update("alert_state", state).Error
}

// ResetCounter records a completed service: the last-service mark advances
// to the given reading and the alert state re-arms. Returns ErrNotFound when
// the vehicle/category pair has no counter.
func ResetCounter(ctx context.Context, db *gorm.DB, vehicleID string, cat domain.Category, serviceKm int) error {
	res := db.WithContext(ctx).
		Model(&domain.MaintenanceCounter{}).
		Where("vehicle_id = ? AND category = ?", vehicleID, cat).
		Updates(map[string]any{
			"last_service_km": serviceKm,
			"alert_state":     oneshot.Reset(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateCounterInterval tunes a counter's service interval. Interval 0
// disables threshold alerts for the category.
func UpdateCounterInterval(ctx context.Context, db *gorm.DB, vehicleID string, cat domain.Category, intervalKm int) error {
	res := db.WithContext(ctx).
		Model(&domain.MaintenanceCounter{}).
		Where("vehicle_id = ? AND category = ?", vehicleID, cat).
		Update("interval_km", intervalKm)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateMaintenanceRequest inserts a request row, assigning a UUID when absent.
func CreateMaintenanceRequest(ctx context.Context, db *gorm.DB, m *domain.MaintenanceRequest) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(m).Error
}

// GetMaintenanceRequest fetches a request by ID, or ErrNotFound.
func GetMaintenanceRequest(ctx context.Context, db *gorm.DB, id string) (*domain.MaintenanceRequest, error) {
	var m domain.MaintenanceRequest
	if err := db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMaintenanceRequests returns requests newest first, optionally scoped
// to a vehicle.
func ListMaintenanceRequests(ctx context.Context, db *gorm.DB, vehicleID string) ([]domain.MaintenanceRequest, error) {
	q := db.WithContext(ctx).Order("requested_at DESC")
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	var out []domain.MaintenanceRequest
	err := q.Find(&out).Error
	return out, err
}

// UpdateMaintenanceRequest persists the given request row in full.
func UpdateMaintenanceRequest(ctx context.Context, db *gorm.DB, m *domain.MaintenanceRequest) error {
	return db.WithContext(ctx).Save(m).Error
}

// DeleteMaintenanceRequest soft-deletes a request by ID.
func DeleteMaintenanceRequest(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.MaintenanceRequest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
