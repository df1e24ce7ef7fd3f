// Package services – MaintenanceService
//
// This file implements maintenance request intake and the status workflow.
// Accepting a request for a mileage-tracked category is the reset event of
// that category's one-shot counter: the last-service mark advances to the
// vehicle's current reading and the alert re-arms.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/alerting"
	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/repo"
)

// Allowed maintenance request statuses.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusClosed   = "closed"
)

func validStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusClosed:
		return true
	}
	return false
}

// MaintenanceService provides maintenance request and counter operations.
type MaintenanceService struct {
	DB     *gorm.DB
	Alerts *alerting.Dispatcher
}

// NewMaintenanceService constructs a MaintenanceService.
func NewMaintenanceService(db *gorm.DB, alerts *alerting.Dispatcher) *MaintenanceService {
	return &MaintenanceService{DB: db, Alerts: alerts}
}

// CreateRequest files a maintenance request against a vehicle.
func (s *MaintenanceService) CreateRequest(ctx context.Context, m *domain.MaintenanceRequest) (*domain.MaintenanceRequest, error) {
	if !domain.ValidCategory(m.Category) {
		return nil, ErrInvalidCategory
	}
	if _, err := repo.GetVehicle(ctx, s.DB, m.VehicleID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if m.RequestedAt.IsZero() {
		m.RequestedAt = time.Now().UTC()
	}
	m.Status = StatusPending
	if err := repo.CreateMaintenanceRequest(ctx, s.DB, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetRequest fetches a maintenance request by ID.
func (s *MaintenanceService) GetRequest(ctx context.Context, id string) (*domain.MaintenanceRequest, error) {
	m, err := repo.GetMaintenanceRequest(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrMaintenanceNotFound
	}
	return m, err
}

// ListRequests returns maintenance requests, optionally scoped to a vehicle.
func (s *MaintenanceService) ListRequests(ctx context.Context, vehicleID string) ([]domain.MaintenanceRequest, error) {
	return repo.ListMaintenanceRequests(ctx, s.DB, vehicleID)
}

// UpdateStatus moves a request through the workflow. On acceptance the
// category's counter resets to the vehicle's current reading in the same
// transaction, and the requester is notified of the decision.
func (s *MaintenanceService) UpdateStatus(ctx context.Context, id, status, actorID string) (*domain.MaintenanceRequest, error) {
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	var out *domain.MaintenanceRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.GetMaintenanceRequest(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrMaintenanceNotFound
			}
			return err
		}

		m.Status = status
		if err := repo.UpdateMaintenanceRequest(ctx, tx, m); err != nil {
			return err
		}

		if status == StatusAccepted {
			v, err := repo.GetVehicle(ctx, tx, m.VehicleID)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return ErrVehicleNotFound
				}
				return err
			}
			if err := repo.ResetCounter(ctx, tx, m.VehicleID, m.Category, v.CurrentKm); err != nil {
				// A request may target a category that predates counter
				// seeding on legacy vehicles; missing counters are tolerated.
				if !errors.Is(err, repo.ErrNotFound) {
					return err
				}
			}
		}

		s.Alerts.Dispatch(ctx, tx, alerting.Event{
			Kind:         "maintenance_decision",
			Severity:     alerting.SeverityInfo,
			Title:        fmt.Sprintf("Maintenance request %s", status),
			Message:      fmt.Sprintf("Your %s request was %s", m.Category, status),
			VehicleID:    m.VehicleID,
			EntityID:     m.ID,
			TargetUserID: m.RequesterID,
			Link:         "/maintenance/" + m.ID,
		})

		out = m
		return repo.CreateActionLog(ctx, tx, &domain.ActionLog{
			Action:   status,
			Entity:   "maintenance_request",
			EntityID: m.ID,
			ActorID:  actorID,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRequest soft-deletes a maintenance request. Counters are untouched;
// a deleted accepted request does not un-reset its category.
func (s *MaintenanceService) DeleteRequest(ctx context.Context, id string) error {
	err := repo.DeleteMaintenanceRequest(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrMaintenanceNotFound
	}
	return err
}

// UpdateInterval tunes the service interval of one vehicle/category counter.
// Interval 0 disables alerts for the category.
func (s *MaintenanceService) UpdateInterval(ctx context.Context, vehicleID string, cat domain.Category, intervalKm int) error {
	if !domain.ValidCategory(cat) {
		return ErrInvalidCategory
	}
	err := repo.UpdateCounterInterval(ctx, s.DB, vehicleID, cat, intervalKm)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrMaintenanceNotFound
	}
	return err
}
