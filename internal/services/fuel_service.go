// Package services – FuelService
//
// This file implements the fuel-entry pipeline, the core write path of the
// application. A submitted purchase is derived (distance, quantities, cost
// and consumption ratios, balances), classified against the vehicle's tank
// capacity, and persisted together with a monotonic odometer advance and an
// evaluation of every mileage-threshold counter, all inside one transaction.
// Alerts raised inside the transaction write their in-app notification with
// the transaction handle, so they commit or roll back with the entry.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/alerting"
	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/fuel"
	"github.com/tbourn/go-fleet-backend/internal/oneshot"
	"github.com/tbourn/go-fleet-backend/internal/repo"
)

// FuelInput carries the raw operator inputs of one fuel purchase.
type FuelInput struct {
	VehicleID       string
	DriverID        string
	Date            time.Time
	Station         string
	Product         string
	PreviousKm      int
	CurrentKm       int
	UnitPrice       float64
	AmountPaid      float64
	AmountRecharged float64
	PriorBalance    float64
	TicketNo        string
	TicketBalance   float64
}

// FuelService provides fuel-entry operations.
type FuelService struct {
	DB     *gorm.DB
	Alerts *alerting.Dispatcher

	// Budgets, when set, is asked to re-check the affected vehicle-month
	// after a fuel write commits.
	Budgets *BudgetService
}

// NewFuelService constructs a FuelService.
func NewFuelService(db *gorm.DB, alerts *alerting.Dispatcher) *FuelService {
	return &FuelService{DB: db, Alerts: alerts}
}

// Create records a fuel purchase. In one transaction it persists the entry
// with all derived fields, advances the vehicle odometer monotonically, and
// evaluates every maintenance counter against the effective reading. An
// anomaly classification or a counter crossing raises alerts through the
// dispatcher.
func (s *FuelService) Create(ctx context.Context, in FuelInput) (*domain.FuelEntry, error) {
	if _, err := repo.GetDriver(ctx, s.DB, in.DriverID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}

	var entry *domain.FuelEntry
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := repo.GetVehicle(ctx, tx, in.VehicleID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrVehicleNotFound
			}
			return err
		}

		e := buildEntry(in, v.TankCapacity)
		if err := repo.CreateFuelEntry(ctx, tx, e); err != nil {
			return err
		}

		effective, err := repo.AdvanceVehicleKm(ctx, tx, v.ID, in.CurrentKm)
		if err != nil {
			return err
		}

		s.dispatchAnomaly(ctx, tx, v, e)

		if err := s.evaluateCounters(ctx, tx, v, effective); err != nil {
			return err
		}

		entry = e
		return repo.CreateActionLog(ctx, tx, &domain.ActionLog{
			Action:   "create",
			Entity:   "fuel_entry",
			EntityID: e.ID,
			ActorID:  in.DriverID,
		})
	})
	if err != nil {
		return nil, err
	}
	s.checkBudget(ctx, entry)
	return entry, nil
}

// dispatchAnomaly raises the tank-capacity alert for an entry classified
// Overrun. Classification is a property of the stored snapshot, so any write
// that produces an Overrun entry alerts, whether it is a fresh purchase or an
// edit that reclassified one.
func (s *FuelService) dispatchAnomaly(ctx context.Context, tx *gorm.DB, v *domain.Vehicle, e *domain.FuelEntry) {
	if e.FuelStatus != string(fuel.StatusOverrun) {
		return
	}
	s.Alerts.Dispatch(ctx, tx, alerting.Event{
		Kind:       "fuel_anomaly",
		Severity:   alerting.SeverityWarning,
		Title:      "Fuel quantity anomaly",
		Message:    fmt.Sprintf("Vehicle %s: purchased quantity %.2f L exceeds tank capacity %.2f L", v.Registration, e.QuantityPurchased, e.TankCapacity),
		VehicleID:  v.ID,
		EntityID:   e.ID,
		TargetRole: "manager",
		Link:       "/fuel/" + e.ID,
	})
}

// checkBudget re-evaluates the budget of the entry's vehicle-month. The entry
// is already committed, so a failed check is logged rather than surfaced.
func (s *FuelService) checkBudget(ctx context.Context, e *domain.FuelEntry) {
	if s.Budgets == nil || e == nil {
		return
	}
	y, m, _ := e.Date.UTC().Date()
	if err := s.Budgets.CheckMonth(ctx, e.VehicleID, y, int(m)); err != nil {
		log.Warn().Err(err).
			Str("vehicle_id", e.VehicleID).
			Int("year", y).
			Int("month", int(m)).
			Msg("budget check after fuel write failed")
	}
}

// buildEntry computes the stored snapshot for a purchase: raw inputs, every
// derived field, and the anomaly classification against the capacity known
// at purchase time.
func buildEntry(in FuelInput, tankCapacity float64) *domain.FuelEntry {
	d := fuel.Derive(fuel.Inputs{
		PreviousKm:      in.PreviousKm,
		CurrentKm:       in.CurrentKm,
		UnitPrice:       in.UnitPrice,
		AmountPaid:      in.AmountPaid,
		AmountRecharged: in.AmountRecharged,
		PriorBalance:    in.PriorBalance,
		TicketBalance:   in.TicketBalance,
	})
	status, note := fuel.Classify(d.QuantityPurchased, tankCapacity)

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	return &domain.FuelEntry{
		VehicleID:       in.VehicleID,
		DriverID:        in.DriverID,
		Date:            date,
		Station:         in.Station,
		Product:         in.Product,
		PreviousKm:      in.PreviousKm,
		CurrentKm:       in.CurrentKm,
		UnitPrice:       in.UnitPrice,
		AmountPaid:      in.AmountPaid,
		AmountRecharged: in.AmountRecharged,
		PriorBalance:    in.PriorBalance,
		TicketNo:        in.TicketNo,
		TicketBalance:   in.TicketBalance,
		TankCapacity:    tankCapacity,

		DistanceKm:        d.DistanceKm,
		QuantityPurchased: d.QuantityPurchased,
		QuantityRecharged: d.QuantityRecharged,
		CostPerKm:         d.CostPerKm,
		ConsumptionPer100: d.ConsumptionPer100,
		NewBalance:        d.NewBalance,
		RemainingQuantity: d.RemainingQuantity,
		RangePurchased:    d.RangePurchased,
		RangeRemaining:    d.RangeRemaining,
		BalanceDiff:       d.BalanceDiff,

		FuelStatus:  string(status),
		AnomalyNote: note,
	}
}

// evaluateCounters runs the one-shot machine for every counter of the vehicle
// at the given odometer reading. Counters with a zero interval never fire.
func (s *FuelService) evaluateCounters(ctx context.Context, tx *gorm.DB, v *domain.Vehicle, km int) error {
	counters, err := repo.ListCounters(ctx, tx, v.ID)
	if err != nil {
		return err
	}
	for _, c := range counters {
		if c.IntervalKm <= 0 {
			continue
		}
		due := km >= c.LastServiceKm+c.IntervalKm
		fire, next := oneshot.Fire(c.AlertState, due)
		if next != c.AlertState {
			if err := repo.UpdateCounterState(ctx, tx, c.ID, next); err != nil {
				return err
			}
		}
		if fire {
			s.Alerts.Dispatch(ctx, tx, alerting.Event{
				Kind:       "maintenance_due",
				Severity:   alerting.SeverityWarning,
				Title:      fmt.Sprintf("Maintenance due: %s", c.Category),
				Message:    fmt.Sprintf("Vehicle %s reached %d km; %s was last serviced at %d km (interval %d km)", v.Registration, km, c.Category, c.LastServiceKm, c.IntervalKm),
				VehicleID:  v.ID,
				EntityID:   c.ID,
				TargetRole: "manager",
				Link:       "/vehicles/" + v.ID + "/maintenance",
			})
		}
	}
	return nil
}

// Get fetches a fuel entry by ID.
func (s *FuelService) Get(ctx context.Context, id string) (*domain.FuelEntry, error) {
	e, err := repo.GetFuelEntry(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrFuelEntryNotFound
	}
	return e, err
}

// List returns fuel entries newest first, optionally scoped to one vehicle.
func (s *FuelService) List(ctx context.Context, vehicleID string) ([]domain.FuelEntry, error) {
	return repo.ListFuelEntries(ctx, s.DB, vehicleID)
}

// Update replaces the raw inputs of an entry and re-derives every computed
// field from scratch. Classification runs against the capacity snapshot taken
// at purchase time, so editing inputs can clear or set the anomaly flag. The
// odometer advance and counter evaluation re-run with the new reading.
func (s *FuelService) Update(ctx context.Context, id string, in FuelInput) (*domain.FuelEntry, error) {
	var entry *domain.FuelEntry
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := repo.GetFuelEntry(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrFuelEntryNotFound
			}
			return err
		}

		v, err := repo.GetVehicle(ctx, tx, e.VehicleID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrVehicleNotFound
			}
			return err
		}

		in.VehicleID = e.VehicleID
		if in.DriverID == "" {
			in.DriverID = e.DriverID
		}
		fresh := buildEntry(in, e.TankCapacity)
		fresh.ID = e.ID
		fresh.CreatedAt = e.CreatedAt
		if err := repo.UpdateFuelEntry(ctx, tx, fresh); err != nil {
			return err
		}

		s.dispatchAnomaly(ctx, tx, v, fresh)

		effective, err := repo.AdvanceVehicleKm(ctx, tx, e.VehicleID, in.CurrentKm)
		if err != nil {
			return err
		}
		if err := s.evaluateCounters(ctx, tx, v, effective); err != nil {
			return err
		}

		entry = fresh
		return repo.CreateActionLog(ctx, tx, &domain.ActionLog{
			Action:   "update",
			Entity:   "fuel_entry",
			EntityID: e.ID,
			ActorID:  in.DriverID,
		})
	})
	if err != nil {
		return nil, err
	}
	s.checkBudget(ctx, entry)
	return entry, nil
}

// Delete soft-deletes a fuel entry. The odometer is not rolled back; readings
// only ever move forward.
func (s *FuelService) Delete(ctx context.Context, id string) error {
	err := repo.DeleteFuelEntry(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrFuelEntryNotFound
	}
	return err
}
