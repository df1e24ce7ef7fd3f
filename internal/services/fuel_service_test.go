package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-fleet-backend/internal/alerting"
	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/fuel"
	"github.com/tbourn/go-fleet-backend/internal/oneshot"
	"github.com/tbourn/go-fleet-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:fleetsvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// newTestDispatcher builds a dispatcher with no outbound notifiers; events
// still land in the notifications table.
func newTestDispatcher() *alerting.Dispatcher {
	return alerting.NewDispatcher(nil, 1, 4, time.Second)
}

func seedFleet(t *testing.T, db *gorm.DB, tankCapacity float64, startKm int) (*domain.Vehicle, *domain.Driver) {
	t.Helper()
	vsvc := NewVehicleService(db)
	v, err := vsvc.Create(context.Background(), &domain.Vehicle{
		Registration: fmt.Sprintf("TEST-%s", uuid.NewString()[:8]),
		Make:         "Renault",
		Model:        "Master",
		TankCapacity: tankCapacity,
		CurrentKm:    startKm,
	})
	if err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	d := &domain.Driver{FirstName: "Ana", LastName: "Petrov", Email: "ana@example.com"}
	if err := repo.CreateDriver(context.Background(), db, d); err != nil {
		t.Fatalf("seed driver: %v", err)
	}
	return v, d
}

func countNotifications(t *testing.T, db *gorm.DB, role string) int {
	t.Helper()
	rows, err := repo.ListNotifications(context.Background(), db, role, "", 100)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	return len(rows)
}

func TestFuelCreate_DerivesAndAdvancesOdometer(t *testing.T) {
	db := newTestDB(t)
	v, d := seedFleet(t, db, 80, 10000)
	svc := NewFuelService(db, newTestDispatcher())

	e, err := svc.Create(context.Background(), FuelInput{
		VehicleID:  v.ID,
		DriverID:   d.ID,
		Date:       time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		PreviousKm: 10000,
		CurrentKm:  10500,
		UnitPrice:  2.0,
		AmountPaid: 100,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if e.DistanceKm != 500 {
		t.Fatalf("distance = %d, want 500", e.DistanceKm)
	}
	if e.QuantityPurchased != 50 {
		t.Fatalf("quantity = %v, want 50", e.QuantityPurchased)
	}
	if e.FuelStatus != string(fuel.StatusNormal) {
		t.Fatalf("status = %q, want Normal", e.FuelStatus)
	}

	stored, err := repo.GetVehicle(context.Background(), db, v.ID)
	if err != nil {
		t.Fatalf("GetVehicle: %v", err)
	}
	if stored.CurrentKm != 10500 {
		t.Fatalf("odometer = %d, want 10500", stored.CurrentKm)
	}
}

func TestFuelCreate_AnomalyRaisesAlert(t *testing.T) {
	db := newTestDB(t)
	v, d := seedFleet(t, db, 60, 0)
	svc := NewFuelService(db, newTestDispatcher())

	// 200 paid at 2.0/L = 100 L into a 60 L tank.
	e, err := svc.Create(context.Background(), FuelInput{
		VehicleID:  v.ID,
		DriverID:   d.ID,
		CurrentKm:  100,
		UnitPrice:  2.0,
		AmountPaid: 200,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.FuelStatus != string(fuel.StatusOverrun) || e.AnomalyNote == "" {
		t.Fatalf("status=%q note=%q, want Overrun with note", e.FuelStatus, e.AnomalyNote)
	}
	if n := countNotifications(t, db, "manager"); n != 1 {
		t.Fatalf("got %d notifications, want 1", n)
	}
}

func TestFuelCreate_UnknownVehicleOrDriver(t *testing.T) {
	db := newTestDB(t)
	v, d := seedFleet(t, db, 60, 0)
	svc := NewFuelService(db, newTestDispatcher())
	ctx := context.Background()

	if _, err := svc.Create(ctx, FuelInput{VehicleID: "missing", DriverID: d.ID}); !errors.Is(err, ErrVehicleNotFound) {
		t.Fatalf("want ErrVehicleNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, FuelInput{VehicleID: v.ID, DriverID: "missing"}); !errors.Is(err, ErrDriverNotFound) {
		t.Fatalf("want ErrDriverNotFound, got %v", err)
	}
}

func TestFuelCreate_ThresholdFiresOncePerCrossing(t *testing.T) {
	db := newTestDB(t)
	v, d := seedFleet(t, db, 80, 0)
	svc := NewFuelService(db, newTestDispatcher())
	ctx := context.Background()

	mk := func(prev, cur int) {
		t.Helper()
		if _, err := svc.Create(ctx, FuelInput{VehicleID: v.ID, DriverID: d.ID, PreviousKm: prev, CurrentKm: cur, UnitPrice: 2, AmountPaid: 20}); err != nil {
			t.Fatalf("Create(%d->%d): %v", prev, cur, err)
		}
	}

	// Crosses the 1000 km oil and oil_filter intervals.
	mk(0, 1200)
	if n := countNotifications(t, db, "manager"); n != 2 {
		t.Fatalf("after first crossing: %d notifications, want 2", n)
	}

	// Still past the threshold; the pending counters must stay silent.
	mk(1200, 1400)
	if n := countNotifications(t, db, "manager"); n != 2 {
		t.Fatalf("after second entry: %d notifications, want still 2", n)
	}

	counters, err := repo.ListCounters(ctx, db, v.ID)
	if err != nil {
		t.Fatalf("ListCounters: %v", err)
	}
	for _, c := range counters {
		wantPending := c.Category == domain.CategoryOil || c.Category == domain.CategoryOilFilter
		if oneshot.IsPending(c.AlertState) != wantPending {
			t.Fatalf("counter %s state = %q", c.Category, c.AlertState)
		}
	}
}

func TestFuelCreate_StaleReadingDoesNotRegress(t *testing.T) {
	db := newTestDB(t)
	v, d := seedFleet(t, db, 80, 5000)
	svc := NewFuelService(db, newTestDispatcher())
	ctx := context.Background()

	// Backdated entry with a lower reading.
	if _, err := svc.Create(ctx, FuelInput{VehicleID: v.ID, DriverID: d.ID, PreviousKm: 4000, CurrentKm: 4500, UnitPrice: 2, AmountPaid: 20}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored, err := repo.GetVehicle(ctx, db, v.ID)
	if err != nil {
		t.Fatalf("GetVehicle: %v", err)
	}
	if stored.CurrentKm != 5000 {
		t.Fatalf("odometer = %d, want unchanged 5000", stored.CurrentKm)
	}
}

func TestFuelUpdate_RederivesAndReclassifies(t *testing.T) {
	db := newTestDB(t)
	v, d := seedFleet(t, db, 60, 0)
	svc := NewFuelService(db, newTestDispatcher())
	ctx := context.Background()

	e, err := svc.Create(ctx, FuelInput{VehicleID: v.ID, DriverID: d.ID, CurrentKm: 100, UnitPrice: 2, AmountPaid: 200})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.FuelStatus != string(fuel.StatusOverrun) {
		t.Fatalf("precondition: status = %q", e.FuelStatus)
	}

	// Correcting the amount paid brings the quantity back under capacity;
	// the anomaly flag and note must clear.
	upd, err := svc.Update(ctx, e.ID, FuelInput{
		DriverID:   d.ID,
		Date:       e.Date,
		PreviousKm: 0,
		CurrentKm:  100,
		UnitPrice:  2,
		AmountPaid: 100,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.FuelStatus != string(fuel.StatusNormal) || upd.AnomalyNote != "" {
		t.Fatalf("after update: status=%q note=%q", upd.FuelStatus, upd.AnomalyNote)
	}
	if upd.QuantityPurchased != 50 {
		t.Fatalf("quantity = %v, want 50", upd.QuantityPurchased)
	}
}

func TestFuelDelete_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewFuelService(db, newTestDispatcher())
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrFuelEntryNotFound) {
		t.Fatalf("want ErrFuelEntryNotFound, got %v", err)
	}
}

func TestFuelCreate_TipsMonthlyBudgetOverForecast(t *testing.T) {
	db := newTestDB(t)
	v, d := seedFleet(t, db, 200, 0)

	alerts := newTestDispatcher()
	budgets := NewBudgetService(db, alerts)
	svc := NewFuelService(db, alerts)
	svc.Budgets = budgets

	// Forecast 100 for March 2026; no spend yet, so no alert on upsert.
	if _, err := budgets.Upsert(context.Background(), v.ID, 2026, 3, 100); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	before := countNotifications(t, db, "manager")

	// A purchase of 150 tips the month over the forecast after commit.
	_, err := svc.Create(context.Background(), FuelInput{
		VehicleID:  v.ID,
		DriverID:   d.ID,
		Date:       time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC),
		PreviousKm: 0,
		CurrentKm:  300,
		UnitPrice:  2.0,
		AmountPaid: 150,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	after := countNotifications(t, db, "manager")
	if after != before+1 {
		t.Fatalf("expected one budget overrun notification, got %d new", after-before)
	}

	b, err := repo.GetBudget(context.Background(), db, v.ID, 2026, 3)
	if err != nil {
		t.Fatalf("GetBudget: %v", err)
	}
	if b.AlertState != oneshot.StatePending {
		t.Fatalf("budget alert state = %q, want pending", b.AlertState)
	}

	// A second purchase in the same month stays silent (one-shot).
	_, err = svc.Create(context.Background(), FuelInput{
		VehicleID:  v.ID,
		DriverID:   d.ID,
		Date:       time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC),
		PreviousKm: 300,
		CurrentKm:  500,
		UnitPrice:  2.0,
		AmountPaid: 60,
	})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if got := countNotifications(t, db, "manager"); got != after {
		t.Fatalf("expected no further overrun notification, got %d new", got-after)
	}
}

func TestFuelUpdate_ReclassifiedOverrunAlerts(t *testing.T) {
	db := newTestDB(t)
	v, d := seedFleet(t, db, 60, 0)
	svc := NewFuelService(db, newTestDispatcher())
	ctx := context.Background()

	anomalies := func() int {
		rows, err := repo.ListNotifications(ctx, db, "manager", "", 100)
		if err != nil {
			t.Fatalf("ListNotifications: %v", err)
		}
		n := 0
		for _, r := range rows {
			if r.Title == "Fuel quantity anomaly" {
				n++
			}
		}
		return n
	}

	// 50 L against a 60 L tank: Normal, no alert.
	e, err := svc.Create(ctx, FuelInput{VehicleID: v.ID, DriverID: d.ID, CurrentKm: 100, UnitPrice: 2, AmountPaid: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.FuelStatus != string(fuel.StatusNormal) {
		t.Fatalf("precondition: status = %q", e.FuelStatus)
	}
	if got := anomalies(); got != 0 {
		t.Fatalf("after normal create: %d anomaly alerts, want 0", got)
	}

	// Editing the amount paid doubles the quantity past capacity; the
	// reclassification must alert just like a fresh Overrun purchase.
	upd, err := svc.Update(ctx, e.ID, FuelInput{
		DriverID:   d.ID,
		Date:       e.Date,
		PreviousKm: 0,
		CurrentKm:  100,
		UnitPrice:  2,
		AmountPaid: 200,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.FuelStatus != string(fuel.StatusOverrun) {
		t.Fatalf("after update: status = %q, want Overrun", upd.FuelStatus)
	}
	if got := anomalies(); got != 1 {
		t.Fatalf("after overrun update: %d anomaly alerts, want 1", got)
	}
}
