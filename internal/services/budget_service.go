// Package services – BudgetService
//
// This file implements monthly fuel budget management and overrun monitoring.
// The overrun alert is one-shot per forecast value: it fires when actual
// spend strictly exceeds the forecast, then stays quiet until the forecast
// is revised, which re-arms it.
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/alerting"
	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/oneshot"
	"github.com/tbourn/go-fleet-backend/internal/repo"
)

// BudgetService provides monthly fuel budget operations.
type BudgetService struct {
	DB     *gorm.DB
	Alerts *alerting.Dispatcher
}

// NewBudgetService constructs a BudgetService.
func NewBudgetService(db *gorm.DB, alerts *alerting.Dispatcher) *BudgetService {
	return &BudgetService{DB: db, Alerts: alerts}
}

// BudgetStatus is one vehicle-month budget with its actual spend.
type BudgetStatus struct {
	Budget   domain.MonthlyFuelBudget `json:"budget"`
	Consumed float64                  `json:"consumed"`
	Diff     float64                  `json:"diff"` // forecast - consumed; negative when over
	Overrun  bool                     `json:"overrun"`
}

// MonthSummary is one line of a vehicle's year report.
type MonthSummary struct {
	Month    int     `json:"month"`
	Forecast float64 `json:"forecast"`
	Consumed float64 `json:"consumed"`
	Diff     float64 `json:"diff"`
	Overrun  bool    `json:"overrun"`
}

// YearReport aggregates a vehicle's budgets and spend over a calendar year.
type YearReport struct {
	VehicleID     string         `json:"vehicle_id"`
	Year          int            `json:"year"`
	Months        []MonthSummary `json:"months"`
	TotalForecast float64        `json:"total_forecast"`
	TotalConsumed float64        `json:"total_consumed"`
	Balance       float64        `json:"balance"` // total forecast - total consumed
}

// Upsert creates or revises the forecast for one vehicle-month. Revising the
// forecast amount re-arms the overrun alert, then the month is immediately
// re-checked so a still-over month alerts again against the new forecast.
func (s *BudgetService) Upsert(ctx context.Context, vehicleID string, year, month int, forecast float64) (*domain.MonthlyFuelBudget, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	if _, err := repo.GetVehicle(ctx, s.DB, vehicleID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	b, err := repo.GetBudget(ctx, s.DB, vehicleID, year, month)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		b = &domain.MonthlyFuelBudget{
			VehicleID:      vehicleID,
			Year:           year,
			Month:          month,
			ForecastAmount: forecast,
			AlertState:     oneshot.StateNotDue,
		}
		if err := repo.CreateBudget(ctx, s.DB, b); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if b.ForecastAmount != forecast {
			b.ForecastAmount = forecast
			b.AlertState = oneshot.Reset()
			if err := repo.UpdateBudget(ctx, s.DB, b); err != nil {
				return nil, err
			}
		}
	}

	if err := s.CheckOverrun(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// CheckOverrun compares a budget's actual spend with its forecast and raises
// the one-shot overrun alert when spend strictly exceeds the forecast.
func (s *BudgetService) CheckOverrun(ctx context.Context, b *domain.MonthlyFuelBudget) error {
	consumed, err := repo.SumMonthlySpend(ctx, s.DB, b.VehicleID, b.Year, b.Month)
	if err != nil {
		return err
	}

	over := b.ForecastAmount > 0 && consumed > b.ForecastAmount
	fire, next := oneshot.Fire(b.AlertState, over)
	if next != b.AlertState {
		if err := repo.MarkBudgetAlerted(ctx, s.DB, b.ID); err != nil {
			return err
		}
		b.AlertState = next
	}
	if fire {
		pct := (consumed/b.ForecastAmount - 1) * 100
		s.Alerts.Dispatch(ctx, s.DB, alerting.Event{
			Kind:       "budget_overrun",
			Severity:   alerting.SeverityWarning,
			Title:      fmt.Sprintf("Fuel budget exceeded: %d/%02d", b.Year, b.Month),
			Message:    fmt.Sprintf("Spend %.2f exceeds forecast %.2f by %.1f%%", consumed, b.ForecastAmount, pct),
			VehicleID:  b.VehicleID,
			EntityID:   b.ID,
			TargetRole: "manager",
			Link:       "/budgets/" + b.ID,
		})
	}
	return nil
}

// CheckMonth re-evaluates the budget covering one vehicle-month, if any.
// Months without a budget row are a no-op. Fuel writes call this after their
// transaction commits so a purchase that tips the month over the forecast
// raises the overrun alert immediately.
func (s *BudgetService) CheckMonth(ctx context.Context, vehicleID string, year, month int) error {
	b, err := repo.GetBudget(ctx, s.DB, vehicleID, year, month)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.CheckOverrun(ctx, b)
}

// Get fetches the budget of one vehicle-month with its actual spend.
func (s *BudgetService) Get(ctx context.Context, vehicleID string, year, month int) (*BudgetStatus, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	b, err := repo.GetBudget(ctx, s.DB, vehicleID, year, month)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrBudgetNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.status(ctx, b)
}

// GetByID fetches one budget row by primary key with its actual spend.
func (s *BudgetService) GetByID(ctx context.Context, id string) (*BudgetStatus, error) {
	b, err := repo.GetBudgetByID(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrBudgetNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.status(ctx, b)
}

func (s *BudgetService) status(ctx context.Context, b *domain.MonthlyFuelBudget) (*BudgetStatus, error) {
	consumed, err := repo.SumMonthlySpend(ctx, s.DB, b.VehicleID, b.Year, b.Month)
	if err != nil {
		return nil, err
	}
	return &BudgetStatus{
		Budget:   *b,
		Consumed: consumed,
		Diff:     b.ForecastAmount - consumed,
		Overrun:  b.ForecastAmount > 0 && consumed > b.ForecastAmount,
	}, nil
}

// List returns budget statuses for a year, optionally scoped to a vehicle.
func (s *BudgetService) List(ctx context.Context, year int, vehicleID string) ([]BudgetStatus, error) {
	budgets, err := repo.ListBudgets(ctx, s.DB, year, vehicleID)
	if err != nil {
		return nil, err
	}
	out := make([]BudgetStatus, 0, len(budgets))
	for i := range budgets {
		st, err := s.status(ctx, &budgets[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, nil
}

// ListOverruns returns every vehicle-month of a year where actual spend
// strictly exceeds the forecast.
func (s *BudgetService) ListOverruns(ctx context.Context, year int) ([]BudgetStatus, error) {
	all, err := s.List(ctx, year, "")
	if err != nil {
		return nil, err
	}
	out := make([]BudgetStatus, 0)
	for _, st := range all {
		if st.Overrun {
			out = append(out, st)
		}
	}
	return out, nil
}

// YearSummary builds the twelve-month budget report of one vehicle. Months
// without a budget row appear with a zero forecast.
func (s *BudgetService) YearSummary(ctx context.Context, vehicleID string, year int) (*YearReport, error) {
	if _, err := repo.GetVehicle(ctx, s.DB, vehicleID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	budgets, err := repo.ListBudgets(ctx, s.DB, year, vehicleID)
	if err != nil {
		return nil, err
	}
	forecastByMonth := make(map[int]float64, len(budgets))
	for _, b := range budgets {
		forecastByMonth[b.Month] = b.ForecastAmount
	}

	// One scan of the year's entries instead of twelve monthly aggregates.
	entries, err := repo.ListFuelEntriesForYear(ctx, s.DB, vehicleID, year)
	if err != nil {
		return nil, err
	}
	consumedByMonth := make(map[int]float64, 12)
	for _, e := range entries {
		consumedByMonth[int(e.Date.UTC().Month())] += e.AmountPaid
	}

	rep := &YearReport{VehicleID: vehicleID, Year: year, Months: make([]MonthSummary, 0, 12)}
	for m := 1; m <= 12; m++ {
		consumed := consumedByMonth[m]
		forecast := forecastByMonth[m]
		rep.Months = append(rep.Months, MonthSummary{
			Month:    m,
			Forecast: forecast,
			Consumed: consumed,
			Diff:     forecast - consumed,
			Overrun:  forecast > 0 && consumed > forecast,
		})
		rep.TotalForecast += forecast
		rep.TotalConsumed += consumed
	}
	rep.Balance = rep.TotalForecast - rep.TotalConsumed
	return rep, nil
}

// Delete removes a budget row.
func (s *BudgetService) Delete(ctx context.Context, id string) error {
	err := repo.DeleteBudget(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrBudgetNotFound
	}
	return err
}
