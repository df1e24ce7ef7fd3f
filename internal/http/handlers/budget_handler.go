// Monthly fuel budget HTTP handlers.
//
//   - PUT    /budgets                        (create or revise a forecast)
//   - GET    /budgets?year=&vehicle_id=      (statuses with actual spend)
//   - GET    /budgets/overruns?year=         (vehicle-months over forecast)
//   - GET    /budgets/year-summary           (12-month report for one vehicle)
//   - GET    /budgets/{id}
//   - DELETE /budgets/{id}
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fleet-backend/internal/services"
	"github.com/tbourn/go-fleet-backend/internal/utils"
)

type upsertBudgetRequest struct {
	VehicleID      string  `json:"vehicle_id" binding:"required"`
	Year           int     `json:"year" binding:"required"`
	Month          int     `json:"month" binding:"required"`
	ForecastAmount float64 `json:"forecast_amount" binding:"min=0"`
}

// UpsertBudget handles PUT /budgets.
func (h *Handlers) UpsertBudget(c *gin.Context) {
	var req upsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	out, err := h.budgetSvc.Upsert(c.Request.Context(), req.VehicleID, req.Year, req.Month, req.ForecastAmount)
	switch {
	case errors.Is(err, services.ErrInvalidMonth):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrVehicleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not save budget")
	default:
		ok(c, http.StatusOK, out)
	}
}

// ListBudgets handles GET /budgets.
func (h *Handlers) ListBudgets(c *gin.Context) {
	year := utils.AtoiDefault(c.Query("year"), time.Now().UTC().Year())
	out, err := h.budgetSvc.List(c.Request.Context(), year, c.Query("vehicle_id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list budgets")
		return
	}
	ok(c, http.StatusOK, out)
}

// ListBudgetOverruns handles GET /budgets/overruns.
func (h *Handlers) ListBudgetOverruns(c *gin.Context) {
	year := utils.AtoiDefault(c.Query("year"), time.Now().UTC().Year())
	out, err := h.budgetSvc.ListOverruns(c.Request.Context(), year)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list budget overruns")
		return
	}
	ok(c, http.StatusOK, out)
}

// BudgetYearSummary handles GET /budgets/year-summary?vehicle_id=&year=.
func (h *Handlers) BudgetYearSummary(c *gin.Context) {
	vehicleID := c.Query("vehicle_id")
	if vehicleID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "vehicle_id is required")
		return
	}
	year := utils.AtoiDefault(c.Query("year"), time.Now().UTC().Year())

	out, err := h.budgetSvc.YearSummary(c.Request.Context(), vehicleID, year)
	switch {
	case errors.Is(err, services.ErrVehicleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not build year summary")
	default:
		ok(c, http.StatusOK, out)
	}
}

// GetBudget handles GET /budgets/:id.
func (h *Handlers) GetBudget(c *gin.Context) {
	out, err := h.budgetSvc.GetByID(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrBudgetNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not fetch budget")
	default:
		ok(c, http.StatusOK, out)
	}
}

// DeleteBudget handles DELETE /budgets/:id.
func (h *Handlers) DeleteBudget(c *gin.Context) {
	err := h.budgetSvc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrBudgetNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete budget")
	default:
		noContent(c)
	}
}
