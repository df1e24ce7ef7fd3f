// Fuel entry HTTP handlers.
//
//   - POST   /fuel            (submit a purchase; runs the derivation pipeline)
//   - GET    /fuel            (list, optionally ?vehicle_id=)
//   - GET    /fuel/{id}
//   - PUT    /fuel/{id}       (edit raw inputs; re-derives everything)
//   - DELETE /fuel/{id}
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fleet-backend/internal/services"
)

type fuelEntryRequest struct {
	VehicleID       string    `json:"vehicle_id" binding:"required"`
	DriverID        string    `json:"driver_id" binding:"required"`
	Date            time.Time `json:"date"`
	Station         string    `json:"station"`
	Product         string    `json:"product"`
	PreviousKm      int       `json:"previous_km"`
	CurrentKm       int       `json:"current_km"`
	UnitPrice       float64   `json:"unit_price"`
	AmountPaid      float64   `json:"amount_paid"`
	AmountRecharged float64   `json:"amount_recharged"`
	PriorBalance    float64   `json:"prior_balance"`
	TicketNo        string    `json:"ticket_no"`
	TicketBalance   float64   `json:"ticket_balance"`
}

func (r fuelEntryRequest) input() services.FuelInput {
	return services.FuelInput{
		VehicleID:       r.VehicleID,
		DriverID:        r.DriverID,
		Date:            r.Date,
		Station:         r.Station,
		Product:         r.Product,
		PreviousKm:      r.PreviousKm,
		CurrentKm:       r.CurrentKm,
		UnitPrice:       r.UnitPrice,
		AmountPaid:      r.AmountPaid,
		AmountRecharged: r.AmountRecharged,
		PriorBalance:    r.PriorBalance,
		TicketNo:        r.TicketNo,
		TicketBalance:   r.TicketBalance,
	}
}

// CreateFuelEntry handles POST /fuel.
func (h *Handlers) CreateFuelEntry(c *gin.Context) {
	var req fuelEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	out, err := h.fuelSvc.Create(c.Request.Context(), req.input())
	switch {
	case errors.Is(err, services.ErrVehicleNotFound), errors.Is(err, services.ErrDriverNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not record fuel entry")
	default:
		ok(c, http.StatusCreated, out)
	}
}

// ListFuelEntries handles GET /fuel.
func (h *Handlers) ListFuelEntries(c *gin.Context) {
	out, err := h.fuelSvc.List(c.Request.Context(), c.Query("vehicle_id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list fuel entries")
		return
	}
	ok(c, http.StatusOK, out)
}

// GetFuelEntry handles GET /fuel/:id.
func (h *Handlers) GetFuelEntry(c *gin.Context) {
	out, err := h.fuelSvc.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrFuelEntryNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not fetch fuel entry")
	default:
		ok(c, http.StatusOK, out)
	}
}

// UpdateFuelEntry handles PUT /fuel/:id. The body carries the full raw input
// set; every derived field is recomputed from it.
func (h *Handlers) UpdateFuelEntry(c *gin.Context) {
	var req fuelEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	out, err := h.fuelSvc.Update(c.Request.Context(), c.Param("id"), req.input())
	switch {
	case errors.Is(err, services.ErrFuelEntryNotFound), errors.Is(err, services.ErrVehicleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update fuel entry")
	default:
		ok(c, http.StatusOK, out)
	}
}

// DeleteFuelEntry handles DELETE /fuel/:id.
func (h *Handlers) DeleteFuelEntry(c *gin.Context) {
	err := h.fuelSvc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrFuelEntryNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete fuel entry")
	default:
		noContent(c)
	}
}
