// Vehicle HTTP handlers.
//
// This file exposes REST endpoints for the fleet roster:
//   - POST   /vehicles                          (create, seeds counters)
//   - GET    /vehicles                          (list)
//   - GET    /vehicles/{id}                     (fetch)
//   - PUT    /vehicles/{id}                     (update descriptive fields)
//   - DELETE /vehicles/{id}                     (soft delete)
//   - GET    /vehicles/{id}/counters            (maintenance counters)
//   - PUT    /vehicles/{id}/counters/{category} (tune interval)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/services"
)

type createVehicleRequest struct {
	Registration string  `json:"registration" binding:"required"`
	Make         string  `json:"make" binding:"required"`
	Model        string  `json:"model" binding:"required"`
	TankCapacity float64 `json:"tank_capacity"`
	CurrentKm    int     `json:"current_km"`
	Status       string  `json:"status"`
}

type updateVehicleRequest struct {
	Make         *string  `json:"make"`
	Model        *string  `json:"model"`
	TankCapacity *float64 `json:"tank_capacity"`
	Status       *string  `json:"status"`
}

// CreateVehicle handles POST /vehicles.
func (h *Handlers) CreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	v := &domain.Vehicle{
		Registration: req.Registration,
		Make:         req.Make,
		Model:        req.Model,
		TankCapacity: req.TankCapacity,
		CurrentKm:    req.CurrentKm,
	}
	if req.Status != "" {
		v.Status = req.Status
	}

	out, err := h.vehicleSvc.Create(c.Request.Context(), v)
	switch {
	case errors.Is(err, services.ErrDuplicateRegistration):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create vehicle")
	default:
		ok(c, http.StatusCreated, out)
	}
}

// ListVehicles handles GET /vehicles.
func (h *Handlers) ListVehicles(c *gin.Context) {
	out, err := h.vehicleSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list vehicles")
		return
	}
	ok(c, http.StatusOK, out)
}

// GetVehicle handles GET /vehicles/:id.
func (h *Handlers) GetVehicle(c *gin.Context) {
	out, err := h.vehicleSvc.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrVehicleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not fetch vehicle")
	default:
		ok(c, http.StatusOK, out)
	}
}

// UpdateVehicle handles PUT /vehicles/:id.
func (h *Handlers) UpdateVehicle(c *gin.Context) {
	var req updateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	out, err := h.vehicleSvc.Update(c.Request.Context(), c.Param("id"), func(v *domain.Vehicle) {
		if req.Make != nil {
			v.Make = *req.Make
		}
		if req.Model != nil {
			v.Model = *req.Model
		}
		if req.TankCapacity != nil {
			v.TankCapacity = *req.TankCapacity
		}
		if req.Status != nil {
			v.Status = *req.Status
		}
	})
	switch {
	case errors.Is(err, services.ErrVehicleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update vehicle")
	default:
		ok(c, http.StatusOK, out)
	}
}

// DeleteVehicle handles DELETE /vehicles/:id.
func (h *Handlers) DeleteVehicle(c *gin.Context) {
	err := h.vehicleSvc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrVehicleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete vehicle")
	default:
		noContent(c)
	}
}

// ListCounters handles GET /vehicles/:id/counters.
func (h *Handlers) ListCounters(c *gin.Context) {
	out, err := h.vehicleSvc.Counters(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrVehicleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list counters")
	default:
		ok(c, http.StatusOK, out)
	}
}

type updateIntervalRequest struct {
	IntervalKm int `json:"interval_km" binding:"min=0"`
}

// UpdateCounterInterval handles PUT /vehicles/:id/counters/:category.
func (h *Handlers) UpdateCounterInterval(c *gin.Context) {
	var req updateIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	err := h.maintenanceSvc.UpdateInterval(c.Request.Context(), c.Param("id"), domain.Category(c.Param("category")), req.IntervalKm)
	switch {
	case errors.Is(err, services.ErrInvalidCategory):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrMaintenanceNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update interval")
	default:
		noContent(c)
	}
}
