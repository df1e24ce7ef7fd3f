// Maintenance HTTP handlers.
//
//   - POST /maintenance               (file a request)
//   - GET  /maintenance               (list, optionally ?vehicle_id=)
//   - GET  /maintenance/{id}
//   - PUT  /maintenance/{id}/status   (workflow decision; accept resets counter)
//   - DELETE /maintenance/{id}
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/services"
)

type createMaintenanceRequest struct {
	VehicleID   string    `json:"vehicle_id" binding:"required"`
	Category    string    `json:"category" binding:"required"`
	Description string    `json:"description" binding:"required"`
	PlannedFor  time.Time `json:"planned_for"`
	Km          int       `json:"km"`
	Cost        float64   `json:"cost"`
	Provider    string    `json:"provider"`
}

// CreateMaintenanceRequest handles POST /maintenance.
func (h *Handlers) CreateMaintenanceRequest(c *gin.Context) {
	var req createMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	out, err := h.maintenanceSvc.CreateRequest(c.Request.Context(), &domain.MaintenanceRequest{
		VehicleID:   req.VehicleID,
		Category:    domain.Category(req.Category),
		Description: req.Description,
		PlannedFor:  req.PlannedFor,
		Km:          req.Km,
		Cost:        req.Cost,
		Provider:    req.Provider,
		RequesterID: userID(c),
	})
	switch {
	case errors.Is(err, services.ErrInvalidCategory):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrVehicleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create maintenance request")
	default:
		ok(c, http.StatusCreated, out)
	}
}

// ListMaintenanceRequests handles GET /maintenance.
func (h *Handlers) ListMaintenanceRequests(c *gin.Context) {
	out, err := h.maintenanceSvc.ListRequests(c.Request.Context(), c.Query("vehicle_id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list maintenance requests")
		return
	}
	ok(c, http.StatusOK, out)
}

// GetMaintenanceRequest handles GET /maintenance/:id.
func (h *Handlers) GetMaintenanceRequest(c *gin.Context) {
	out, err := h.maintenanceSvc.GetRequest(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrMaintenanceNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not fetch maintenance request")
	default:
		ok(c, http.StatusOK, out)
	}
}

type maintenanceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateMaintenanceStatus handles PUT /maintenance/:id/status.
func (h *Handlers) UpdateMaintenanceStatus(c *gin.Context) {
	var req maintenanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	out, err := h.maintenanceSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, userID(c))
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrMaintenanceNotFound), errors.Is(err, services.ErrVehicleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update maintenance status")
	default:
		ok(c, http.StatusOK, out)
	}
}

// DeleteMaintenanceRequest handles DELETE /maintenance/:id.
func (h *Handlers) DeleteMaintenanceRequest(c *gin.Context) {
	err := h.maintenanceSvc.DeleteRequest(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrMaintenanceNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete maintenance request")
	default:
		noContent(c)
	}
}
