// Driver HTTP handlers.
//
//   - POST   /drivers
//   - GET    /drivers
//   - GET    /drivers/{id}
//   - PUT    /drivers/{id}
//   - DELETE /drivers/{id}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/services"
)

type createDriverRequest struct {
	FirstName         string  `json:"first_name" binding:"required"`
	LastName          string  `json:"last_name" binding:"required"`
	Email             string  `json:"email" binding:"required,email"`
	Phone             string  `json:"phone"`
	LicenseNo         string  `json:"license_no"`
	AssignedVehicleID *string `json:"assigned_vehicle_id"`
}

type updateDriverRequest struct {
	FirstName         *string `json:"first_name"`
	LastName          *string `json:"last_name"`
	Email             *string `json:"email"`
	Phone             *string `json:"phone"`
	LicenseNo         *string `json:"license_no"`
	Status            *string `json:"status"`
	AssignedVehicleID *string `json:"assigned_vehicle_id"`
}

// CreateDriver handles POST /drivers.
func (h *Handlers) CreateDriver(c *gin.Context) {
	var req createDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	out, err := h.driverSvc.Create(c.Request.Context(), &domain.Driver{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		LicenseNo:         req.LicenseNo,
		AssignedVehicleID: req.AssignedVehicleID,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create driver")
		return
	}
	ok(c, http.StatusCreated, out)
}

// ListDrivers handles GET /drivers.
func (h *Handlers) ListDrivers(c *gin.Context) {
	out, err := h.driverSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list drivers")
		return
	}
	ok(c, http.StatusOK, out)
}

// GetDriver handles GET /drivers/:id.
func (h *Handlers) GetDriver(c *gin.Context) {
	out, err := h.driverSvc.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrDriverNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not fetch driver")
	default:
		ok(c, http.StatusOK, out)
	}
}

// UpdateDriver handles PUT /drivers/:id.
func (h *Handlers) UpdateDriver(c *gin.Context) {
	var req updateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	out, err := h.driverSvc.Update(c.Request.Context(), c.Param("id"), func(d *domain.Driver) {
		if req.FirstName != nil {
			d.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			d.LastName = *req.LastName
		}
		if req.Email != nil {
			d.Email = *req.Email
		}
		if req.Phone != nil {
			d.Phone = *req.Phone
		}
		if req.LicenseNo != nil {
			d.LicenseNo = *req.LicenseNo
		}
		if req.Status != nil {
			d.Status = *req.Status
		}
		if req.AssignedVehicleID != nil {
			d.AssignedVehicleID = req.AssignedVehicleID
		}
	})
	switch {
	case errors.Is(err, services.ErrDriverNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update driver")
	default:
		ok(c, http.StatusOK, out)
	}
}

// DeleteDriver handles DELETE /drivers/:id.
func (h *Handlers) DeleteDriver(c *gin.Context) {
	err := h.driverSvc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrDriverNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete driver")
	default:
		noContent(c)
	}
}
