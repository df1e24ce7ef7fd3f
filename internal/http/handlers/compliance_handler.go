// Compliance document HTTP handlers.
//
//   - POST   /compliance           (attach a document)
//   - GET    /compliance           (list, optionally ?vehicle_id=)
//   - GET    /compliance/{id}
//   - PUT    /compliance/{id}      (edit; new expiry re-arms the alert)
//   - DELETE /compliance/{id}
//   - POST   /compliance/scan      (run one expiry sweep on demand)
//   - GET    /compliance/alerts    (expired or expiring within 30 days)
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/services"
)

type complianceDocumentRequest struct {
	VehicleID  string     `json:"vehicle_id" binding:"required"`
	Type       string     `json:"type" binding:"required"`
	DocumentNo string     `json:"document_no"`
	IssuedAt   *time.Time `json:"issued_at"`
	ExpiresAt  time.Time  `json:"expires_at" binding:"required"`
	Provider   string     `json:"provider"`
	Cost       float64    `json:"cost"`
	Notes      string     `json:"notes"`
}

// CreateComplianceDocument handles POST /compliance.
func (h *Handlers) CreateComplianceDocument(c *gin.Context) {
	var req complianceDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	out, err := h.complianceSvc.Create(c.Request.Context(), &domain.ComplianceDocument{
		VehicleID:  req.VehicleID,
		Type:       req.Type,
		DocumentNo: req.DocumentNo,
		IssuedAt:   req.IssuedAt,
		ExpiresAt:  req.ExpiresAt,
		Provider:   req.Provider,
		Cost:       req.Cost,
		Notes:      req.Notes,
	})
	switch {
	case errors.Is(err, services.ErrInvalidExpiry):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrVehicleNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create compliance document")
	default:
		ok(c, http.StatusCreated, out)
	}
}

// ListComplianceDocuments handles GET /compliance.
func (h *Handlers) ListComplianceDocuments(c *gin.Context) {
	out, err := h.complianceSvc.List(c.Request.Context(), c.Query("vehicle_id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list compliance documents")
		return
	}
	ok(c, http.StatusOK, out)
}

// GetComplianceDocument handles GET /compliance/:id.
func (h *Handlers) GetComplianceDocument(c *gin.Context) {
	out, err := h.complianceSvc.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrDocumentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not fetch compliance document")
	default:
		ok(c, http.StatusOK, out)
	}
}

type updateComplianceRequest struct {
	Type       *string    `json:"type"`
	DocumentNo *string    `json:"document_no"`
	IssuedAt   *time.Time `json:"issued_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	Provider   *string    `json:"provider"`
	Cost       *float64   `json:"cost"`
	Status     *string    `json:"status"`
	Notes      *string    `json:"notes"`
}

// UpdateComplianceDocument handles PUT /compliance/:id.
func (h *Handlers) UpdateComplianceDocument(c *gin.Context) {
	var req updateComplianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	out, err := h.complianceSvc.Update(c.Request.Context(), c.Param("id"), func(d *domain.ComplianceDocument) {
		if req.Type != nil {
			d.Type = *req.Type
		}
		if req.DocumentNo != nil {
			d.DocumentNo = *req.DocumentNo
		}
		if req.IssuedAt != nil {
			d.IssuedAt = req.IssuedAt
		}
		if req.ExpiresAt != nil {
			d.ExpiresAt = *req.ExpiresAt
		}
		if req.Provider != nil {
			d.Provider = *req.Provider
		}
		if req.Cost != nil {
			d.Cost = *req.Cost
		}
		if req.Status != nil {
			d.Status = *req.Status
		}
		if req.Notes != nil {
			d.Notes = *req.Notes
		}
	})
	switch {
	case errors.Is(err, services.ErrDocumentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidExpiry):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update compliance document")
	default:
		ok(c, http.StatusOK, out)
	}
}

// DeleteComplianceDocument handles DELETE /compliance/:id.
func (h *Handlers) DeleteComplianceDocument(c *gin.Context) {
	err := h.complianceSvc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, services.ErrDocumentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not delete compliance document")
	default:
		noContent(c)
	}
}

// ScanCompliance handles POST /compliance/scan. It runs one expiry sweep and
// reports how many alerts were raised.
func (h *Handlers) ScanCompliance(c *gin.Context) {
	fired, err := h.complianceSvc.Scan(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeScanFailed, "compliance scan failed")
		return
	}
	ok(c, http.StatusOK, gin.H{"alerts_fired": fired})
}

// ListComplianceAlerts handles GET /compliance/alerts.
func (h *Handlers) ListComplianceAlerts(c *gin.Context) {
	out, err := h.complianceSvc.ListAlerts(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list compliance alerts")
		return
	}
	ok(c, http.StatusOK, out)
}
