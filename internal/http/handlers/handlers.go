// Handler wiring.
//
// Handlers groups the HTTP endpoints of the fleet API. Handlers are
// transport-thin: they validate input, call application services, and
// translate service errors into the shared envelope via fail().
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fleet-backend/internal/services"
)

// Handlers groups HTTP endpoints for the fleet API.
type Handlers struct {
	vehicleSvc      *services.VehicleService
	driverSvc       *services.DriverService
	fuelSvc         *services.FuelService
	maintenanceSvc  *services.MaintenanceService
	complianceSvc   *services.ComplianceService
	budgetSvc       *services.BudgetService
	notificationSvc *services.NotificationService
}

// New constructs a Handlers instance bound to the given services.
func New(
	vehicleSvc *services.VehicleService,
	driverSvc *services.DriverService,
	fuelSvc *services.FuelService,
	maintenanceSvc *services.MaintenanceService,
	complianceSvc *services.ComplianceService,
	budgetSvc *services.BudgetService,
	notificationSvc *services.NotificationService,
) *Handlers {
	return &Handlers{
		vehicleSvc:      vehicleSvc,
		driverSvc:       driverSvc,
		fuelSvc:         fuelSvc,
		maintenanceSvc:  maintenanceSvc,
		complianceSvc:   complianceSvc,
		budgetSvc:       budgetSvc,
		notificationSvc: notificationSvc,
	}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to the "X-User-ID" header (tests use
// it), and finally to "demo-user".
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// userRole extracts the caller's role, defaulting to "manager" until a real
// auth layer fills the context.
func userRole(c *gin.Context) string {
	if v, ok := c.Get("userRole"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-Role")); h != "" {
			return h
		}
	}
	return "manager"
}
