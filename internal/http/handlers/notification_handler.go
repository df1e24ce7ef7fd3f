// Notification feed HTTP handlers.
//
//   - GET /notifications?limit=                  (feed for the caller's role and user id)
//   - GET /logs?entity=&entity_id=&limit=        (audit trail of operator actions)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-fleet-backend/internal/utils"
)

// ListNotifications handles GET /notifications.
func (h *Handlers) ListNotifications(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 50)
	out, err := h.notificationSvc.List(c.Request.Context(), userRole(c), userID(c), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list notifications")
		return
	}
	ok(c, http.StatusOK, out)
}

// ListActionLogs handles GET /logs.
func (h *Handlers) ListActionLogs(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 50)
	out, err := h.notificationSvc.Logs(c.Request.Context(), c.Query("entity"), c.Query("entity_id"), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list action logs")
		return
	}
	ok(c, http.StatusOK, out)
}
