package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-fleet-backend/internal/alerting"
	"github.com/tbourn/go-fleet-backend/internal/repo"
	"github.com/tbourn/go-fleet-backend/internal/services"
)

// newHandlerEngine wires real services over an in-memory sqlite database and
// mounts the routes a la router.go, minus the middleware stack.
func newHandlerEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	alerts := alerting.NewDispatcher(nil, 1, 4, time.Second)
	t.Cleanup(alerts.Close)

	h := New(
		services.NewVehicleService(db),
		services.NewDriverService(db),
		services.NewFuelService(db, alerts),
		services.NewMaintenanceService(db, alerts),
		services.NewComplianceService(db, alerts, 5, 24*time.Hour),
		services.NewBudgetService(db, alerts),
		services.NewNotificationService(db),
	)

	r := gin.New()
	r.POST("/vehicles", h.CreateVehicle)
	r.GET("/vehicles", h.ListVehicles)
	r.GET("/vehicles/:id", h.GetVehicle)
	r.PUT("/vehicles/:id", h.UpdateVehicle)
	r.DELETE("/vehicles/:id", h.DeleteVehicle)
	r.GET("/vehicles/:id/counters", h.ListCounters)
	r.PUT("/vehicles/:id/counters/:category", h.UpdateCounterInterval)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateVehicle_Lifecycle(t *testing.T) {
	r, _ := newHandlerEngine(t)

	// Missing required fields -> 400
	w := doJSON(t, r, http.MethodPost, "/vehicles", map[string]any{"registration": "A-1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete body, got %d", w.Code)
	}

	// Valid create -> 201
	w = doJSON(t, r, http.MethodPost, "/vehicles", map[string]any{
		"registration": "A-1", "make": "Suzuki", "model": "Bolan", "current_km": 5000,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID == "" {
		t.Fatalf("bad create response: %s", w.Body.String())
	}

	// Duplicate registration -> 409 conflict envelope
	w = doJSON(t, r, http.MethodPost, "/vehicles", map[string]any{
		"registration": "A-1", "make": "Suzuki", "model": "Bolan",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate, got %d", w.Code)
	}
	var env ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil || env.Code != ErrCodeConflict {
		t.Fatalf("expected conflict envelope, got %s", w.Body.String())
	}

	// Counters were seeded at create time
	w = doJSON(t, r, http.MethodGet, "/vehicles/"+created.ID+"/counters", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("counters = %d", w.Code)
	}
	var counters []struct {
		Category      string `json:"category"`
		LastServiceKm int    `json:"last_service_km"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &counters); err != nil || len(counters) == 0 {
		t.Fatalf("bad counters response: %s", w.Body.String())
	}
	for _, ct := range counters {
		if ct.LastServiceKm != 5000 {
			t.Fatalf("counter %s not anchored at creation km: %d", ct.Category, ct.LastServiceKm)
		}
	}

	// Partial update
	w = doJSON(t, r, http.MethodPut, "/vehicles/"+created.ID, map[string]any{"status": "in_repair"})
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d body=%s", w.Code, w.Body.String())
	}
	var updated struct {
		Status string `json:"status"`
		Make   string `json:"make"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("bad update response: %v", err)
	}
	if updated.Status != "in_repair" || updated.Make != "Suzuki" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	// Delete -> 204, then 404
	w = doJSON(t, r, http.MethodDelete, "/vehicles/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/vehicles/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestUpdateCounterInterval_Validation(t *testing.T) {
	r, _ := newHandlerEngine(t)

	w := doJSON(t, r, http.MethodPost, "/vehicles", map[string]any{
		"registration": "B-2", "make": "Toyota", "model": "Corolla",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d", w.Code)
	}
	var veh struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &veh); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Unknown category -> 400
	w = doJSON(t, r, http.MethodPut, "/vehicles/"+veh.ID+"/counters/warp_core", map[string]any{"interval_km": 9000})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", w.Code)
	}

	// Known category -> 204, and the new interval is visible
	w = doJSON(t, r, http.MethodPut, "/vehicles/"+veh.ID+"/counters/oil", map[string]any{"interval_km": 9000})
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/vehicles/"+veh.ID+"/counters", nil)
	var counters []struct {
		Category   string `json:"category"`
		IntervalKm int    `json:"interval_km"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &counters); err != nil {
		t.Fatalf("decode counters: %v", err)
	}
	found := false
	for _, ct := range counters {
		if ct.Category == "oil" {
			found = true
			if ct.IntervalKm != 9000 {
				t.Fatalf("interval not updated: %d", ct.IntervalKm)
			}
		}
	}
	if !found {
		t.Fatalf("oil counter missing from listing")
	}

	// Unknown vehicle -> 404
	w = doJSON(t, r, http.MethodPut, "/vehicles/"+uuid.NewString()+"/counters/oil", map[string]any{"interval_km": 9000})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown vehicle, got %d", w.Code)
	}
}
