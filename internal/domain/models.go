// Package domain defines the persistence models for the fleet-operations
// backend: vehicles, drivers, fuel entries, maintenance counters and
// requests, compliance documents, monthly fuel budgets, notifications, and
// the audit log. These types are mapped with GORM and form the core data
// layer of the application.
package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/oneshot"
)

// Vehicle is the central fleet entity. CurrentKm is updated monotonically on
// every fuel-entry write (a write never decreases the stored value) and
// drives the mileage-threshold maintenance counters.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Registration: plate number, unique across the fleet.
//   - TankCapacity: declared capacity in liters; 0 when unknown.
//   - CurrentKm: latest odometer reading observed for the vehicle.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Vehicle struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	Registration string         `json:"registration"  gorm:"type:varchar(50);not null;uniqueIndex"`
	Make         string         `json:"make"          gorm:"type:varchar(100);not null"`
	Model        string         `json:"model"         gorm:"type:varchar(100);not null"`
	TankCapacity float64        `json:"tank_capacity" gorm:"not null;default:0"`
	CurrentKm    int            `json:"current_km"    gorm:"not null;default:0"`
	Status       string         `json:"status"        gorm:"type:varchar(50);not null;default:'in_service'"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`
}

// TableName returns the database table name for Vehicle.
func (Vehicle) TableName() string { return "vehicles" }

// Driver is an operator who submits fuel purchases.
type Driver struct {
	ID                string         `json:"id"         gorm:"type:char(36);primaryKey"`
	FirstName         string         `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName          string         `json:"last_name"  gorm:"type:varchar(100);not null"`
	Email             string         `json:"email"      gorm:"type:varchar(255);not null;index"`
	Phone             string         `json:"phone"      gorm:"type:varchar(50)"`
	LicenseNo         string         `json:"license_no" gorm:"type:varchar(100)"`
	Status            string         `json:"status"     gorm:"type:varchar(50);not null;default:'active'"`
	AssignedVehicleID *string        `json:"assigned_vehicle_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for Driver.
func (Driver) TableName() string { return "drivers" }

// FuelEntry is an immutable-once-computed snapshot of a fuel purchase: the
// raw operator inputs plus every derived field, computed by fuel.Derive at
// create/update time and stored alongside the inputs. Derived values are
// never recomputed lazily; an explicit edit of raw inputs triggers a full
// re-derivation.
type FuelEntry struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	VehicleID string    `json:"vehicle_id" gorm:"type:char(36);not null;index:idx_vehicle_fuel,priority:1"`
	DriverID  string    `json:"driver_id"  gorm:"type:char(36);not null;index"`
	Date      time.Time `json:"date"       gorm:"not null;index:idx_vehicle_fuel,priority:2"`
	Station   string    `json:"station"    gorm:"type:varchar(255)"`
	Product   string    `json:"product"    gorm:"type:varchar(50)"`

	// Raw inputs.
	PreviousKm      int     `json:"previous_km"      gorm:"not null;default:0"`
	CurrentKm       int     `json:"current_km"       gorm:"not null;default:0"`
	UnitPrice       float64 `json:"unit_price"       gorm:"not null;default:0"`
	AmountPaid      float64 `json:"amount_paid"      gorm:"not null;default:0"`
	AmountRecharged float64 `json:"amount_recharged" gorm:"not null;default:0"`
	PriorBalance    float64 `json:"prior_balance"    gorm:"not null;default:0"`
	TicketNo        string  `json:"ticket_no"        gorm:"type:varchar(100)"`
	TicketBalance   float64 `json:"ticket_balance"   gorm:"not null;default:0"`
	TankCapacity    float64 `json:"tank_capacity"    gorm:"not null;default:0"` // snapshot at purchase time

	// Derived fields (stored, never recomputed lazily).
	DistanceKm        int     `json:"distance_km"         gorm:"not null;default:0"`
	QuantityPurchased float64 `json:"quantity_purchased"  gorm:"not null;default:0"`
	QuantityRecharged float64 `json:"quantity_recharged"  gorm:"not null;default:0"`
	CostPerKm         float64 `json:"cost_per_km"         gorm:"not null;default:0"`
	ConsumptionPer100 float64 `json:"consumption_per_100" gorm:"not null;default:0"`
	NewBalance        float64 `json:"new_balance"         gorm:"not null;default:0"`
	RemainingQuantity float64 `json:"remaining_quantity"  gorm:"not null;default:0"`
	RangePurchased    float64 `json:"range_purchased"     gorm:"not null;default:0"`
	RangeRemaining    float64 `json:"range_remaining"     gorm:"not null;default:0"`
	BalanceDiff       float64 `json:"balance_diff"        gorm:"not null;default:0"`

	// Anomaly classification against the tank capacity snapshot.
	FuelStatus  string `json:"fuel_status"  gorm:"type:varchar(50);not null;default:'Normal'"`
	AnomalyNote string `json:"anomaly_note" gorm:"type:varchar(255)"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Vehicle is the owning vehicle; entries are cascade-deleted with it.
	Vehicle Vehicle `json:"-" gorm:"foreignKey:VehicleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for FuelEntry.
func (FuelEntry) TableName() string { return "fuel_entries" }

// MaintenanceCounter tracks the mileage-based one-shot alert state for one
// maintenance category of one vehicle. The invariant is the one-shot
// contract: AlertState is pending only while
// CurrentKm >= LastServiceKm + IntervalKm, and it is reset exactly when the
// category's maintenance is accepted (LastServiceKm is then advanced to the
// vehicle's current reading). A counter with IntervalKm == 0 never fires.
type MaintenanceCounter struct {
	ID            string        `json:"id"              gorm:"type:char(36);primaryKey"`
	VehicleID     string        `json:"vehicle_id"      gorm:"type:char(36);not null;uniqueIndex:ux_vehicle_category"`
	Category      Category      `json:"category"        gorm:"type:varchar(50);not null;uniqueIndex:ux_vehicle_category"`
	IntervalKm    int           `json:"interval_km"     gorm:"not null;default:0"`
	LastServiceKm int           `json:"last_service_km" gorm:"not null;default:0"`
	AlertState    oneshot.State `json:"alert_state"     gorm:"type:varchar(20);not null;default:'not_due'"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Vehicle Vehicle `json:"-" gorm:"foreignKey:VehicleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MaintenanceCounter.
func (MaintenanceCounter) TableName() string { return "maintenance_counters" }

// MaintenanceRequest is an operator-submitted request for an intervention on
// a vehicle. Accepting a request for a mileage-tracked category resets that
// category's counter.
type MaintenanceRequest struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	VehicleID   string         `json:"vehicle_id"   gorm:"type:char(36);not null;index"`
	Category    Category       `json:"category"     gorm:"type:varchar(50);not null"`
	Description string         `json:"description"  gorm:"type:text;not null"`
	RequestedAt time.Time      `json:"requested_at" gorm:"not null"`
	PlannedFor  time.Time      `json:"planned_for"`
	Km          int            `json:"km"           gorm:"not null;default:0"`
	Cost        float64        `json:"cost"         gorm:"not null;default:0"`
	Provider    string         `json:"provider"     gorm:"type:varchar(255)"`
	Status      string         `json:"status"       gorm:"type:varchar(50);not null;default:'pending';check:status IN ('pending','accepted','rejected','closed')"`
	RequesterID string         `json:"requester_id" gorm:"type:varchar(64);not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Vehicle Vehicle `json:"-" gorm:"foreignKey:VehicleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MaintenanceRequest.
func (MaintenanceRequest) TableName() string { return "maintenance_requests" }

// ComplianceDocument is a dated legal document attached to a vehicle
// (insurance, road tax sticker, technical inspection, registration card).
// The one-shot expiry alert fires once per expiration-date value; setting a
// new expiration date (renewal) resets the alert state, since the renewed
// document is a new logical state.
type ComplianceDocument struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	VehicleID   string         `json:"vehicle_id"  gorm:"type:char(36);not null;index"`
	Type        string         `json:"type"        gorm:"type:varchar(50);not null"`
	DocumentNo  string         `json:"document_no" gorm:"type:varchar(100)"`
	IssuedAt    *time.Time     `json:"issued_at,omitempty"`
	ExpiresAt   time.Time      `json:"expires_at"  gorm:"not null;index"`
	Provider    string         `json:"provider"    gorm:"type:varchar(255)"`
	Cost        float64        `json:"cost"        gorm:"not null;default:0"`
	Status      string         `json:"status"      gorm:"type:varchar(50);not null;default:'valid'"`
	Notes       string         `json:"notes"       gorm:"type:text"`
	AlertState  oneshot.State  `json:"alert_state" gorm:"type:varchar(20);not null;default:'not_due'"`
	AlertSentAt *time.Time     `json:"alert_sent_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Vehicle Vehicle `json:"-" gorm:"foreignKey:VehicleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ComplianceDocument.
func (ComplianceDocument) TableName() string { return "compliance_documents" }

// MonthlyFuelBudget is the forecast spend for one vehicle in one calendar
// month. The overrun alert is one-shot per forecast value: editing
// ForecastAmount resets AlertState and re-opens eligibility for a fresh
// overrun alert in the same month.
type MonthlyFuelBudget struct {
	ID             string        `json:"id"              gorm:"type:char(36);primaryKey"`
	VehicleID      string        `json:"vehicle_id"      gorm:"type:char(36);not null;uniqueIndex:ux_vehicle_year_month"`
	Year           int           `json:"year"            gorm:"not null;uniqueIndex:ux_vehicle_year_month"`
	Month          int           `json:"month"           gorm:"not null;uniqueIndex:ux_vehicle_year_month;check:month BETWEEN 1 AND 12"`
	ForecastAmount float64       `json:"forecast_amount" gorm:"not null;default:0"`
	AlertState     oneshot.State `json:"alert_state"     gorm:"type:varchar(20);not null;default:'not_due'"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Vehicle Vehicle `json:"-" gorm:"foreignKey:VehicleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MonthlyFuelBudget.
func (MonthlyFuelBudget) TableName() string { return "monthly_fuel_budgets" }

// Notification is the queryable in-app record written by the alert
// dispatcher. It is addressed either to every user holding TargetRole or to
// one specific TargetUserID.
type Notification struct {
	ID           string    `json:"id"             gorm:"type:char(36);primaryKey"`
	Title        string    `json:"title"          gorm:"type:varchar(255);not null"`
	Message      string    `json:"message"        gorm:"type:text;not null"`
	Severity     string    `json:"severity"       gorm:"type:varchar(20);not null;default:'info';check:severity IN ('info','success','warning','error')"`
	TargetRole   string    `json:"target_role"    gorm:"type:varchar(50);index"`
	TargetUserID string    `json:"target_user_id" gorm:"type:varchar(64);index"`
	Link         string    `json:"link"           gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"created_at"     gorm:"index"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// ActionLog is an append-only audit record of operator actions.
type ActionLog struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Action    string    `json:"action"    gorm:"type:varchar(50);not null"`
	Entity    string    `json:"entity"    gorm:"type:varchar(50);not null"`
	EntityID  string    `json:"entity_id" gorm:"type:char(36);not null;index"`
	Details   string    `json:"details"   gorm:"type:text"`
	ActorID   string    `json:"actor_id"  gorm:"type:varchar(64);index"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for ActionLog.
func (ActionLog) TableName() string { return "action_logs" }
