// Package alerting contains the alert dispatcher shared by every alert
// producer (tank-capacity anomalies, mileage thresholds, document expiries,
// budget overruns). Dispatch writes an in-app notification synchronously with
// the caller's DB handle and forwards the event to outbound notifiers on a
// best-effort background worker pool.
package alerting

import "context"

// Severity classifies an alert event. Values mirror the notification
// severities accepted by the notifications table.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is one alert occurrence produced by a business rule.
type Event struct {
	Kind         string   `json:"kind"` // "fuel_anomaly", "maintenance_due", "document_expiry", "budget_overrun"
	Severity     Severity `json:"severity"`
	Title        string   `json:"title"`
	Message      string   `json:"message"`
	VehicleID    string   `json:"vehicle_id,omitempty"`
	EntityID     string   `json:"entity_id,omitempty"`
	TargetRole   string   `json:"target_role,omitempty"`
	TargetUserID string   `json:"target_user_id,omitempty"`
	Link         string   `json:"link,omitempty"`
}

// Notifier delivers events to an external system.
type Notifier interface {
	// Name returns the notifier identifier, used in logs.
	Name() string

	// Send delivers an event. Implementations must be safe for concurrent use.
	Send(ctx context.Context, ev Event) error
}

// NopNotifier discards every event. Useful as a placeholder when no outbound
// channel is configured.
type NopNotifier struct{}

// Name implements Notifier.
func (NopNotifier) Name() string { return "nop" }

// Send implements Notifier.
func (NopNotifier) Send(context.Context, Event) error { return nil }
