// Package services defines the business logic for vehicles, drivers, fuel
// entries, maintenance, compliance documents, and fuel budgets.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

var (
	// ErrVehicleNotFound indicates that the requested vehicle does not exist.
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrDuplicateRegistration is returned when creating a vehicle whose
	// registration plate is already taken.
	ErrDuplicateRegistration = errors.New("registration already exists")

	// ErrDriverNotFound indicates that the requested driver does not exist.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrFuelEntryNotFound indicates that the requested fuel entry does not exist.
	ErrFuelEntryNotFound = errors.New("fuel entry not found")

	// ErrMaintenanceNotFound indicates that the requested maintenance request
	// or counter does not exist.
	ErrMaintenanceNotFound = errors.New("maintenance record not found")

	// ErrDocumentNotFound indicates that the requested compliance document
	// does not exist.
	ErrDocumentNotFound = errors.New("compliance document not found")

	// ErrBudgetNotFound indicates that the requested monthly budget does not exist.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrInvalidMonth is returned when a month value is outside 1..12.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")

	// ErrInvalidCategory is returned when a maintenance category is not one
	// of the tracked set.
	ErrInvalidCategory = errors.New("unknown maintenance category")

	// ErrInvalidStatus is returned when a maintenance request status
	// transition names an unknown status.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidExpiry is returned when a compliance document carries no
	// expiration date.
	ErrInvalidExpiry = errors.New("expiration date is required")
)
