// Package services – ComplianceService
//
// This file implements compliance document management and the expiry scanner.
// The scanner selects documents whose expiration falls within the lookahead
// window, raises one alert per document, and marks each as alerted in the
// same transaction that raised its alert. Renewing a document (changing its
// expiration date) re-arms the alert.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/alerting"
	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/oneshot"
	"github.com/tbourn/go-fleet-backend/internal/repo"
)

// ComplianceService provides compliance document operations and the
// background expiry scanner.
type ComplianceService struct {
	DB     *gorm.DB
	Alerts *alerting.Dispatcher

	// LookaheadDays is how many days before expiration the alert fires.
	LookaheadDays int
	// ScanInterval is the period of the background scanner loop.
	ScanInterval time.Duration

	// now is swappable in tests.
	now func() time.Time
}

// NewComplianceService constructs a ComplianceService.
func NewComplianceService(db *gorm.DB, alerts *alerting.Dispatcher, lookaheadDays int, scanInterval time.Duration) *ComplianceService {
	if lookaheadDays <= 0 {
		lookaheadDays = 5
	}
	if scanInterval <= 0 {
		scanInterval = 24 * time.Hour
	}
	return &ComplianceService{
		DB:            db,
		Alerts:        alerts,
		LookaheadDays: lookaheadDays,
		ScanInterval:  scanInterval,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create attaches a document to a vehicle.
func (s *ComplianceService) Create(ctx context.Context, d *domain.ComplianceDocument) (*domain.ComplianceDocument, error) {
	if d.ExpiresAt.IsZero() {
		return nil, ErrInvalidExpiry
	}
	if _, err := repo.GetVehicle(ctx, s.DB, d.VehicleID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if err := repo.CreateComplianceDocument(ctx, s.DB, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get fetches a document by ID.
func (s *ComplianceService) Get(ctx context.Context, id string) (*domain.ComplianceDocument, error) {
	d, err := repo.GetComplianceDocument(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	return d, err
}

// List returns documents ordered by expiration, optionally scoped to a vehicle.
func (s *ComplianceService) List(ctx context.Context, vehicleID string) ([]domain.ComplianceDocument, error) {
	return repo.ListComplianceDocuments(ctx, s.DB, vehicleID)
}

// Update applies edits to a document. Changing the expiration date is a
// renewal: the expiry alert re-arms so the new date gets its own alert.
func (s *ComplianceService) Update(ctx context.Context, id string, apply func(*domain.ComplianceDocument)) (*domain.ComplianceDocument, error) {
	d, err := repo.GetComplianceDocument(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	prevExpiry := d.ExpiresAt
	apply(d)
	if d.ExpiresAt.IsZero() {
		return nil, ErrInvalidExpiry
	}
	if !d.ExpiresAt.Equal(prevExpiry) {
		d.AlertState = oneshot.Reset()
		d.AlertSentAt = nil
	}

	if err := repo.UpdateComplianceDocument(ctx, s.DB, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete soft-deletes a document.
func (s *ComplianceService) Delete(ctx context.Context, id string) error {
	err := repo.DeleteComplianceDocument(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrDocumentNotFound
	}
	return err
}

// Scan performs one expiry sweep: every document expiring within the
// lookahead window whose alert has not fired gets one alert and is marked.
// Each document is handled in its own transaction so one failure does not
// block the rest of the sweep. Returns the number of alerts raised.
func (s *ComplianceService) Scan(ctx context.Context) (int, error) {
	now := s.now()
	deadline := now.AddDate(0, 0, s.LookaheadDays)

	docs, err := repo.ListExpiringDocuments(ctx, s.DB, deadline)
	if err != nil {
		return 0, err
	}

	fired := 0
	for _, d := range docs {
		d := d
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := repo.MarkDocumentAlerted(ctx, tx, d.ID, now); err != nil {
				return err
			}
			days := int(d.ExpiresAt.Sub(now).Hours() / 24)
			sev := alerting.SeverityWarning
			msg := fmt.Sprintf("Document %s (%s) expires in %d days on %s", d.Type, d.DocumentNo, days, d.ExpiresAt.Format("2006-01-02"))
			if d.ExpiresAt.Before(now) {
				sev = alerting.SeverityError
				msg = fmt.Sprintf("Document %s (%s) expired on %s", d.Type, d.DocumentNo, d.ExpiresAt.Format("2006-01-02"))
			}
			s.Alerts.Dispatch(ctx, tx, alerting.Event{
				Kind:       "document_expiry",
				Severity:   sev,
				Title:      fmt.Sprintf("Compliance document expiring: %s", d.Type),
				Message:    msg,
				VehicleID:  d.VehicleID,
				EntityID:   d.ID,
				TargetRole: "manager",
				Link:       "/compliance/" + d.ID,
			})
			return nil
		})
		if err != nil {
			log.Error().Err(err).Str("document_id", d.ID).Msg("expiry alert failed")
			continue
		}
		fired++
	}
	return fired, nil
}

// Run drives the scanner loop: one sweep immediately, then one per interval
// until ctx is canceled. Intended to run in its own goroutine.
func (s *ComplianceService) Run(ctx context.Context) {
	if _, err := s.Scan(ctx); err != nil {
		log.Error().Err(err).Msg("compliance scan failed")
	}

	ticker := time.NewTicker(s.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Scan(ctx); err != nil {
				log.Error().Err(err).Msg("compliance scan failed")
			}
		}
	}
}

// ListAlerts returns documents that are expired or expiring within the next
// 30 days, for the alerts dashboard.
func (s *ComplianceService) ListAlerts(ctx context.Context) ([]domain.ComplianceDocument, error) {
	deadline := s.now().AddDate(0, 0, 30)
	var out []domain.ComplianceDocument
	err := s.DB.WithContext(ctx).
		Where("expires_at <= ?", deadline).
		Order("expires_at ASC").
		Find(&out).Error
	return out, err
}
