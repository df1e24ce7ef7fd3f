package alerting

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-fleet-backend/internal/domain"
	"github.com/tbourn/go-fleet-backend/internal/repo"
)

// Dispatcher fans one Event out to the notifications table and to every
// configured outbound Notifier.
//
// The in-app notification is written synchronously with the caller's DB
// handle, so when the caller is inside a transaction the notification commits
// or rolls back with the business write that produced it. Outbound delivery
// is best-effort: events go onto a bounded queue drained by a fixed worker
// pool, and when the queue is full the event is dropped with a log line
// rather than blocking the business operation.
type Dispatcher struct {
	out         []Notifier
	queue       chan Event
	workers     int
	sendTimeout time.Duration

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDispatcher builds a dispatcher with the given outbound notifiers.
// workers and queueSize fall back to sane minimums when non-positive.
func NewDispatcher(out []Notifier, workers, queueSize int, sendTimeout time.Duration) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &Dispatcher{
		out:         out,
		queue:       make(chan Event, queueSize),
		workers:     workers,
		sendTimeout: sendTimeout,
	}
}

// Start launches the outbound worker pool. It is a no-op when there are no
// outbound notifiers.
func (d *Dispatcher) Start() {
	if len(d.out) == 0 {
		return
	}
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		// Detached context: the HTTP request that produced the event may be
		// long gone by the time a worker picks it up.
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		for _, n := range d.out {
			if err := n.Send(ctx, ev); err != nil {
				log.Warn().
					Err(err).
					Str("notifier", n.Name()).
					Str("kind", ev.Kind).
					Str("entity_id", ev.EntityID).
					Msg("outbound alert delivery failed")
			}
		}
		cancel()
	}
}

// Dispatch records ev as an in-app notification using the caller's db handle
// and enqueues it for outbound delivery. It never returns an error: alert
// plumbing failures are logged and must not fail the business operation that
// raised the alert.
func (d *Dispatcher) Dispatch(ctx context.Context, db *gorm.DB, ev Event) {
	n := &domain.Notification{
		Title:        ev.Title,
		Message:      ev.Message,
		Severity:     string(ev.Severity),
		TargetRole:   ev.TargetRole,
		TargetUserID: ev.TargetUserID,
		Link:         ev.Link,
	}
	if err := repo.CreateNotification(ctx, db, n); err != nil {
		log.Error().
			Err(err).
			Str("kind", ev.Kind).
			Str("entity_id", ev.EntityID).
			Msg("persist notification failed")
	}

	if len(d.out) == 0 {
		return
	}
	select {
	case d.queue <- ev:
	default:
		log.Warn().
			Str("kind", ev.Kind).
			Str("entity_id", ev.EntityID).
			Msg("alert queue full, outbound event dropped")
	}
}

// Close stops accepting outbound events and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
