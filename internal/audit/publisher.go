package audit

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	id "gavel/pkg/domain"
	"gavel/pkg/requestcontext"
)

var droppedEvents = promauto.NewCounter(prometheus.CounterOpts{
	Name: "gavel_audit_events_dropped_total",
	Help: "Audit events dropped because the inbox was full",
})

// Store is the persistence contract for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Publisher accepts audit events from services and hands them to the worker
// through a bounded inbox. Emission never blocks a request: when the inbox
// is full the event is dropped and counted.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewPublisher constructs a publisher with the given inbox capacity.
func NewPublisher(bufferSize int, logger *slog.Logger) *Publisher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Publisher{
		inbox:  make(chan Event, bufferSize),
		logger: logger,
	}
}

// Inbox exposes the receive side for the worker.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }

// Emit fills request-scoped fields from the context and queues the event.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.ID.IsNil() {
		event.ID = id.NewEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.UserID.IsNil() {
		event.UserID = requestcontext.UserID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = requestcontext.UserAgent(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	event.ParseUserAgent()

	select {
	case p.inbox <- event:
	default:
		droppedEvents.Inc()
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
			"entity", event.Entity,
			"request_id", event.RequestID,
		)
	}
}
