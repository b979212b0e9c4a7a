package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/metrics"
)

const sideEffectTimeout = 15 * time.Second

// Emitter fans a committed domain event out to the activity journal and the
// message bus. Neither can fail the operation that produced the event.
type Emitter struct {
	publisher domain.EventPublisher
	journal   domain.EventJournal
	logger    *slog.Logger
	inflight  sync.WaitGroup
}

func NewEmitter(publisher domain.EventPublisher, journal domain.EventJournal, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{publisher: publisher, journal: journal, logger: logger}
}

func (e *Emitter) Emit(ctx context.Context, event domain.OrderEvent) {
	if e == nil {
		return
	}

	if e.journal != nil {
		if err := e.journal.Record(context.WithoutCancel(ctx), event); err != nil {
			e.logger.Error("failed to record order event", "event", event.Type, "order_id", event.OrderID, "error", err)
		}
	}

	if e.publisher == nil {
		return
	}
	e.inflight.Add(1)
	go func(event domain.OrderEvent) {
		defer e.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		if err := e.publisher.PublishOrderEvent(ctx, event); err != nil {
			e.logger.Error("failed to publish kafka order event", "event", event.Type, "order_id", event.OrderID, "error", err.Error())
		}
	}(event)
}

// Messenger sends customer and specialist messages fire-and-forget.
type Messenger struct {
	sink     domain.NotificationSink
	metrics  *metrics.BookingMetrics
	logger   *slog.Logger
	inflight sync.WaitGroup
}

func NewMessenger(sink domain.NotificationSink, m *metrics.BookingMetrics, logger *slog.Logger) *Messenger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Messenger{sink: sink, metrics: m, logger: logger}
}

// Send returns immediately. A missing address is logged and skipped.
func (m *Messenger) Send(purpose, to, body string) {
	if m == nil || m.sink == nil {
		return
	}
	if to == "" {
		m.logger.Info("no notification address, message skipped", "purpose", purpose)
		return
	}
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		if err := m.sink.Send(ctx, to, body); err != nil {
			m.metrics.RecordNotificationFailure(purpose)
			m.logger.Error("failed to send notification", "purpose", purpose, "error", err)
		}
	}()
}

// Wait blocks until in-flight publishes are done. Used on shutdown.
func (e *Emitter) Wait() {
	if e != nil {
		e.inflight.Wait()
	}
}

// Wait blocks until in-flight sends are done. Used on shutdown.
func (m *Messenger) Wait() {
	if m != nil {
		m.inflight.Wait()
	}
}
