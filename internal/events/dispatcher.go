package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/candidate-screening/internal/logging"
	"github.com/gokatarajesh/candidate-screening/internal/metrics"
)

// HandlerFunc reacts to one event. Handlers must tolerate redelivery.
type HandlerFunc func(ctx context.Context, evt Event) error

// Dispatcher routes events to the handlers registered for their kind.
// There is no caller to report to, so failures end in the log.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind][]HandlerFunc
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewDispatcher(m *metrics.Metrics, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Kind][]HandlerFunc),
		metrics:  m,
		logger:   logging.Component(logger, "event_dispatcher"),
	}
}

// Handle registers fn for kind. Handlers run in registration order.
func (d *Dispatcher) Handle(kind Kind, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = append(d.handlers[kind], fn)
}

// Dispatch runs every handler for evt.Kind. A failing handler does not stop
// the ones after it.
func (d *Dispatcher) Dispatch(ctx context.Context, evt Event) {
	d.mu.RLock()
	handlers := d.handlers[evt.Kind]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		d.logger.Debug().Str("kind", string(evt.Kind)).Msg("no handler for event")
		d.metrics.EventDispatched(string(evt.Kind), "unhandled")
		return
	}

	for _, fn := range handlers {
		if err := fn(ctx, evt); err != nil {
			d.logger.Error().
				Err(err).
				Str("kind", string(evt.Kind)).
				Str("email", evt.Email).
				Msg("event handler failed")
			d.metrics.EventDispatched(string(evt.Kind), "failed")
			continue
		}
		d.metrics.EventDispatched(string(evt.Kind), "ok")
	}
}
