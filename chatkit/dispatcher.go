package chatkit

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// Dispatcher routes inbound transport events to registered handlers. The
// table is fixed once bound; the transport invokes Dispatch synchronously
// in arrival order.
type Dispatcher struct {
	handlers map[string]func(json.RawMessage)
	log      zerolog.Logger
}

// NewDispatcher returns an empty dispatch table.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]func(json.RawMessage)),
		log:      log,
	}
}

// Handle binds fn to event, replacing any previous handler.
func (d *Dispatcher) Handle(event string, fn func(json.RawMessage)) {
	d.handlers[event] = fn
}

// Dispatch runs the handler bound to event. Unknown events are dropped. A
// panicking handler is contained so one bad payload cannot halt the
// reactive loop.
func (d *Dispatcher) Dispatch(event string, data json.RawMessage) {
	fn, ok := d.handlers[event]
	if !ok {
		d.log.Debug().Str("event", event).Msg("no handler for event")
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Str("event", event).Any("panic", r).Msg("event handler panicked")
		}
	}()
	fn(data)
}
