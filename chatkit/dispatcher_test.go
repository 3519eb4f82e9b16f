package chatkit

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestDispatcherRoutesByName(t *testing.T) {
	var got json.RawMessage
	d := NewDispatcher(zerolog.Nop())
	d.Handle("message", func(data json.RawMessage) { got = data })

	d.Dispatch("message", json.RawMessage(`{"msg":"hi"}`))

	if string(got) != `{"msg":"hi"}` {
		t.Fatalf("unexpected payload: %s", got)
	}
}

func TestDispatcherDropsUnknownEvents(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	d.Handle("message", func(json.RawMessage) { t.Fatal("wrong handler invoked") })

	d.Dispatch("typing", json.RawMessage(`{}`))
}

func TestDispatcherReplacesHandler(t *testing.T) {
	calls := 0
	d := NewDispatcher(zerolog.Nop())
	d.Handle("status", func(json.RawMessage) { t.Fatal("stale handler invoked") })
	d.Handle("status", func(json.RawMessage) { calls++ })

	d.Dispatch("status", nil)

	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDispatcherContainsPanics(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	d.Handle("message", func(json.RawMessage) { panic("bad payload") })

	d.Dispatch("message", nil)
	// the loop survives and later events still dispatch
	delivered := false
	d.Handle("status", func(json.RawMessage) { delivered = true })
	d.Dispatch("status", nil)

	if !delivered {
		t.Fatal("dispatch loop did not survive a panicking handler")
	}
}
