package chatkit

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/nduong18/chatkit-go/chatkit/rest"
)

// emitted is one event captured by the fake transport.
type emitted struct {
	event   string
	payload any
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emitted
	err    error
}

func (f *fakeEmitter) Emit(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, emitted{event: event, payload: payload})
	return nil
}

func (f *fakeEmitter) emitted() []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]emitted, len(f.events))
	copy(out, f.events)
	return out
}

// recordView captures bubbles and status lines in append order.
type recordView struct {
	mu       sync.Mutex
	bubbles  []Bubble
	statuses []string
}

func (v *recordView) AppendBubble(b Bubble) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bubbles = append(v.bubbles, b)
}

func (v *recordView) AppendStatus(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, s)
}

func (v *recordView) Bubbles() []Bubble {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Bubble, len(v.bubbles))
	copy(out, v.bubbles)
	return out
}

func (v *recordView) Statuses() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.statuses))
	copy(out, v.statuses)
	return out
}

// recordSidebar captures renders and signals each one for async waits.
type recordSidebar struct {
	mu      sync.Mutex
	renders [][]FriendItem
	signal  chan struct{}
}

func newRecordSidebar() *recordSidebar {
	return &recordSidebar{signal: make(chan struct{}, 16)}
}

func (v *recordSidebar) RenderFriends(items []FriendItem) {
	v.mu.Lock()
	v.renders = append(v.renders, items)
	v.mu.Unlock()
	v.signal <- struct{}{}
}

func (v *recordSidebar) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.renders)
}

func (v *recordSidebar) last() []FriendItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.renders) == 0 {
		return nil
	}
	return v.renders[len(v.renders)-1]
}

type fakeFetcher struct {
	mu      sync.Mutex
	friends []rest.Friend
	err     error
	calls   int
}

func (f *fakeFetcher) Friends(context.Context) ([]rest.Friend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.friends, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// recordCollapse captures SetCollapsed calls.
type recordCollapse struct {
	values []bool
}

func (v *recordCollapse) SetCollapsed(b bool) {
	v.values = append(v.values, b)
}

// failStore rejects writes while still serving reads.
type failStore struct {
	memStore
	setErr error
}

func (s *failStore) Set(string, string) error {
	return s.setErr
}

// fakeSocket drives the client the way the transport would.
type fakeSocket struct {
	fakeEmitter
	onConnect    func()
	onDisconnect func()
	onEvent      func(event string, data json.RawMessage)
}

func (f *fakeSocket) OnConnect(fn func())    { f.onConnect = fn }
func (f *fakeSocket) OnDisconnect(fn func()) { f.onDisconnect = fn }
func (f *fakeSocket) OnEvent(fn func(event string, data json.RawMessage)) {
	f.onEvent = fn
}

func (f *fakeSocket) fireConnect() {
	if f.onConnect != nil {
		f.onConnect()
	}
}

func (f *fakeSocket) fireDisconnect() {
	if f.onDisconnect != nil {
		f.onDisconnect()
	}
}

func (f *fakeSocket) fireEvent(t *testing.T, event string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", event, err)
	}
	f.fireRaw(event, raw)
}

func (f *fakeSocket) fireRaw(event string, raw json.RawMessage) {
	if f.onEvent != nil {
		f.onEvent(event, raw)
	}
}
