package chatkit

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// State is the join status of the session.
type State int

const (
	// StateNotJoined means the client has not announced itself to a room.
	StateNotJoined State = iota

	// StateJoined means a join has been emitted and not yet left.
	StateJoined
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateNotJoined:
		return "not_joined"
	case StateJoined:
		return "joined"
	default:
		return "unknown"
	}
}

// Emitter sends a named event to the server. Sends are fire-and-forget:
// they queue and return without waiting for the network.
type Emitter interface {
	Emit(event string, payload any) error
}

// Session gates outgoing traffic on the joined/not-joined state machine.
// A transport disconnect does not reset the state; the send path simply
// fails at the emitter until the link comes back. The state is touched
// from the UI goroutine and the transport's connect path, so it lives
// behind a mutex.
type Session struct {
	resolver *Resolver
	emitter  Emitter
	view     MessageView
	log      zerolog.Logger
	report   func(error)

	mu    sync.Mutex
	state State
}

// NewSession builds a session in StateNotJoined.
func NewSession(resolver *Resolver, emitter Emitter, view MessageView, log zerolog.Logger) *Session {
	return &Session{
		resolver: resolver,
		emitter:  emitter,
		view:     view,
		log:      log,
	}
}

// SetReport installs an optional error callback for emit failures.
func (s *Session) SetReport(fn func(error)) { s.report = fn }

// State returns the current join status.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// transition swaps the state and reports whether it changed.
func (s *Session) transition(to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == to {
		return false
	}
	s.state = to
	return true
}

// Join resolves the identity and announces it to the server. Joining while
// already joined is a no-op.
func (s *Session) Join() {
	if !s.transition(StateJoined) {
		return
	}
	id := s.resolver.Resolve()
	s.emit(eventJoin, JoinPayload{Username: id.Username, Room: id.Room})
	s.log.Info().Str("username", id.Username).Str("room", id.Room).Msg("joined room")
}

// AutoJoin announces the identity on transport connect. Unlike Join it
// emits even when already Joined, so a reconnect re-enters the room the
// server-side session lost.
func (s *Session) AutoJoin() {
	s.transition(StateJoined)
	id := s.resolver.Resolve()
	s.emit(eventJoin, JoinPayload{Username: id.Username, Room: id.Room})
	s.log.Info().Str("username", id.Username).Str("room", id.Room).Msg("auto-joined room")
}

// Leave announces departure and returns to StateNotJoined. Leaving while
// not joined emits nothing.
func (s *Session) Leave() {
	if !s.transition(StateNotJoined) {
		return
	}
	id := s.resolver.Resolve()
	s.emit(eventLeave, JoinPayload{Username: id.Username, Room: id.Room})
	s.log.Info().Str("username", id.Username).Str("room", id.Room).Msg("left room")
}

// Send publishes text to the current room. While not joined it produces a
// single local status line and emits nothing. Blank text is dropped
// silently.
func (s *Session) Send(text string) {
	if s.State() != StateJoined {
		s.view.AppendStatus("Join a room first.")
		return
	}
	msg := strings.TrimSpace(text)
	if msg == "" {
		return
	}
	id := s.resolver.Resolve()
	s.emit(eventMessage, MessagePayload{Username: id.Username, Room: id.Room, Msg: msg})
}

func (s *Session) emit(event string, payload any) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.Emit(event, payload); err != nil {
		s.log.Warn().Err(err).Str("event", event).Msg("emit failed")
		if s.report != nil {
			s.report(WrapError(ErrorNotConnected, "emit "+event, err))
		}
	}
}
