package chatkit

import "strings"

// Defaults substituted before any event is emitted. Emitted identities are
// never empty.
const (
	DefaultUsername = "Anonymous"
	DefaultRoom     = "main"
)

// Identity is the username/room pair stamped on outgoing events.
type Identity struct {
	Username string
	Room     string
}

// Input reads the current value of an optional page input field. A nil
// Input means the field does not exist on this page.
type Input func() string

// Resolver derives the active Identity from the page input fields and the
// injected page configuration. Resolution runs on every action rather than
// being cached, so edits made between actions take effect.
type Resolver struct {
	page          PageConfig
	usernameInput Input
	roomInput     Input
}

// NewResolver builds a resolver over the injected page configuration.
func NewResolver(page PageConfig) *Resolver {
	return &Resolver{page: page}
}

// SetUsernameInput attaches the username input field, when present.
func (r *Resolver) SetUsernameInput(in Input) { r.usernameInput = in }

// SetRoomInput attaches the room input field, when present.
func (r *Resolver) SetRoomInput(in Input) { r.roomInput = in }

// Resolve never fails: missing or blank sources degrade to
// DefaultUsername and DefaultRoom. The injected room override (private
// chat) takes precedence over the room input field.
func (r *Resolver) Resolve() Identity {
	username := ""
	if r.usernameInput != nil {
		username = strings.TrimSpace(r.usernameInput())
	}
	if username == "" {
		username = strings.TrimSpace(r.page.CurrentUser)
	}
	if username == "" {
		username = DefaultUsername
	}

	room := strings.TrimSpace(r.page.Room)
	if room == "" && r.roomInput != nil {
		room = strings.TrimSpace(r.roomInput())
	}
	if room == "" {
		room = DefaultRoom
	}

	return Identity{Username: username, Room: room}
}
