// Package chatkit is the session/state core of a chat client for the
// realtime-chat server. It owns the join/leave state machine, reconciles
// message history with live messages, tracks presence, and keeps the
// friends sidebar in sync. Transport, rendering, and persisted storage
// are collaborators supplied by the host (see Socket, the view ports, and
// Store); the core never touches a network or a screen directly.
package chatkit

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
)

// Socket is the bidirectional event connection the client consumes: a
// reliable, ordered, auto-reconnecting event transport. The implementation
// in package socket satisfies it. Handlers are invoked synchronously in
// arrival order.
type Socket interface {
	Emitter
	OnConnect(fn func())
	OnDisconnect(fn func())
	OnEvent(fn func(event string, data json.RawMessage))
}

// Client is the session context for one page lifetime. It owns every
// component, wires the event dispatch table, and replaces ad-hoc shared
// state with explicit construction: build one Client per page load,
// configure it with the setters, then call Start.
type Client struct {
	cfg Config
	log zerolog.Logger

	socket    Socket
	msgView   MessageView
	sbView    SidebarView
	pageCV    CollapseView
	sidebarCV CollapseView
	store     Store
	friends   FriendsFetcher
	onError   func(error)

	usernameInput Input
	roomInput     Input

	resolver   *Resolver
	session    *Session
	presence   *Tracker
	feed       *Feed
	sidebar    *Synchronizer
	collapser  *Collapser
	dispatcher *Dispatcher
}

// NewClient constructs a client with provided config. Every surface
// defaults to a no-op so a partially wired client still degrades
// gracefully.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:     cfg,
		log:     zerolog.Nop(),
		msgView: noopMessageView{},
		sbView:  noopSidebarView{},
		pageCV:  noopCollapseView{},
		store:   newMemStore(),
	}
}

// SetLogger overrides the logger (optional).
func (c *Client) SetLogger(log zerolog.Logger) { c.log = log }

// SetSocket attaches the event transport. Without one the client renders
// inbound state but every send fails locally.
func (c *Client) SetSocket(s Socket) { c.socket = s }

// SetMessageView attaches the conversation rendering surface.
func (c *Client) SetMessageView(v MessageView) {
	if v != nil {
		c.msgView = v
	}
}

// SetSidebarView attaches the sidebar rendering surface.
func (c *Client) SetSidebarView(v SidebarView) {
	if v != nil {
		c.sbView = v
	}
}

// SetCollapseViews attaches the collapse surfaces. sidebar may be nil when
// the page has no sidebar node.
func (c *Client) SetCollapseViews(page, sidebar CollapseView) {
	if page != nil {
		c.pageCV = page
	}
	c.sidebarCV = sidebar
}

// SetStore attaches persisted key-value storage. The default is
// process-lifetime memory.
func (c *Client) SetStore(s Store) {
	if s != nil {
		c.store = s
	}
}

// SetFriends attaches the friend-list collaborator. Without one the
// sidebar never refreshes.
func (c *Client) SetFriends(f FriendsFetcher) { c.friends = f }

// SetUsernameInput attaches the optional username input field.
func (c *Client) SetUsernameInput(in Input) { c.usernameInput = in }

// SetRoomInput attaches the optional room input field.
func (c *Client) SetRoomInput(in Input) { c.roomInput = in }

// SetOnError registers a callback for non-fatal failures (emit errors,
// undecodable payloads, sidebar fetch failures). Optional; everything is
// also logged.
func (c *Client) SetOnError(fn func(error)) { c.onError = fn }

// Start wires the components and binds the event table. Call it once,
// after the setters and before the socket connects.
func (c *Client) Start() {
	c.resolver = NewResolver(c.cfg.Page)
	c.resolver.SetUsernameInput(c.usernameInput)
	c.resolver.SetRoomInput(c.roomInput)

	emitter := Emitter(c.socket)
	if c.socket == nil {
		emitter = noTransport{}
	}
	c.session = NewSession(c.resolver, emitter, c.msgView, c.log)
	c.session.SetReport(c.fireError)

	c.presence = NewTracker()
	c.feed = NewFeed(c.resolver, c.msgView)

	c.sidebar = NewSynchronizer(c.friends, c.presence, c.sbView, c.log)
	c.sidebar.SetReport(c.fireError)
	c.sidebar.SetTimeout(c.cfg.SidebarFetchTimeout)

	c.collapser = NewCollapser(c.store, c.pageCV, c.sidebarCV, c.log)

	c.dispatcher = NewDispatcher(c.log)
	c.bind()

	if c.socket != nil {
		c.socket.OnConnect(c.handleConnect)
		c.socket.OnDisconnect(c.handleDisconnect)
		c.socket.OnEvent(c.dispatcher.Dispatch)
	}

	// the persisted collapse flag takes effect at startup, before any
	// connection exists
	c.collapser.Apply()
}

// Join announces the resolved identity to the server.
func (c *Client) Join() { c.session.Join() }

// Leave exits the current room.
func (c *Client) Leave() { c.session.Leave() }

// Send publishes text to the current room, subject to session gating.
func (c *Client) Send(text string) { c.session.Send(text) }

// State returns the current join status.
func (c *Client) State() State { return c.session.State() }

// Identity resolves the active username/room right now.
func (c *Client) Identity() Identity { return c.resolver.Resolve() }

// Online returns the latest presence snapshot.
func (c *Client) Online() []string { return c.presence.Snapshot() }

// Collapsed reads the persisted sidebar collapse flag.
func (c *Client) Collapsed() bool { return c.collapser.Collapsed() }

// ToggleSidebar flips the persisted collapse flag and reapplies it.
func (c *Client) ToggleSidebar() { c.collapser.Toggle() }

// ApplyCollapsedState re-reads the persisted flag and projects it onto
// the collapse surfaces.
func (c *Client) ApplyCollapsedState() { c.collapser.Apply() }

// RefreshSidebar triggers an independent sidebar fetch+render cycle.
func (c *Client) RefreshSidebar(ctx context.Context) { c.sidebar.Refresh(ctx) }

// bind populates the dispatch table for the inbound wire events.
func (c *Client) bind() {
	c.dispatcher.Handle(eventStatus, func(data json.RawMessage) {
		var p StatusPayload
		if err := json.Unmarshal(data, &p); err != nil {
			c.badPayload(eventStatus, err)
			return
		}
		c.msgView.AppendStatus(p.Msg)
	})

	c.dispatcher.Handle(eventMessage, func(data json.RawMessage) {
		var m MessageEvent
		if err := json.Unmarshal(data, &m); err != nil {
			c.badPayload(eventMessage, err)
			return
		}
		c.feed.RenderLive(m)
		// new mail changes the sidebar previews
		c.sidebar.Refresh(context.Background())
	})

	c.dispatcher.Handle(eventHistory, func(data json.RawMessage) {
		var p HistoryPayload
		if err := json.Unmarshal(data, &p); err != nil {
			c.badPayload(eventHistory, err)
			return
		}
		c.feed.RenderHistory(p)
	})

	c.dispatcher.Handle(eventPresence, func(data json.RawMessage) {
		var p PresencePayload
		if err := json.Unmarshal(data, &p); err != nil {
			// degrade to an empty set, the next broadcast heals it
			c.badPayload(eventPresence, err)
			p.Online = nil
		}
		c.presence.Update(p.Online)
		c.sidebar.Refresh(context.Background())
	})
}

func (c *Client) handleConnect() {
	c.msgView.AppendStatus("Connected to server.")
	c.collapser.Apply()
	c.sidebar.Refresh(context.Background())
	// a page-injected user means no Join button: join automatically,
	// including after a reconnect
	if strings.TrimSpace(c.cfg.Page.CurrentUser) != "" {
		c.session.AutoJoin()
	}
	if c.cfg.Page.Partner != "" {
		c.msgView.AppendStatus("Private chat with " + c.cfg.Page.Partner)
	}
}

func (c *Client) handleDisconnect() {
	// the session stays Joined; sends fail at the emitter until the
	// transport reconnects and handleConnect runs again
	c.msgView.AppendStatus("Disconnected from server.")
	c.log.Warn().Msg("transport disconnected")
}

func (c *Client) badPayload(event string, err error) {
	c.log.Warn().Err(err).Str("event", event).Msg("undecodable payload")
	c.fireError(WrapError(ErrorSerialization, "decode "+event+" payload", err))
}

func (c *Client) fireError(err error) {
	if c.onError != nil && err != nil {
		c.onError(err)
	}
}

// noTransport is the emitter used when no socket is attached.
type noTransport struct{}

func (noTransport) Emit(event string, payload any) error {
	return NewError(ErrorNotConnected, "no transport attached")
}
