// Package socket implements the event transport the chat client consumes:
// one JSON envelope per application event over a WebSocket, delivered in
// order, with automatic reconnect. It satisfies chatkit.Socket.
package socket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
)

// ErrNotConnected is returned by Emit while the link is down.
var ErrNotConnected = errors.New("socket: not connected")

// Config controls how the socket connects.
type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	// ReadTimeout of zero disables the read deadline; the server is
	// expected to handle idle detection with ping/pong.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	AutoReconnect     bool
	ReconnectInterval time.Duration
	MaxReconnectDelay time.Duration
	// MaxReconnectTries of zero retries forever.
	MaxReconnectTries int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout:  10 * time.Second,
		WriteTimeout:      10 * time.Second,
		AutoReconnect:     true,
		ReconnectInterval: 2 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
	}
}

// Envelope frames every event on the wire.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Socket is an event-based connection. Register handlers, then Connect;
// every successful connect (first or re-) fires the connect handler, and
// inbound envelopes are delivered to the event handler synchronously in
// arrival order.
type Socket struct {
	cfg Config
	log zerolog.Logger

	onConnect    func()
	onDisconnect func()
	onEvent      func(event string, data json.RawMessage)

	writeCh chan Envelope

	mu        sync.Mutex
	conn      *conn
	connected bool
	closed    bool
	cancel    context.CancelFunc
}

// New constructs a socket with the provided config.
func New(cfg Config, log zerolog.Logger) *Socket {
	return &Socket{
		cfg:     cfg,
		log:     log,
		writeCh: make(chan Envelope, 16),
	}
}

// OnConnect registers the connect handler.
func (s *Socket) OnConnect(fn func()) { s.onConnect = fn }

// OnDisconnect registers the disconnect handler.
func (s *Socket) OnDisconnect(fn func()) { s.onDisconnect = fn }

// OnEvent registers the inbound event handler.
func (s *Socket) OnEvent(fn func(event string, data json.RawMessage)) { s.onEvent = fn }

// Connect dials the server and starts the read/write loops. Handlers must
// be registered before Connect. When the first dial fails and AutoReconnect
// is set, the error is returned and the socket keeps retrying in the
// background; the connect handler fires once an attempt succeeds.
func (s *Socket) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("socket: closed")
	}
	if s.connected {
		s.mu.Unlock()
		return errors.New("socket: already connected")
	}
	s.mu.Unlock()

	if s.cfg.URL == "" {
		return errors.New("socket: empty URL")
	}

	cn, err := s.dial(ctx)
	if err != nil {
		if s.cfg.AutoReconnect {
			go s.reconnectLoop()
		}
		return err
	}
	s.startLoops(cn)
	s.fireConnect()
	return nil
}

// Emit queues one event for delivery. It never blocks on the network.
func (s *Socket) Emit(event string, payload any) error {
	s.mu.Lock()
	connected := s.connected
	s.mu.Unlock()
	if !connected {
		return ErrNotConnected
	}

	env := Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("socket: marshal %s payload: %w", event, err)
		}
		env.Data = data
	}

	select {
	case s.writeCh <- env:
		return nil
	default:
		return errors.New("socket: write queue full")
	}
}

// Close shuts the socket down for good; no reconnect follows.
func (s *Socket) Close() error {
	s.mu.Lock()
	s.closed = true
	s.connected = false
	if s.cancel != nil {
		s.cancel()
	}
	cn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if cn != nil {
		return cn.close(websocket.StatusNormalClosure, "client close")
	}
	return nil
}

func (s *Socket) dial(ctx context.Context) (*conn, error) {
	dialCtx := ctx
	if s.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, s.cfg.HandshakeTimeout)
		defer cancel()
	}
	ws, _, err := websocket.Dial(dialCtx, s.cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	return newConn(ws, s.cfg.ReadTimeout, s.cfg.WriteTimeout), nil
}

func (s *Socket) startLoops(cn *conn) {
	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.conn = cn
	s.connected = true
	s.cancel = cancel
	s.mu.Unlock()

	go s.readLoop(runCtx, cn)
	go s.writeLoop(runCtx, cn)
}

func (s *Socket) readLoop(ctx context.Context, cn *conn) {
	for {
		var env Envelope
		if err := cn.read(ctx, &env); err != nil {
			if !isExpectedClose(ctx, err) {
				s.log.Warn().Err(err).Msg("socket read failed")
			}
			s.handleDrop()
			return
		}
		if s.onEvent != nil {
			s.onEvent(env.Event, env.Data)
		}
	}
}

func (s *Socket) writeLoop(ctx context.Context, cn *conn) {
	for {
		select {
		case env := <-s.writeCh:
			if err := cn.write(ctx, env); err != nil {
				s.log.Warn().Err(err).Str("event", env.Event).Msg("socket write failed")
				// the read loop notices the dead conn and drives reconnect
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Socket) handleDrop() {
	s.mu.Lock()
	closed := s.closed
	s.connected = false
	s.conn = nil
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	if closed {
		return
	}
	s.fireDisconnect()
	if s.cfg.AutoReconnect {
		go s.reconnectLoop()
	}
}

func (s *Socket) reconnectLoop() {
	delay := s.cfg.ReconnectInterval
	if delay <= 0 {
		delay = time.Second
	}
	for attempt := 1; ; attempt++ {
		if s.cfg.MaxReconnectTries > 0 && attempt > s.cfg.MaxReconnectTries {
			s.log.Error().Int("attempts", s.cfg.MaxReconnectTries).Msg("giving up on reconnect")
			return
		}
		time.Sleep(delay)
		delay *= 2
		if s.cfg.MaxReconnectDelay > 0 && delay > s.cfg.MaxReconnectDelay {
			delay = s.cfg.MaxReconnectDelay
		}

		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return
		}

		s.log.Info().Int("attempt", attempt).Str("url", s.cfg.URL).Msg("reconnecting")
		cn, err := s.dial(context.Background())
		if err != nil {
			s.log.Warn().Err(err).Int("attempt", attempt).Msg("reconnect failed")
			continue
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			_ = cn.close(websocket.StatusNormalClosure, "client close")
			return
		}
		s.mu.Unlock()

		s.startLoops(cn)
		// re-fires the client's connect reactions, auto-join included
		s.fireConnect()
		return
	}
}

func (s *Socket) fireConnect() {
	if s.onConnect != nil {
		s.onConnect()
	}
}

func (s *Socket) fireDisconnect() {
	if s.onDisconnect != nil {
		s.onDisconnect()
	}
}

func isExpectedClose(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	default:
		return false
	}
}

// conn is one live websocket link carrying JSON envelopes, with the
// configured deadlines applied per operation.
type conn struct {
	ws           *websocket.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func newConn(ws *websocket.Conn, readTimeout, writeTimeout time.Duration) *conn {
	return &conn{ws: ws, readTimeout: readTimeout, writeTimeout: writeTimeout}
}

func (c *conn) read(ctx context.Context, env *Envelope) error {
	ctx, cancel := withDeadline(ctx, c.readTimeout)
	defer cancel()
	return wsjson.Read(ctx, c.ws, env)
}

func (c *conn) write(ctx context.Context, env Envelope) error {
	ctx, cancel := withDeadline(ctx, c.writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, c.ws, env)
}

func (c *conn) close(code websocket.StatusCode, reason string) error {
	return c.ws.Close(code, reason)
}

func withDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
