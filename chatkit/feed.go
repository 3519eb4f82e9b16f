package chatkit

import "time"

// Feed renders history batches and live messages into the message view in
// arrival order. It never reorders, merges by timestamp, or dedups against
// history: a backlog of N messages followed by M live messages produces
// exactly N+M bubbles.
type Feed struct {
	resolver *Resolver
	view     MessageView
	now      func() time.Time
}

// NewFeed builds a feed rendering into view.
func NewFeed(resolver *Resolver, view MessageView) *Feed {
	return &Feed{resolver: resolver, view: view, now: time.Now}
}

// RenderHistory renders a backlog in sequence order, immediately and once
// per receipt. Repeated history payloads render additively.
func (f *Feed) RenderHistory(p HistoryPayload) {
	for _, m := range p.Messages {
		f.render(m)
	}
}

// RenderLive appends one received message after all prior content.
func (f *Feed) RenderLive(m MessageEvent) {
	f.render(m)
}

func (f *Feed) render(m MessageEvent) {
	name := m.Username
	if name == "" {
		name = DefaultUsername
	}
	// alignment uses the identity current at render time, not receipt time
	local := name == f.resolver.Resolve().Username
	ts, ok := ParseTimestamp(m.TS)
	if !ok {
		ts = f.now()
	}
	f.view.AppendBubble(Bubble{
		Username: name,
		Text:     m.Msg,
		Local:    local,
		Time:     ts.Local(),
	})
}

// naiveLayout is the zoneless isoformat the chat server produces for its
// datetime columns.
const naiveLayout = "2006-01-02T15:04:05.999999"

// ParseTimestamp decodes a server timestamp, RFC 3339 or naive isoformat.
// Naive timestamps are taken as UTC, matching the server clock. The second
// return is false when s is empty or unparsable.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(naiveLayout, s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}
