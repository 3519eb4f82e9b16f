package chatkit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nduong18/chatkit-go/chatkit/rest"
)

// FriendItem is one rendered sidebar row: a friend merged with the
// presence snapshot current at render time.
type FriendItem struct {
	Username string
	Room     string
	LastMsg  string
	// LastTime is zero when the friend has no message preview or its
	// timestamp did not parse.
	LastTime time.Time
	Online   bool
	// Link is the navigation target for opening this conversation.
	Link string
}

// FriendsFetcher loads the remote friend list.
type FriendsFetcher interface {
	Friends(ctx context.Context) ([]rest.Friend, error)
}

// Synchronizer keeps the sidebar in step with the friend list and the
// presence tracker. Every trigger performs an independent fetch+render
// cycle; triggers are not coalesced and in-flight fetches are not
// cancelled, so a slow stale response can overwrite a fresher render.
// That matches the web client this mirrors and is accepted here.
type Synchronizer struct {
	fetch    FriendsFetcher
	presence *Tracker
	view     SidebarView
	log      zerolog.Logger
	report   func(error)
	timeout  time.Duration
}

// NewSynchronizer builds a synchronizer. fetch may be nil, in which case
// Refresh is a no-op (pages without a sidebar).
func NewSynchronizer(fetch FriendsFetcher, presence *Tracker, view SidebarView, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{
		fetch:    fetch,
		presence: presence,
		view:     view,
		log:      log,
	}
}

// SetReport installs an optional error callback for fetch failures.
func (s *Synchronizer) SetReport(fn func(error)) { s.report = fn }

// SetTimeout bounds each fetch attempt. Zero disables the bound.
func (s *Synchronizer) SetTimeout(d time.Duration) { s.timeout = d }

// Refresh fetches and re-renders in the background. A failed fetch is
// logged and leaves the previously rendered sidebar untouched; the next
// natural trigger is the only retry.
func (s *Synchronizer) Refresh(ctx context.Context) {
	if s.fetch == nil {
		return
	}
	go s.refresh(ctx)
}

func (s *Synchronizer) refresh(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	friends, err := s.fetch.Friends(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("sidebar load failed")
		if s.report != nil {
			s.report(WrapError(ErrorFetch, "load friends", err))
		}
		return
	}
	s.view.RenderFriends(s.merge(friends))
}

// merge pairs each friend with a membership test against the latest
// presence set. The tracker itself is never mutated here.
func (s *Synchronizer) merge(friends []rest.Friend) []FriendItem {
	items := make([]FriendItem, 0, len(friends))
	for _, f := range friends {
		item := FriendItem{
			Username: f.Username,
			Room:     f.Room,
			Online:   s.presence.IsOnline(f.Username),
			Link:     f.DeepLink(),
		}
		if f.Last != nil {
			item.LastMsg = f.Last.Msg
			if ts, ok := ParseTimestamp(f.Last.TS); ok {
				item.LastTime = ts.Local()
			}
		}
		items = append(items, item)
	}
	return items
}
