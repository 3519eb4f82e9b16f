package chatkit

import (
	"sync"
	"time"
)

// Bubble is one rendered message unit in the conversation view.
type Bubble struct {
	Username string
	Text     string
	// Local marks a message authored by the active identity; views
	// typically right-align these.
	Local bool
	Time  time.Time
}

// MessageView receives conversation output in append order.
type MessageView interface {
	AppendBubble(Bubble)
	AppendStatus(text string)
}

// SidebarView renders the merged friends list. RenderFriends is called
// from the fetch goroutine; implementations must tolerate that.
type SidebarView interface {
	RenderFriends([]FriendItem)
}

// CollapseView is any surface that can reflect the collapsed flag.
type CollapseView interface {
	SetCollapsed(bool)
}

// Store is persisted string key-value state, the localStorage analog.
// Get returns the empty string for missing keys.
type Store interface {
	Get(key string) string
	Set(key, value string) error
}

type noopMessageView struct{}

func (noopMessageView) AppendBubble(Bubble) {}
func (noopMessageView) AppendStatus(string) {}

type noopSidebarView struct{}

func (noopSidebarView) RenderFriends([]FriendItem) {}

type noopCollapseView struct{}

func (noopCollapseView) SetCollapsed(bool) {}

// memStore is the default Store: process-lifetime only.
type memStore struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemStore() *memStore {
	return &memStore{m: make(map[string]string)}
}

func (s *memStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key]
}

func (s *memStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
