// Package ui is the terminal front-end: a bubbletea model implementing the
// chatkit view ports over a message feed, a composer, and a friends
// sidebar with presence dots.
package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nduong18/chatkit-go/chatkit"
)

// NavTarget is where the user asked to go by selecting a friend. The main
// loop tears the whole session down and rebuilds it with these overrides,
// the terminal analog of a full page navigation.
type NavTarget struct {
	Room    string
	Partner string
}

// Messages the Bridge feeds into the program.
type (
	// BubbleMsg appends one message bubble to the feed.
	BubbleMsg chatkit.Bubble
	// StatusMsg appends one status line to the feed.
	StatusMsg string
	// FriendsMsg replaces the rendered sidebar rows.
	FriendsMsg []chatkit.FriendItem
	// CollapseMsg sets the sidebar collapse state.
	CollapseMsg bool
	// ConnectFailedMsg reports that the initial dial failed.
	ConnectFailedMsg struct{ Err error }
)

// feedEntry is one line-group in the conversation: a bubble or a status.
type feedEntry struct {
	bubble *chatkit.Bubble
	status string
}

// Model is the bubbletea model for one client session.
type Model struct {
	client *chatkit.Client
	page   chatkit.PageConfig

	feed     viewport.Model
	input    textinput.Model
	entries  []feedEntry
	friends  []chatkit.FriendItem
	cursor   int
	sidebar  bool // focus on the sidebar pane
	collapse bool

	width  int
	height int
	ready  bool

	nav *NavTarget
}

// New builds the model for a configured, started client.
func New(client *chatkit.Client, page chatkit.PageConfig) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message"
	ti.CharLimit = 2000
	ti.Focus()
	return Model{
		client: client,
		page:   page,
		input:  ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Nav returns the navigation target selected before quit, if any.
func (m Model) Nav() *NavTarget {
	return m.nav
}
