package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nduong18/chatkit-go/chatkit"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		fw, fh := m.feedSize()
		if !m.ready {
			m.feed = viewport.New(fw, fh)
			m.ready = true
		} else {
			m.feed.Width = fw
			m.feed.Height = fh
		}
		m.input.Width = fw - 4
		m.refreshFeed()
		return m, nil

	case BubbleMsg:
		b := chatkit.Bubble(msg)
		m.entries = append(m.entries, feedEntry{bubble: &b})
		m.refreshFeed()
		return m, nil

	case StatusMsg:
		m.entries = append(m.entries, feedEntry{status: string(msg)})
		m.refreshFeed()
		return m, nil

	case FriendsMsg:
		m.friends = msg
		if m.cursor >= len(m.friends) {
			m.cursor = 0
		}
		return m, nil

	case CollapseMsg:
		m.collapse = bool(msg)
		fw, fh := m.feedSize()
		if m.ready {
			m.feed.Width = fw
			m.feed.Height = fh
			m.refreshFeed()
		}
		return m, nil

	case ConnectFailedMsg:
		m.entries = append(m.entries, feedEntry{status: "Connection failed: " + msg.Err.Error()})
		m.refreshFeed()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.sidebar = !m.sidebar
		if m.sidebar {
			m.input.Blur()
		} else {
			m.input.Focus()
		}
		return m, nil

	case "ctrl+b":
		m.client.ToggleSidebar()
		return m, nil

	case "ctrl+j":
		m.client.Join()
		return m, nil

	case "ctrl+l":
		m.client.Leave()
		return m, nil
	}

	if m.sidebar {
		return m.handleSidebarKey(msg)
	}

	switch msg.String() {
	case "enter":
		m.client.Send(m.input.Value())
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.friends)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.friends) {
			f := m.friends[m.cursor]
			m.nav = &NavTarget{Room: f.Room, Partner: f.Username}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) refreshFeed() {
	if !m.ready {
		return
	}
	m.feed.SetContent(m.renderFeed())
	m.feed.GotoBottom()
}

// feedSize is the viewport geometry left of the sidebar and above the
// composer and status bar.
func (m Model) feedSize() (int, int) {
	w := m.width
	if !m.collapse {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	return w, h
}
