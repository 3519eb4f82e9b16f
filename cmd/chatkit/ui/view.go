package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nduong18/chatkit-go/chatkit"
)

const (
	sidebarWidth = 28
	previewLimit = 40
)

var (
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	nameStyle     = lipgloss.NewStyle().Bold(true)
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	localStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	onlineDot     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	offlineDot    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("●")
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	sidebarStyle  = lipgloss.NewStyle().
			Width(sidebarWidth).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("240"))
	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236"))
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.feed.View(),
		m.input.View(),
		m.statusBar(),
	)
	if m.collapse {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarPane(), main)
}

func (m Model) renderFeed() string {
	width, _ := m.feedSize()
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		if e.bubble != nil {
			lines = append(lines, renderBubble(*e.bubble, width))
			continue
		}
		lines = append(lines, statusStyle.Render(e.status))
	}
	return strings.Join(lines, "\n")
}

func renderBubble(b chatkit.Bubble, width int) string {
	head := nameStyle.Render(b.Username) + " " + metaStyle.Render(b.Time.Format("15:04"))
	body := head + "\n" + b.Text
	if !b.Local {
		return body
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Right).
		Render(localStyle.Render(head) + "\n" + b.Text)
}

func (m Model) sidebarPane() string {
	_, h := m.feedSize()
	var sb strings.Builder
	sb.WriteString(nameStyle.Render("Friends"))
	sb.WriteString("\n")
	if len(m.friends) == 0 {
		sb.WriteString(metaStyle.Render("nobody yet"))
	}
	for i, f := range m.friends {
		row := friendRow(f)
		if m.sidebar && i == m.cursor {
			row = selectedStyle.Render(row)
		}
		sb.WriteString(row)
		sb.WriteString("\n")
	}
	return sidebarStyle.Height(h + 2).Render(sb.String())
}

func friendRow(f chatkit.FriendItem) string {
	dot := offlineDot
	if f.Online {
		dot = onlineDot
	}
	row := dot + " " + f.Username
	if f.LastMsg != "" {
		row += "\n  " + metaStyle.Render(truncate(f.LastMsg, previewLimit))
	}
	return row
}

func (m Model) statusBar() string {
	id := m.client.Identity()
	parts := []string{
		m.client.State().String(),
		id.Username + "@" + id.Room,
	}
	if m.page.Partner != "" {
		parts = append(parts, "partner: "+m.page.Partner)
	}
	parts = append(parts, "tab: sidebar · ctrl+j/l: join/leave · ctrl+b: collapse")
	w, _ := m.feedSize()
	return barStyle.Width(w).Render(" " + strings.Join(parts, " · "))
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
