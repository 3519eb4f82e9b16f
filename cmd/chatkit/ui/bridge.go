package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nduong18/chatkit-go/chatkit"
)

// Bridge forwards chatkit render calls into the running program as tea
// messages, keeping all model mutation on the bubbletea goroutine. It
// satisfies chatkit.MessageView, chatkit.SidebarView, and
// chatkit.CollapseView.
type Bridge struct {
	p *tea.Program
}

// NewBridge wraps a program.
func NewBridge(p *tea.Program) *Bridge {
	return &Bridge{p: p}
}

func (b *Bridge) AppendBubble(bb chatkit.Bubble) {
	b.p.Send(BubbleMsg(bb))
}

func (b *Bridge) AppendStatus(text string) {
	b.p.Send(StatusMsg(text))
}

func (b *Bridge) RenderFriends(items []chatkit.FriendItem) {
	b.p.Send(FriendsMsg(items))
}

func (b *Bridge) SetCollapsed(v bool) {
	b.p.Send(CollapseMsg(v))
}
