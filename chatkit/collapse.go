package chatkit

import (
	"strconv"

	"github.com/rs/zerolog"
)

// CollapsedKey is the fixed storage key for the sidebar collapse flag.
// Only the literal string "true" counts as collapsed.
const CollapsedKey = "sidebar.collapsed"

// Collapser persists the sidebar collapse flag and projects it onto the
// view. The authoritative value is re-read from the store on every apply,
// never cached between calls, so the view always reflects the latest
// persisted state.
type Collapser struct {
	store Store
	page  CollapseView
	// sidebar may be nil: the page can intermittently lack a sidebar node.
	sidebar CollapseView
	log     zerolog.Logger
}

// NewCollapser builds a collapser over the page-level surface and an
// optional sidebar surface.
func NewCollapser(store Store, page, sidebar CollapseView, log zerolog.Logger) *Collapser {
	return &Collapser{store: store, page: page, sidebar: sidebar, log: log}
}

// Collapsed reads the persisted flag.
func (c *Collapser) Collapsed() bool {
	return c.store.Get(CollapsedKey) == "true"
}

// Apply projects the persisted flag onto the page surface and, when one
// exists, the sidebar surface. Safe to call when the sidebar is absent.
func (c *Collapser) Apply() {
	collapsed := c.Collapsed()
	c.page.SetCollapsed(collapsed)
	if c.sidebar != nil {
		c.sidebar.SetCollapsed(collapsed)
	}
}

// Toggle flips the persisted flag and reapplies it. A failed write is
// logged and the view still reflects whatever the store now holds.
func (c *Collapser) Toggle() {
	if err := c.store.Set(CollapsedKey, strconv.FormatBool(!c.Collapsed())); err != nil {
		c.log.Warn().Err(err).Msg("persist collapse flag failed")
	}
	c.Apply()
}
