package chatkit

import "time"

// Config controls the client core.
type Config struct {
	// Page carries the values injected by the host page.
	Page PageConfig
	// SidebarFetchTimeout bounds a single friends fetch. Zero disables it.
	SidebarFetchTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SidebarFetchTimeout: 15 * time.Second,
	}
}

// PageConfig is the read-only configuration the host page injects into the
// client: the logged-in user, an optional private-room override, and an
// optional conversation partner name. All fields may be empty.
type PageConfig struct {
	CurrentUser string
	Room        string
	Partner     string
}
