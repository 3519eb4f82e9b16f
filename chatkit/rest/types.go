package rest

import "net/url"

// Friend is one row of the sidebar feed.
type Friend struct {
	Username string       `json:"username"`
	Room     string       `json:"room"`
	Last     *LastMessage `json:"last,omitempty"`
}

// LastMessage previews the most recent message in the friend's room. TS is
// the server timestamp in ISO 8601 form.
type LastMessage struct {
	Msg      string `json:"msg"`
	TS       string `json:"ts"`
	Username string `json:"username,omitempty"`
}

// DeepLink is the navigation target for this friend's conversation:
// /?room=<room>&partner=<username>, percent-encoded.
func (f Friend) DeepLink() string {
	return "/?room=" + url.QueryEscape(f.Room) + "&partner=" + url.QueryEscape(f.Username)
}

type friendsResponse struct {
	Friends []Friend `json:"friends"`
}

// ErrorResponse is the server's error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
