package chatkit

import "encoding/json"

const (
	eventJoin     = "join"
	eventLeave    = "leave"
	eventMessage  = "message"
	eventStatus   = "status"
	eventHistory  = "history"
	eventPresence = "presence_list"
)

// JoinPayload announces entering or leaving a room.
type JoinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// MessagePayload is an outgoing chat message.
type MessagePayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
	Msg      string `json:"msg"`
}

// StatusPayload is a server-side status line for the conversation view.
type StatusPayload struct {
	Msg string `json:"msg"`
}

// MessageEvent is a received chat message. TS is the server timestamp in
// ISO 8601 form; empty when the server did not attach one.
type MessageEvent struct {
	Username string `json:"username"`
	Msg      string `json:"msg"`
	TS       string `json:"ts,omitempty"`
}

// HistoryPayload delivers the room backlog, oldest first, once after a join.
type HistoryPayload struct {
	Messages []MessageEvent `json:"messages"`
}

// PresencePayload lists the usernames currently online. The server emits
// either {"online": [...]} or a bare array; both forms decode.
type PresencePayload struct {
	Online []string
}

func (p *PresencePayload) UnmarshalJSON(data []byte) error {
	var bare []string
	if err := json.Unmarshal(data, &bare); err == nil {
		p.Online = bare
		return nil
	}
	var obj struct {
		Online []string `json:"online"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.Online = obj.Online
	return nil
}
