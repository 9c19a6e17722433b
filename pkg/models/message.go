package models

// DefaultReactID is the only react kind the frontend currently knows about.
const DefaultReactID = 1

// ReactEntry records a single user's react together with the time it was
// made. The timestamp only exists to drive "X reacted to your message"
// notifications; it is never exposed to clients.
type ReactEntry struct {
	UID       int64 `json:"uId"`
	Timestamp int64 `json:"timeStamp"`
}

// React is the stored per-kind react state of a message.
type React struct {
	ReactID int64        `json:"reactId"`
	UIDs    []ReactEntry `json:"uIds"`
}

// Message is the stored shape of a message. ShareMsgStart marks the end of
// the portion of Body that is eligible for @tag scanning: for ordinary
// messages it equals len(Body), for shared messages it covers only the
// prepended note, and for packaged standups it is zero.
type Message struct {
	ID            int64   `json:"messageId"`
	UID           int64   `json:"uId"`
	Body          string  `json:"message"`
	TimeSent      int64   `json:"timeSent"`
	ShareMsgStart int     `json:"shareMsgStart"`
	Reacts        []React `json:"reacts"`
	Pinned        bool    `json:"isPinned"`
}

// NewMessage builds a message with the single default react slot. A
// negative shareStart means the whole body is taggable.
func NewMessage(id, uid int64, body string, timeSent int64, shareStart int) Message {
	if shareStart < 0 {
		shareStart = len(body)
	}
	return Message{
		ID:            id,
		UID:           uid,
		Body:          body,
		TimeSent:      timeSent,
		ShareMsgStart: shareStart,
		Reacts:        []React{{ReactID: DefaultReactID, UIDs: []ReactEntry{}}},
	}
}

// React returns the react slot with the given id, or nil.
func (m *Message) React(reactID int64) *React {
	for i := range m.Reacts {
		if m.Reacts[i].ReactID == reactID {
			return &m.Reacts[i]
		}
	}
	return nil
}

// HasReacted reports whether uid already reacted in the given slot.
func (r *React) HasReacted(uid int64) bool {
	for _, e := range r.UIDs {
		if e.UID == uid {
			return true
		}
	}
	return false
}

// ClientReact is the client-facing react shape: bare user ids plus the
// viewer-specific flag, with internal timestamps stripped.
type ClientReact struct {
	ReactID           int64   `json:"reactId"`
	UIDs              []int64 `json:"uIds"`
	IsThisUserReacted bool    `json:"isThisUserReacted"`
}

// ClientMessage is the shape returned from message listing and search.
type ClientMessage struct {
	ID       int64         `json:"messageId"`
	UID      int64         `json:"uId"`
	Body     string        `json:"message"`
	TimeSent int64         `json:"timeSent"`
	Reacts   []ClientReact `json:"reacts"`
	Pinned   bool          `json:"isPinned"`
}
