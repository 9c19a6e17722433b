package models

// Member is the projection of a user that container member lists carry.
type Member struct {
	UID           int64  `json:"uId"`
	Email         string `json:"email"`
	NameFirst     string `json:"nameFirst"`
	NameLast      string `json:"nameLast"`
	HandleStr     string `json:"handleStr"`
	ProfileImgURL string `json:"profileImgUrl"`
}

// Invite records when and by whom a user entered a container. InviterID is
// NoID when the user joined (or created the container) themselves; only
// invites with a real inviter produce "X added you to Y" notifications.
type Invite struct {
	UID       int64 `json:"uId"`
	Timestamp int64 `json:"timeStamp"`
	InviterID int64 `json:"inviterId"`
}

// Standup is a channel's standup buffer. Active standups collect lines
// until TimeFinish; the buffer is packaged into a single message afterwards.
type Standup struct {
	StarterID  int64    `json:"starter"`
	TimeFinish int64    `json:"timeFinish"`
	Buffer     []string `json:"messages"`
	Active     bool     `json:"isActive"`
}

type Channel struct {
	ID           int64     `json:"channelId"`
	Name         string    `json:"name"`
	IsPublic     bool      `json:"isPublic"`
	OwnerMembers []Member  `json:"ownerMembers"`
	AllMembers   []Member  `json:"allMembers"`
	Messages     []Message `json:"messages"`
	Invites      []Invite  `json:"invites"`
	Standup      Standup   `json:"standup"`
}

type DM struct {
	ID         int64     `json:"dmId"`
	Name       string    `json:"name"`
	AllMembers []Member  `json:"allMembers"`
	Messages   []Message `json:"messages"`
	OwnerID    int64     `json:"ownerId"`
	Invites    []Invite  `json:"invites"`
}

// IsMember reports whether uid appears in the member list. Linear scan is
// fine at this scale; iteration order of the list itself is externally
// observable (details endpoints) and must stay insertion-ordered.
func IsMember(uid int64, members []Member) bool {
	for _, m := range members {
		if m.UID == uid {
			return true
		}
	}
	return false
}

// RemoveMember returns members without uid, preserving order.
func RemoveMember(uid int64, members []Member) []Member {
	out := members[:0]
	for _, m := range members {
		if m.UID != uid {
			out = append(out, m)
		}
	}
	return out
}

// InviteFor returns the invite record for uid, or nil.
func InviteFor(uid int64, invites []Invite) *Invite {
	for i := range invites {
		if invites[i].UID == uid {
			return &invites[i]
		}
	}
	return nil
}
