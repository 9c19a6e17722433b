package models

// Permission levels. The first registered user becomes a global owner;
// everyone else starts as a member.
const (
	PermissionOwner  = 1
	PermissionMember = 2
)

// NotificationEntry is a stored notification. Exactly one of ChannelID and
// DMID is NoID. Timestamp orders the log and drives the flush watermark; it
// is stripped from the client shape.
type NotificationEntry struct {
	ChannelID int64  `json:"channelId"`
	DMID      int64  `json:"dmId"`
	Message   string `json:"notificationMessage"`
	Timestamp int64  `json:"timeStamp"`
}

// ClientNotification is the shape returned by notifications/get.
type ClientNotification struct {
	ChannelID int64  `json:"channelId"`
	DMID      int64  `json:"dmId"`
	Message   string `json:"notificationMessage"`
}

// NotificationLog is a user's persistent notification state. LastFlush is
// the high-water mark: events at or below it have already been delivered
// and must not be re-derived.
type NotificationLog struct {
	Entries   []NotificationEntry `json:"notifications"`
	LastFlush int64               `json:"lastUpdate"`
}

type User struct {
	ID           int64           `json:"authUserId"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"password"`
	NameFirst    string          `json:"nameFirst"`
	NameLast     string          `json:"nameLast"`
	Handle       string          `json:"handleStr"`
	Permission   int             `json:"permissionId"`
	Sessions     []string        `json:"sessions"`
	ResetCodes   []string        `json:"resetCodes"`
	Notification NotificationLog `json:"notification"`
	Removed      bool            `json:"isDeleted"`
}

// HasSession reports whether the session id is still live for this user.
func (u *User) HasSession(sid string) bool {
	for _, s := range u.Sessions {
		if s == sid {
			return true
		}
	}
	return false
}

// DropSession removes a session id, logging that session out.
func (u *User) DropSession(sid string) {
	out := u.Sessions[:0]
	for _, s := range u.Sessions {
		if s != sid {
			out = append(out, s)
		}
	}
	u.Sessions = out
}
