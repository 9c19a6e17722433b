package models

// Snapshot is the whole persisted dataset. Every operation loads it,
// mutates it in memory and saves it back; the store serializes those
// cycles. IDCounter allocates channel, DM and message ids from one space.
type Snapshot struct {
	Users     []User    `json:"users"`
	Channels  []Channel `json:"channels"`
	DMs       []DM      `json:"dms"`
	IDCounter int64     `json:"idCounter"`
}

// NewSnapshot returns an empty dataset.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:    []User{},
		Channels: []Channel{},
		DMs:      []DM{},
	}
}

// NextID hands out the next id. Channel, DM and message ids share the
// counter so an id is unambiguous across the whole dataset.
func (s *Snapshot) NextID() int64 {
	id := s.IDCounter
	s.IDCounter++
	return id
}

// UserByID returns the user with the given id, or nil.
func (s *Snapshot) UserByID(uid int64) *User {
	for i := range s.Users {
		if s.Users[i].ID == uid {
			return &s.Users[i]
		}
	}
	return nil
}

// UserByHandle returns the non-removed user with the given handle, or nil.
func (s *Snapshot) UserByHandle(handle string) *User {
	for i := range s.Users {
		if !s.Users[i].Removed && s.Users[i].Handle == handle {
			return &s.Users[i]
		}
	}
	return nil
}

// HandleOf returns the handle for uid, or the empty string.
func (s *Snapshot) HandleOf(uid int64) string {
	if u := s.UserByID(uid); u != nil {
		return u.Handle
	}
	return ""
}

// ChannelByID returns the channel with the given id, or nil.
func (s *Snapshot) ChannelByID(id int64) *Channel {
	for i := range s.Channels {
		if s.Channels[i].ID == id {
			return &s.Channels[i]
		}
	}
	return nil
}

// DMByID returns the DM with the given id, or nil.
func (s *Snapshot) DMByID(id int64) *DM {
	for i := range s.DMs {
		if s.DMs[i].ID == id {
			return &s.DMs[i]
		}
	}
	return nil
}

// Container resolves a ref to the container's name, member list and
// message slice. The bool is false when the ref does not resolve.
func (s *Snapshot) Container(ref ContainerRef) (name string, members []Member, msgs *[]Message, ok bool) {
	switch ref.Kind {
	case KindChannel:
		if ch := s.ChannelByID(ref.ID); ch != nil {
			return ch.Name, ch.AllMembers, &ch.Messages, true
		}
	case KindDM:
		if dm := s.DMByID(ref.ID); dm != nil {
			return dm.Name, dm.AllMembers, &dm.Messages, true
		}
	}
	return "", nil, nil, false
}

// MemberContainers returns refs for every container uid belongs to,
// channels first, in storage order.
func (s *Snapshot) MemberContainers(uid int64) []ContainerRef {
	var refs []ContainerRef
	for i := range s.Channels {
		if IsMember(uid, s.Channels[i].AllMembers) {
			refs = append(refs, ChannelRef(s.Channels[i].ID))
		}
	}
	for i := range s.DMs {
		if IsMember(uid, s.DMs[i].AllMembers) {
			refs = append(refs, DMRef(s.DMs[i].ID))
		}
	}
	return refs
}

// FindMessage locates a message by id across all containers and returns
// the container ref alongside it. Returns nil when not found.
func (s *Snapshot) FindMessage(id int64) (*Message, ContainerRef) {
	for i := range s.Channels {
		for j := range s.Channels[i].Messages {
			if s.Channels[i].Messages[j].ID == id {
				return &s.Channels[i].Messages[j], ChannelRef(s.Channels[i].ID)
			}
		}
	}
	for i := range s.DMs {
		for j := range s.DMs[i].Messages {
			if s.DMs[i].Messages[j].ID == id {
				return &s.DMs[i].Messages[j], DMRef(s.DMs[i].ID)
			}
		}
	}
	return nil, ContainerRef{}
}
