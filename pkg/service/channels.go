package service

import (
	"parley/pkg/errdefs"
	"parley/pkg/models"
	"parley/pkg/store"
	"parley/pkg/validation"
)

// ChannelSummary is the listing shape for channels.
type ChannelSummary struct {
	ChannelID int64  `json:"channelId"`
	Name      string `json:"name"`
}

// ChannelDetails is the detail shape for a channel.
type ChannelDetails struct {
	Name         string          `json:"name"`
	IsPublic     bool            `json:"isPublic"`
	OwnerMembers []models.Member `json:"ownerMembers"`
	AllMembers   []models.Member `json:"allMembers"`
}

// ChannelsCreate makes a new channel with the caller as its first owner
// and member.
func (sv *Service) ChannelsCreate(token, name string, isPublic bool) (int64, error) {
	var id int64
	err := store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		if !validation.ValidChannelName(name) {
			return errdefs.InvalidArgument("channel name must be 1 to 20 characters")
		}
		id = s.NextID()
		creator := sv.member(u)
		s.Channels = append(s.Channels, models.Channel{
			ID:           id,
			Name:         name,
			IsPublic:     isPublic,
			OwnerMembers: []models.Member{creator},
			AllMembers:   []models.Member{creator},
			Messages:     []models.Message{},
			Invites: []models.Invite{
				{UID: u.ID, Timestamp: sv.now(), InviterID: models.NoID},
			},
		})
		return nil
	})
	return id, err
}

// ChannelsList returns the channels the caller belongs to.
func (sv *Service) ChannelsList(token string) ([]ChannelSummary, error) {
	out := []ChannelSummary{}
	err := store.View(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		for i := range s.Channels {
			if models.IsMember(u.ID, s.Channels[i].AllMembers) {
				out = append(out, ChannelSummary{ChannelID: s.Channels[i].ID, Name: s.Channels[i].Name})
			}
		}
		return nil
	})
	return out, err
}

// ChannelsListAll returns every channel, including private ones.
func (sv *Service) ChannelsListAll(token string) ([]ChannelSummary, error) {
	out := []ChannelSummary{}
	err := store.View(func(s *models.Snapshot) error {
		if _, err := sv.resolve(s, token); err != nil {
			return err
		}
		for i := range s.Channels {
			out = append(out, ChannelSummary{ChannelID: s.Channels[i].ID, Name: s.Channels[i].Name})
		}
		return nil
	})
	return out, err
}

// ChannelDetails returns a channel's metadata and member lists. Members
// only.
func (sv *Service) ChannelDetails(token string, channelID int64) (ChannelDetails, error) {
	var out ChannelDetails
	err := store.View(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		ch := s.ChannelByID(channelID)
		if ch == nil {
			return errdefs.NotFound("channel does not exist")
		}
		if !models.IsMember(u.ID, ch.AllMembers) {
			return errdefs.Forbidden("caller is not a member of the channel")
		}
		out = ChannelDetails{
			Name:         ch.Name,
			IsPublic:     ch.IsPublic,
			OwnerMembers: ch.OwnerMembers,
			AllMembers:   ch.AllMembers,
		}
		return nil
	})
	return out, err
}

// ChannelJoin adds the caller to a public channel. Global owners may
// join private channels too.
func (sv *Service) ChannelJoin(token string, channelID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		ch := s.ChannelByID(channelID)
		if ch == nil {
			return errdefs.NotFound("channel does not exist")
		}
		if models.IsMember(u.ID, ch.AllMembers) {
			return errdefs.Forbidden("user is already in the channel")
		}
		if !ch.IsPublic && u.Permission != models.PermissionOwner {
			return errdefs.Forbidden("channel is private")
		}
		ch.AllMembers = append(ch.AllMembers, sv.member(u))
		ch.Invites = append(ch.Invites, models.Invite{
			UID: u.ID, Timestamp: sv.now(), InviterID: models.NoID,
		})
		return nil
	})
}

// ChannelInvite adds uID to the channel immediately. The invite record
// carries the inviter, which later becomes an "added you" notification.
func (sv *Service) ChannelInvite(token string, channelID, uID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		ch := s.ChannelByID(channelID)
		if ch == nil {
			return errdefs.NotFound("channel does not exist")
		}
		invited := s.UserByID(uID)
		if invited == nil || invited.Removed {
			return errdefs.NotFound("invited user does not exist")
		}
		if !models.IsMember(u.ID, ch.AllMembers) {
			return errdefs.Forbidden("caller is not a member of the channel")
		}
		if models.IsMember(uID, ch.AllMembers) {
			return errdefs.InvalidArgument("user is already a member of the channel")
		}
		ch.AllMembers = append(ch.AllMembers, sv.member(invited))
		ch.Invites = append(ch.Invites, models.Invite{
			UID: uID, Timestamp: sv.now(), InviterID: u.ID,
		})
		return nil
	})
}

// ChannelLeave removes the caller's membership and ownership. The
// starter of an active standup cannot leave until it finishes.
func (sv *Service) ChannelLeave(token string, channelID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		ch := s.ChannelByID(channelID)
		if ch == nil {
			return errdefs.NotFound("channel does not exist")
		}
		if !models.IsMember(u.ID, ch.AllMembers) {
			return errdefs.Forbidden("caller is not a member of the channel")
		}
		if standupRunning(ch, sv.now()) && ch.Standup.StarterID == u.ID {
			return errdefs.InvalidArgument("caller is the starter of an active standup")
		}
		ch.OwnerMembers = models.RemoveMember(u.ID, ch.OwnerMembers)
		ch.AllMembers = models.RemoveMember(u.ID, ch.AllMembers)
		return nil
	})
}

// ownerRights reports whether uid may act as an owner of the channel:
// either a channel owner, or a global owner who is a member.
func ownerRights(s *models.Snapshot, ch *models.Channel, uid int64) bool {
	if models.IsMember(uid, ch.OwnerMembers) {
		return true
	}
	u := s.UserByID(uid)
	return u != nil && u.Permission == models.PermissionOwner && models.IsMember(uid, ch.AllMembers)
}

// ChannelAddOwner promotes a member to channel owner.
func (sv *Service) ChannelAddOwner(token string, channelID, uID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		ch := s.ChannelByID(channelID)
		if ch == nil {
			return errdefs.NotFound("channel does not exist")
		}
		target := s.UserByID(uID)
		if target == nil || target.Removed {
			return errdefs.NotFound("user does not exist")
		}
		if !ownerRights(s, ch, u.ID) {
			return errdefs.Forbidden("caller does not have owner rights in the channel")
		}
		if !models.IsMember(uID, ch.AllMembers) {
			return errdefs.InvalidArgument("user is not a member of the channel")
		}
		if models.IsMember(uID, ch.OwnerMembers) {
			return errdefs.InvalidArgument("user is already an owner of the channel")
		}
		ch.OwnerMembers = append(ch.OwnerMembers, sv.member(target))
		return nil
	})
}

// ChannelRemoveOwner demotes a channel owner. The last owner stays.
func (sv *Service) ChannelRemoveOwner(token string, channelID, uID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		ch := s.ChannelByID(channelID)
		if ch == nil {
			return errdefs.NotFound("channel does not exist")
		}
		target := s.UserByID(uID)
		if target == nil || target.Removed {
			return errdefs.NotFound("user does not exist")
		}
		if !models.IsMember(u.ID, ch.AllMembers) {
			return errdefs.Forbidden("caller is not a member of the channel")
		}
		if !ownerRights(s, ch, u.ID) {
			return errdefs.Forbidden("caller does not have owner rights in the channel")
		}
		if !models.IsMember(uID, ch.OwnerMembers) {
			return errdefs.InvalidArgument("user is not an owner of the channel")
		}
		if len(ch.OwnerMembers) == 1 {
			return errdefs.InvalidArgument("user is the only owner of the channel")
		}
		ch.OwnerMembers = models.RemoveMember(uID, ch.OwnerMembers)
		return nil
	})
}
