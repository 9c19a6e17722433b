package service

import (
	"sort"
	"strings"

	"parley/pkg/errdefs"
	"parley/pkg/models"
	"parley/pkg/store"
)

// DMSummary is the listing shape for DMs.
type DMSummary struct {
	DMID int64  `json:"dmId"`
	Name string `json:"name"`
}

// DMInfo is the detail shape for a DM.
type DMInfo struct {
	Name    string          `json:"name"`
	Members []models.Member `json:"members"`
}

// DMCreate opens a DM between the caller and uIDs. The name is the
// members' handles in alphabetical order, comma separated, and is fixed
// at creation.
func (sv *Service) DMCreate(token string, uIDs []int64) (int64, error) {
	var id int64
	err := store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		seen := map[int64]bool{u.ID: true}
		members := []models.Member{sv.member(u)}
		handles := []string{u.Handle}
		for _, uid := range uIDs {
			if seen[uid] {
				return errdefs.InvalidArgument("duplicate user in dm member list")
			}
			target := s.UserByID(uid)
			if target == nil || target.Removed {
				return errdefs.InvalidArgument("dm member does not exist")
			}
			seen[uid] = true
			members = append(members, sv.member(target))
			handles = append(handles, target.Handle)
		}
		sort.Strings(handles)

		id = s.NextID()
		invites := []models.Invite{
			{UID: u.ID, Timestamp: sv.now(), InviterID: models.NoID},
		}
		for _, uid := range uIDs {
			invites = append(invites, models.Invite{
				UID: uid, Timestamp: sv.now(), InviterID: u.ID,
			})
		}
		s.DMs = append(s.DMs, models.DM{
			ID:         id,
			Name:       strings.Join(handles, ", "),
			AllMembers: members,
			Messages:   []models.Message{},
			OwnerID:    u.ID,
			Invites:    invites,
		})
		return nil
	})
	return id, err
}

// DMList returns the DMs the caller belongs to.
func (sv *Service) DMList(token string) ([]DMSummary, error) {
	out := []DMSummary{}
	err := store.View(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		for i := range s.DMs {
			if models.IsMember(u.ID, s.DMs[i].AllMembers) {
				out = append(out, DMSummary{DMID: s.DMs[i].ID, Name: s.DMs[i].Name})
			}
		}
		return nil
	})
	return out, err
}

// DMDetails returns a DM's name and members. Members only.
func (sv *Service) DMDetails(token string, dmID int64) (DMInfo, error) {
	var out DMInfo
	err := store.View(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		dm := s.DMByID(dmID)
		if dm == nil {
			return errdefs.NotFound("dm does not exist")
		}
		if !models.IsMember(u.ID, dm.AllMembers) {
			return errdefs.Forbidden("caller is not a member of the dm")
		}
		out = DMInfo{Name: dm.Name, Members: dm.AllMembers}
		return nil
	})
	return out, err
}

// DMLeave removes the caller from the DM. The DM and its name survive;
// if the creator leaves, the DM keeps running with no owner.
func (sv *Service) DMLeave(token string, dmID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		dm := s.DMByID(dmID)
		if dm == nil {
			return errdefs.NotFound("dm does not exist")
		}
		if !models.IsMember(u.ID, dm.AllMembers) {
			return errdefs.Forbidden("caller is not a member of the dm")
		}
		dm.AllMembers = models.RemoveMember(u.ID, dm.AllMembers)
		if dm.OwnerID == u.ID {
			dm.OwnerID = models.NoID
		}
		return nil
	})
}

// DMRemove deletes the DM outright. Creator only, and only while the
// creator is still inside it.
func (sv *Service) DMRemove(token string, dmID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		dm := s.DMByID(dmID)
		if dm == nil {
			return errdefs.NotFound("dm does not exist")
		}
		if dm.OwnerID != u.ID {
			return errdefs.Forbidden("caller is not the creator of the dm")
		}
		if !models.IsMember(u.ID, dm.AllMembers) {
			return errdefs.Forbidden("caller is no longer in the dm")
		}
		out := s.DMs[:0]
		for i := range s.DMs {
			if s.DMs[i].ID != dmID {
				out = append(out, s.DMs[i])
			}
		}
		s.DMs = out
		return nil
	})
}
