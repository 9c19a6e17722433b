package service

import (
	"parley/pkg/errdefs"
	"parley/pkg/models"
	"parley/pkg/store"
)

const removedBody = "Removed user"

func countOwners(s *models.Snapshot) int {
	n := 0
	for i := range s.Users {
		if !s.Users[i].Removed && s.Users[i].Permission == models.PermissionOwner {
			n++
		}
	}
	return n
}

// AdminUserRemove scrubs a user from the platform. Their messages stay
// in place with the body rewritten; their profile keeps resolving as
// "Removed user"; their id slot is never reused.
func (sv *Service) AdminUserRemove(token string, uID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		if u.Permission != models.PermissionOwner {
			return errdefs.Forbidden("caller is not a global owner")
		}
		target := s.UserByID(uID)
		if target == nil || target.Removed {
			return errdefs.NotFound("user does not exist")
		}
		if target.Permission == models.PermissionOwner && countOwners(s) == 1 {
			return errdefs.InvalidArgument("user is the only global owner")
		}

		for i := range s.Channels {
			ch := &s.Channels[i]
			ch.OwnerMembers = models.RemoveMember(uID, ch.OwnerMembers)
			ch.AllMembers = models.RemoveMember(uID, ch.AllMembers)
			scrubMessages(ch.Messages, uID)
		}
		for i := range s.DMs {
			dm := &s.DMs[i]
			dm.AllMembers = models.RemoveMember(uID, dm.AllMembers)
			if dm.OwnerID == uID {
				dm.OwnerID = models.NoID
			}
			scrubMessages(dm.Messages, uID)
		}

		target.Removed = true
		target.NameFirst, target.NameLast = "Removed", "user"
		target.Email, target.Handle, target.PasswordHash = "", "", ""
		target.Permission = models.PermissionMember
		target.Sessions = nil
		return nil
	})
}

func scrubMessages(msgs []models.Message, uid int64) {
	for i := range msgs {
		if msgs[i].UID == uid {
			msgs[i].Body = removedBody
			msgs[i].ShareMsgStart = len(removedBody)
		}
	}
}

// AdminPermissionChange switches a user between global owner and member.
func (sv *Service) AdminPermissionChange(token string, uID int64, permissionID int) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		if u.Permission != models.PermissionOwner {
			return errdefs.Forbidden("caller is not a global owner")
		}
		target := s.UserByID(uID)
		if target == nil || target.Removed {
			return errdefs.NotFound("user does not exist")
		}
		if permissionID != models.PermissionOwner && permissionID != models.PermissionMember {
			return errdefs.InvalidArgument("invalid permission id")
		}
		if target.Permission == permissionID {
			return errdefs.InvalidArgument("user already has that permission")
		}
		if target.Permission == models.PermissionOwner && countOwners(s) == 1 {
			return errdefs.InvalidArgument("user is the only global owner")
		}
		target.Permission = permissionID
		return nil
	})
}
