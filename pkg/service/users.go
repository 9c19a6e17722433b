package service

import (
	"strings"

	"parley/pkg/errdefs"
	"parley/pkg/models"
	"parley/pkg/store"
	"parley/pkg/validation"
)

// Profile is the public view of a user.
type Profile struct {
	UID           int64  `json:"uId"`
	Email         string `json:"email"`
	NameFirst     string `json:"nameFirst"`
	NameLast      string `json:"nameLast"`
	HandleStr     string `json:"handleStr"`
	ProfileImgURL string `json:"profileImgUrl"`
}

func (sv *Service) profile(u *models.User) Profile {
	return Profile{
		UID:           u.ID,
		Email:         u.Email,
		NameFirst:     u.NameFirst,
		NameLast:      u.NameLast,
		HandleStr:     u.Handle,
		ProfileImgURL: sv.profileImgURL(),
	}
}

// refreshMember rewrites u's projection in every member list, so profile
// edits show up in channel and DM details.
func (sv *Service) refreshMember(s *models.Snapshot, u *models.User) {
	m := sv.member(u)
	apply := func(members []models.Member) {
		for i := range members {
			if members[i].UID == u.ID {
				members[i] = m
			}
		}
	}
	for i := range s.Channels {
		apply(s.Channels[i].OwnerMembers)
		apply(s.Channels[i].AllMembers)
	}
	for i := range s.DMs {
		apply(s.DMs[i].AllMembers)
	}
}

// UserProfile returns any user's profile, removed users included.
func (sv *Service) UserProfile(token string, uID int64) (Profile, error) {
	var out Profile
	err := store.View(func(s *models.Snapshot) error {
		if _, err := sv.resolve(s, token); err != nil {
			return err
		}
		target := s.UserByID(uID)
		if target == nil {
			return errdefs.NotFound("user does not exist")
		}
		out = sv.profile(target)
		return nil
	})
	return out, err
}

// UsersAll lists every active user.
func (sv *Service) UsersAll(token string) ([]Profile, error) {
	out := []Profile{}
	err := store.View(func(s *models.Snapshot) error {
		if _, err := sv.resolve(s, token); err != nil {
			return err
		}
		for i := range s.Users {
			if !s.Users[i].Removed {
				out = append(out, sv.profile(&s.Users[i]))
			}
		}
		return nil
	})
	return out, err
}

// UserSetName changes the caller's display name.
func (sv *Service) UserSetName(token, nameFirst, nameLast string) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		if !validation.ValidName(nameFirst) {
			return errdefs.InvalidArgument("invalid first name")
		}
		if !validation.ValidName(nameLast) {
			return errdefs.InvalidArgument("invalid last name")
		}
		u.NameFirst, u.NameLast = nameFirst, nameLast
		sv.refreshMember(s, u)
		return nil
	})
}

// UserSetEmail changes the caller's email.
func (sv *Service) UserSetEmail(token, email string) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		if !validation.ValidEmail(email) {
			return errdefs.InvalidArgument("invalid email")
		}
		if !strings.EqualFold(u.Email, email) && emailTaken(s, email) {
			return errdefs.InvalidArgument("email is already in use")
		}
		u.Email = email
		sv.refreshMember(s, u)
		return nil
	})
}

// UserSetHandle changes the caller's handle.
func (sv *Service) UserSetHandle(token, handle string) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		if !validation.ValidHandle(handle) {
			return errdefs.InvalidArgument("handle must be 3 to 20 alphanumeric characters")
		}
		if existing := s.UserByHandle(handle); existing != nil && existing.ID != u.ID {
			return errdefs.InvalidArgument("handle is already in use")
		}
		u.Handle = handle
		sv.refreshMember(s, u)
		return nil
	})
}
