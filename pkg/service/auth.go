package service

import (
	"strconv"
	"strings"

	"parley/pkg/errdefs"
	"parley/pkg/models"
	"parley/pkg/security"
	"parley/pkg/store"
	"parley/pkg/validation"
)

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token      string `json:"token"`
	AuthUserID int64  `json:"authUserId"`
}

func emailTaken(s *models.Snapshot, email string) bool {
	for i := range s.Users {
		if !s.Users[i].Removed && strings.EqualFold(s.Users[i].Email, email) {
			return true
		}
	}
	return false
}

// uniqueHandle derives a free handle from the name pair: the base handle,
// then base0, base1, and so on. The numeric suffix may push past the
// 20-character cap.
func uniqueHandle(s *models.Snapshot, first, last string) string {
	base := validation.BaseHandle(first, last)
	if s.UserByHandle(base) == nil {
		return base
	}
	for n := 0; ; n++ {
		h := base + strconv.Itoa(n)
		if s.UserByHandle(h) == nil {
			return h
		}
	}
}

// Register creates an account and logs it in. The first account becomes
// a global owner.
func (sv *Service) Register(email, password, nameFirst, nameLast string) (AuthResponse, error) {
	var out AuthResponse
	err := store.Update(func(s *models.Snapshot) error {
		if !validation.ValidEmail(email) {
			return errdefs.InvalidArgument("invalid email")
		}
		if !validation.ValidPassword(password) {
			return errdefs.InvalidArgument("password is too short")
		}
		if !validation.ValidName(nameFirst) {
			return errdefs.InvalidArgument("invalid first name")
		}
		if !validation.ValidName(nameLast) {
			return errdefs.InvalidArgument("invalid last name")
		}
		if emailTaken(s, email) {
			return errdefs.InvalidArgument("account already exists")
		}

		hash, err := security.HashPassword(password)
		if err != nil {
			return err
		}
		// user ids are array positions; removed users keep their slot so
		// ids stay stable
		uid := int64(len(s.Users))
		token, sid, err := sv.sessions.Issue(uid)
		if err != nil {
			return err
		}

		u := models.User{
			ID:           uid,
			Email:        email,
			PasswordHash: hash,
			NameFirst:    nameFirst,
			NameLast:     nameLast,
			Handle:       uniqueHandle(s, nameFirst, nameLast),
			Permission:   models.PermissionMember,
			Sessions:     []string{sid},
			ResetCodes:   []string{},
		}
		if len(s.Users) == 0 {
			u.Permission = models.PermissionOwner
		}
		s.Users = append(s.Users, u)

		out = AuthResponse{Token: token, AuthUserID: uid}
		return nil
	})
	return out, err
}

// Login authenticates by email and password and opens a new session.
func (sv *Service) Login(email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := store.Update(func(s *models.Snapshot) error {
		for i := range s.Users {
			u := &s.Users[i]
			if u.Removed || !strings.EqualFold(u.Email, email) {
				continue
			}
			if !security.CheckPassword(u.PasswordHash, password) {
				break
			}
			token, sid, err := sv.sessions.Issue(u.ID)
			if err != nil {
				return err
			}
			u.Sessions = append(u.Sessions, sid)
			out = AuthResponse{Token: token, AuthUserID: u.ID}
			return nil
		}
		return errdefs.InvalidArgument("email or password is incorrect")
	})
	return out, err
}

// Logout invalidates the calling session only; the user's other sessions
// stay live.
func (sv *Service) Logout(token string) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		_, sid, _ := sv.sessions.Parse(token)
		u.DropSession(sid)
		return nil
	})
}

// PasswordResetRequest issues a reset code through the mailer. It
// succeeds regardless of whether the email is known, so callers cannot
// probe for accounts.
func (sv *Service) PasswordResetRequest(email string) error {
	return store.Update(func(s *models.Snapshot) error {
		for i := range s.Users {
			u := &s.Users[i]
			if u.Removed || !strings.EqualFold(u.Email, email) {
				continue
			}
			code, err := security.NewResetCode()
			if err != nil {
				return err
			}
			u.ResetCodes = append(u.ResetCodes, code)
			return sv.mailer.SendResetCode(u.Email, code)
		}
		return nil
	})
}

// PasswordReset consumes a reset code and sets the new password.
func (sv *Service) PasswordReset(resetCode, newPassword string) error {
	return store.Update(func(s *models.Snapshot) error {
		for i := range s.Users {
			u := &s.Users[i]
			for _, c := range u.ResetCodes {
				if c != resetCode {
					continue
				}
				if !validation.ValidPassword(newPassword) {
					return errdefs.InvalidArgument("new password is too short")
				}
				hash, err := security.HashPassword(newPassword)
				if err != nil {
					return err
				}
				u.PasswordHash = hash
				out := u.ResetCodes[:0]
				for _, rc := range u.ResetCodes {
					if rc != resetCode {
						out = append(out, rc)
					}
				}
				u.ResetCodes = out
				return nil
			}
		}
		return errdefs.InvalidArgument("invalid reset code")
	})
}
