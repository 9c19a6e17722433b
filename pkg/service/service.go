// Package service implements the platform's operations against the
// snapshot store. Every operation follows the same discipline: resolve
// the session, check existence, check permission, check values, mutate,
// persist. Mutations run inside store.Update so the whole
// read-modify-write cycle is atomic.
package service

import (
	"time"

	"parley/pkg/auth"
	"parley/pkg/errdefs"
	"parley/pkg/mail"
	"parley/pkg/models"
)

type Service struct {
	sessions *auth.Sessions
	mailer   mail.Mailer
	baseURL  string
	now      func() int64
}

// New builds a Service. now may be nil, in which case wall-clock seconds
// are used; tests inject their own clock.
func New(sessions *auth.Sessions, mailer mail.Mailer, baseURL string, now func() int64) *Service {
	if now == nil {
		now = func() int64 { return time.Now().Unix() }
	}
	if mailer == nil {
		mailer = mail.LogMailer{}
	}
	return &Service{sessions: sessions, mailer: mailer, baseURL: baseURL, now: now}
}

// resolve maps a session token to the live user it belongs to. A token
// whose session id was revoked (logout, admin removal) is dead even if
// its signature is still valid.
func (sv *Service) resolve(s *models.Snapshot, token string) (*models.User, error) {
	uid, sid, err := sv.sessions.Parse(token)
	if err != nil {
		return nil, err
	}
	u := s.UserByID(uid)
	if u == nil || u.Removed || !u.HasSession(sid) {
		return nil, errdefs.Unauthorized("token does not belong to a user")
	}
	return u, nil
}

// profileImgURL returns the avatar URL for a user. The upload/crop
// pipeline is an external collaborator; everyone gets the default image.
func (sv *Service) profileImgURL() string {
	return sv.baseURL + "/profile-photos/default.jpg"
}

// member builds the membership projection of a user.
func (sv *Service) member(u *models.User) models.Member {
	return models.Member{
		UID:           u.ID,
		Email:         u.Email,
		NameFirst:     u.NameFirst,
		NameLast:      u.NameLast,
		HandleStr:     u.Handle,
		ProfileImgURL: sv.profileImgURL(),
	}
}
