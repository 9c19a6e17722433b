package service

import (
	"strings"

	"parley/pkg/errdefs"
	"parley/pkg/feed"
	"parley/pkg/models"
	"parley/pkg/notify"
	"parley/pkg/store"
	"parley/pkg/validation"
)

// Search returns every visible message containing queryStr, case
// insensitively, across all containers the caller belongs to. No
// pagination and no defined order.
func (sv *Service) Search(token, queryStr string) ([]models.ClientMessage, error) {
	out := []models.ClientMessage{}
	err := store.View(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		if !validation.ValidMessage(queryStr) {
			return errdefs.InvalidArgument("query must be 1 to 1000 characters")
		}
		query := strings.ToLower(queryStr)
		for _, ref := range s.MemberContainers(u.ID) {
			_, _, msgs, ok := s.Container(ref)
			if !ok {
				continue
			}
			for i := range *msgs {
				m := &(*msgs)[i]
				if m.TimeSent > sv.now() {
					continue
				}
				if strings.Contains(strings.ToLower(m.Body), query) {
					out = append(out, feed.ProjectMessage(*m, u.ID))
				}
			}
		}
		return nil
	})
	return out, err
}

// NotificationsGet delivers the caller's 20 most recent notifications,
// newest first. Pending invite, tag and react events are folded into the
// persistent log before reading.
func (sv *Service) NotificationsGet(token string) ([]models.ClientNotification, error) {
	out := []models.ClientNotification{}
	err := store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		out = notify.Flush(s, u, sv.now())
		return nil
	})
	return out, err
}

// TrimNotificationLogs compacts every user's stored notification log.
// Run by the janitor; delivery behavior is unchanged.
func (sv *Service) TrimNotificationLogs() error {
	return store.Update(func(s *models.Snapshot) error {
		for i := range s.Users {
			notify.TrimLog(&s.Users[i].Notification)
		}
		return nil
	})
}

// Clear wipes the whole dataset.
func (sv *Service) Clear() error {
	return store.Reset()
}
