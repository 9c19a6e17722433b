package service

import (
	"strings"

	"parley/pkg/errdefs"
	"parley/pkg/models"
	"parley/pkg/store"
	"parley/pkg/validation"
)

// StandupStatus is the active-standup report.
type StandupStatus struct {
	IsActive   bool   `json:"isActive"`
	TimeFinish *int64 `json:"timeFinish"`
}

// standupRunning reports whether the channel's standup is live at now.
// There is no timer; the deadline is evaluated lazily on every read.
func standupRunning(ch *models.Channel, now int64) bool {
	return ch.Standup.Active && now < ch.Standup.TimeFinish
}

// flushStandup packages an expired standup buffer into a single message
// and resets the standup. The package is authored by the starter,
// stamped at the deadline rather than the flush, and its whole body is
// open to tag scanning. An empty buffer produces no message.
func flushStandup(s *models.Snapshot, ch *models.Channel, now int64) {
	if !ch.Standup.Active || now < ch.Standup.TimeFinish {
		return
	}
	if len(ch.Standup.Buffer) > 0 {
		body := strings.Join(ch.Standup.Buffer, "\r\n")
		ch.Messages = append(ch.Messages,
			models.NewMessage(s.NextID(), ch.Standup.StarterID, body, ch.Standup.TimeFinish, 0))
	}
	ch.Standup = models.Standup{StarterID: models.NoID, Buffer: []string{}}
}

// FlushStandups sweeps every channel for expired standup buffers. The
// read path flushes lazily already; this keeps packages appearing even
// in channels nobody reads.
func (sv *Service) FlushStandups() error {
	return store.Update(func(s *models.Snapshot) error {
		for i := range s.Channels {
			flushStandup(s, &s.Channels[i], sv.now())
		}
		return nil
	})
}

// StandupStart opens a standup in the channel for length seconds.
func (sv *Service) StandupStart(token string, channelID, length int64) (int64, error) {
	var finish int64
	err := store.Update(func(s *models.Snapshot) error {
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
		if length < 0 {
			return errdefs.InvalidArgument("standup length must not be negative")
		}
		flushStandup(s, ch, sv.now())
		if standupRunning(ch, sv.now()) {
			return errdefs.InvalidArgument("a standup is already running in the channel")
		}
		finish = sv.now() + length
		ch.Standup = models.Standup{
			StarterID:  u.ID,
			TimeFinish: finish,
			Buffer:     []string{},
			Active:     true,
		}
		return nil
	})
	return finish, err
}

// StandupActive reports whether a standup is running and when it ends.
func (sv *Service) StandupActive(token string, channelID int64) (StandupStatus, error) {
	var out StandupStatus
	err := store.Update(func(s *models.Snapshot) error {
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
		flushStandup(s, ch, sv.now())
		if standupRunning(ch, sv.now()) {
			finish := ch.Standup.TimeFinish
			out = StandupStatus{IsActive: true, TimeFinish: &finish}
		}
		return nil
	})
	return out, err
}

// StandupSend buffers a line into the running standup as
// "handle: message". Buffered lines never notify anyone; tags only count
// once the package lands.
func (sv *Service) StandupSend(token string, channelID int64, message string) error {
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
		if len(message) > validation.MessageMax {
			return errdefs.InvalidArgument("message must be at most 1000 characters")
		}
		flushStandup(s, ch, sv.now())
		if !standupRunning(ch, sv.now()) {
			return errdefs.InvalidArgument("no standup is running in the channel")
		}
		ch.Standup.Buffer = append(ch.Standup.Buffer, u.Handle+": "+message)
		return nil
	})
}
