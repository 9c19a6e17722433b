package service

import (
	"parley/pkg/errdefs"
	"parley/pkg/feed"
	"parley/pkg/models"
	"parley/pkg/notify"
	"parley/pkg/store"
	"parley/pkg/validation"
)

// ChannelMessages returns a page of the channel feed. An expired standup
// buffer is packaged into the feed before reading.
func (sv *Service) ChannelMessages(token string, channelID, start int64) (feed.Page, error) {
	var page feed.Page
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
		page, err = feed.Window(ch.Messages, start, sv.now(), u.ID)
		return err
	})
	return page, err
}

// DMMessages returns a page of the DM feed.
func (sv *Service) DMMessages(token string, dmID, start int64) (feed.Page, error) {
	var page feed.Page
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
		page, err = feed.Window(dm.Messages, start, sv.now(), u.ID)
		return err
	})
	return page, err
}

// send posts a message. timeSent is ignored for immediate sends; the
// clock is read once so the stamp and the past-check agree.
func (sv *Service) send(token string, ref models.ContainerRef, body string, timeSent int64, scheduled bool) (int64, error) {
	var id int64
	err := store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		_, members, msgs, ok := s.Container(ref)
		if !ok {
			return errdefs.NotFound("channel or dm does not exist")
		}
		if !models.IsMember(u.ID, members) {
			return errdefs.Forbidden("caller is not a member")
		}
		if !validation.ValidMessage(body) {
			return errdefs.InvalidArgument("message must be 1 to 1000 characters")
		}
		now := sv.now()
		if !scheduled {
			timeSent = now
		} else if timeSent < now {
			return errdefs.InvalidArgument("time sent is in the past")
		}
		id = s.NextID()
		*msgs = append(*msgs, models.NewMessage(id, u.ID, body, timeSent, -1))
		return nil
	})
	return id, err
}

// MessageSend posts a message to a channel.
func (sv *Service) MessageSend(token string, channelID int64, body string) (int64, error) {
	return sv.send(token, models.ChannelRef(channelID), body, 0, false)
}

// MessageSendDM posts a message to a DM.
func (sv *Service) MessageSendDM(token string, dmID int64, body string) (int64, error) {
	return sv.send(token, models.DMRef(dmID), body, 0, false)
}

// MessageSendLater schedules a channel message. It is stored at once but
// stays invisible until timeSent; there is no timer behind it.
func (sv *Service) MessageSendLater(token string, channelID int64, body string, timeSent int64) (int64, error) {
	return sv.send(token, models.ChannelRef(channelID), body, timeSent, true)
}

// MessageSendLaterDM schedules a DM message.
func (sv *Service) MessageSendLaterDM(token string, dmID int64, body string, timeSent int64) (int64, error) {
	return sv.send(token, models.DMRef(dmID), body, timeSent, true)
}

// located pairs a message with its container for permission checks.
type located struct {
	msg  *models.Message
	ref  models.ContainerRef
	name string
	// ownerRights: channel owner set membership, or DM ownership
	ownerRights bool
	// member: caller belongs to the holding container
	member bool
}

// locate finds a message anywhere and records the caller's standing in
// its container.
func locate(s *models.Snapshot, uid, messageID int64) (located, error) {
	m, ref := s.FindMessage(messageID)
	if m == nil {
		return located{}, errdefs.NotFound("message does not exist")
	}
	var l located
	l.msg, l.ref = m, ref
	switch ref.Kind {
	case models.KindChannel:
		ch := s.ChannelByID(ref.ID)
		l.name = ch.Name
		l.member = models.IsMember(uid, ch.AllMembers)
		l.ownerRights = models.IsMember(uid, ch.OwnerMembers)
	case models.KindDM:
		dm := s.DMByID(ref.ID)
		l.name = dm.Name
		l.member = models.IsMember(uid, dm.AllMembers)
		l.ownerRights = dm.OwnerID == uid
	}
	return l, nil
}

func removeMessage(s *models.Snapshot, ref models.ContainerRef, messageID int64) {
	_, _, msgs, ok := s.Container(ref)
	if !ok {
		return
	}
	out := (*msgs)[:0]
	for _, m := range *msgs {
		if m.ID != messageID {
			out = append(out, m)
		}
	}
	*msgs = out
}

// MessageEdit replaces a message body. Author only; editing to the empty
// string removes the message; the new body is rescanned for tags with
// notifications stamped at edit time.
func (sv *Service) MessageEdit(token string, messageID int64, body string) error {
	if body == "" {
		return sv.MessageRemove(token, messageID)
	}
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		l, err := locate(s, u.ID, messageID)
		if err != nil {
			return err
		}
		if l.msg.UID != u.ID {
			return errdefs.Forbidden("caller is not the author of the message")
		}
		if len(body) > validation.MessageMax {
			return errdefs.InvalidArgument("message must be at most 1000 characters")
		}
		if l.msg.TimeSent > sv.now() {
			return errdefs.InvalidArgument("message has not been sent yet")
		}
		l.msg.Body = body
		l.msg.ShareMsgStart = len(body)
		notify.PushTags(s, l.msg, l.ref, l.name, sv.now())
		return nil
	})
}

// MessageRemove deletes a message. Author or global owner.
func (sv *Service) MessageRemove(token string, messageID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		l, err := locate(s, u.ID, messageID)
		if err != nil {
			return err
		}
		if l.msg.UID != u.ID && u.Permission != models.PermissionOwner {
			return errdefs.Forbidden("caller may not remove this message")
		}
		if l.msg.TimeSent > sv.now() {
			return errdefs.InvalidArgument("message has not been sent yet")
		}
		removeMessage(s, l.ref, messageID)
		return nil
	})
}

// MessageShare copies a visible message into another container the
// caller belongs to, prefixed with a note. Only the note is eligible for
// tag scanning on the shared copy.
func (sv *Service) MessageShare(token string, ogMessageID int64, note string, target models.ContainerRef) (int64, error) {
	var id int64
	err := store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		l, err := locate(s, u.ID, ogMessageID)
		if err != nil {
			return err
		}
		if !l.member {
			return errdefs.NotFound("message does not exist")
		}
		_, members, msgs, ok := s.Container(target)
		if !ok {
			return errdefs.NotFound("target channel or dm does not exist")
		}
		if !models.IsMember(u.ID, members) {
			return errdefs.Forbidden("caller is not a member of the target")
		}
		if !validation.ValidMessage(note) {
			return errdefs.InvalidArgument("message must be 1 to 1000 characters")
		}
		if l.msg.TimeSent > sv.now() {
			return errdefs.InvalidArgument("message has not been sent yet")
		}
		id = s.NextID()
		*msgs = append(*msgs, models.NewMessage(id, u.ID, note+l.msg.Body, sv.now(), len(note)))
		return nil
	})
	return id, err
}

// MessageReact adds the caller's react. Re-reacting with the same id is
// an error, not a no-op.
func (sv *Service) MessageReact(token string, messageID, reactID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		l, err := locate(s, u.ID, messageID)
		if err != nil {
			return err
		}
		if !l.member {
			return errdefs.NotFound("message does not exist")
		}
		if l.msg.TimeSent > sv.now() {
			return errdefs.InvalidArgument("message has not been sent yet")
		}
		r := l.msg.React(reactID)
		if r == nil {
			return errdefs.InvalidArgument("invalid react id")
		}
		if r.HasReacted(u.ID) {
			return errdefs.InvalidArgument("message already has a react from the caller")
		}
		r.UIDs = append(r.UIDs, models.ReactEntry{UID: u.ID, Timestamp: sv.now()})
		return nil
	})
}

// MessageUnreact removes the caller's react.
func (sv *Service) MessageUnreact(token string, messageID, reactID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		l, err := locate(s, u.ID, messageID)
		if err != nil {
			return err
		}
		if !l.member {
			return errdefs.NotFound("message does not exist")
		}
		r := l.msg.React(reactID)
		if r == nil {
			return errdefs.InvalidArgument("invalid react id")
		}
		if !r.HasReacted(u.ID) {
			return errdefs.InvalidArgument("message has no react from the caller")
		}
		out := r.UIDs[:0]
		for _, e := range r.UIDs {
			if e.UID != u.ID {
				out = append(out, e)
			}
		}
		r.UIDs = out
		return nil
	})
}

// MessagePin marks a message pinned. Owner rights in the container
// required.
func (sv *Service) MessagePin(token string, messageID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		l, err := locate(s, u.ID, messageID)
		if err != nil {
			return err
		}
		if !l.member {
			return errdefs.NotFound("message does not exist")
		}
		if !l.ownerRights {
			return errdefs.Forbidden("caller does not have owner rights")
		}
		if l.msg.TimeSent > sv.now() {
			return errdefs.InvalidArgument("message has not been sent yet")
		}
		if l.msg.Pinned {
			return errdefs.InvalidArgument("message is already pinned")
		}
		l.msg.Pinned = true
		return nil
	})
}

// MessageUnpin clears a message's pin.
func (sv *Service) MessageUnpin(token string, messageID int64) error {
	return store.Update(func(s *models.Snapshot) error {
		u, err := sv.resolve(s, token)
		if err != nil {
			return err
		}
		l, err := locate(s, u.ID, messageID)
		if err != nil {
			return err
		}
		if !l.member {
			return errdefs.NotFound("message does not exist")
		}
		if !l.ownerRights {
			return errdefs.Forbidden("caller does not have owner rights")
		}
		if !l.msg.Pinned {
			return errdefs.InvalidArgument("message is not pinned")
		}
		l.msg.Pinned = false
		return nil
	})
}
