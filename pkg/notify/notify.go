// Package notify derives and delivers user notifications. Tag pushes on
// message edits are immediate; everything else (invites, tags on newly
// visible messages, reacts) is derived lazily when the user asks for
// their notifications, using a per-user watermark so nothing is delivered
// twice.
package notify

import (
	"sort"
	"strings"

	"parley/pkg/models"
)

// Cap is the number of notifications a fetch returns.
const Cap = 20

// excerptLen bounds the message excerpt embedded in tag notifications.
const excerptLen = 20

func excerpt(body string) string {
	if len(body) > excerptLen {
		return body[:excerptLen]
	}
	return body
}

// taggable returns the portion of the body eligible for @handle scanning.
// Shared messages only expose their prepended note; packaged standups
// expose nothing.
func taggable(m *models.Message) string {
	if m.ShareMsgStart < 0 || m.ShareMsgStart > len(m.Body) {
		return m.Body
	}
	return m.Body[:m.ShareMsgStart]
}

// Tagged reports whether the message tags the given handle.
func Tagged(m *models.Message, handle string) bool {
	return strings.Contains(taggable(m), "@"+handle)
}

// PushTags appends a tag notification, stamped now, to every user whose
// handle appears in the message's taggable portion. Used on edits, where
// the message keeps its original send time and would otherwise slip under
// every watermark. Self-tags count; membership of the tagged user is not
// required.
func PushTags(s *models.Snapshot, m *models.Message, ref models.ContainerRef, name string, now int64) {
	sender := s.HandleOf(m.UID)
	for i := range s.Users {
		u := &s.Users[i]
		if u.Removed || !Tagged(m, u.Handle) {
			continue
		}
		u.Notification.Entries = append(u.Notification.Entries, models.NotificationEntry{
			ChannelID: ref.ChannelID(),
			DMID:      ref.DMID(),
			Message:   sender + " tagged you in " + name + ": " + excerpt(m.Body),
			Timestamp: now,
		})
	}
}

// Collect derives the full event stream for a user across every container
// they belong to: invite events, tag events on stored messages, and react
// events on their own messages. Events are unfiltered; Flush applies the
// watermark window.
func Collect(s *models.Snapshot, u *models.User) []models.NotificationEntry {
	var events []models.NotificationEntry
	tag := "@" + u.Handle
	for _, ref := range s.MemberContainers(u.ID) {
		name, _, msgs, ok := s.Container(ref)
		if !ok {
			continue
		}
		var invites []models.Invite
		switch ref.Kind {
		case models.KindChannel:
			invites = s.ChannelByID(ref.ID).Invites
		case models.KindDM:
			invites = s.DMByID(ref.ID).Invites
		}
		if inv := models.InviteFor(u.ID, invites); inv != nil && inv.InviterID != models.NoID {
			events = append(events, models.NotificationEntry{
				ChannelID: ref.ChannelID(),
				DMID:      ref.DMID(),
				Message:   s.HandleOf(inv.InviterID) + " added you to " + name,
				Timestamp: inv.Timestamp,
			})
		}
		for i := range *msgs {
			m := &(*msgs)[i]
			if m.ID >= 0 && strings.Contains(taggable(m), tag) {
				events = append(events, models.NotificationEntry{
					ChannelID: ref.ChannelID(),
					DMID:      ref.DMID(),
					Message:   s.HandleOf(m.UID) + " tagged you in " + name + ": " + excerpt(m.Body),
					Timestamp: m.TimeSent,
				})
			}
			if m.UID != u.ID {
				continue
			}
			for _, r := range m.Reacts {
				for _, e := range r.UIDs {
					events = append(events, models.NotificationEntry{
						ChannelID: ref.ChannelID(),
						DMID:      ref.DMID(),
						Message:   s.HandleOf(e.UID) + " reacted to your message in " + name,
						Timestamp: e.Timestamp,
					})
				}
			}
		}
	}
	return events
}

// Flush delivers pending events: derived events inside the watermark
// window (lastFlush, now] are appended to the persistent log, the
// watermark advances to now, and the newest Cap entries come back with
// timestamps stripped. Events at or below the watermark were delivered by
// an earlier flush and are skipped for good.
func Flush(s *models.Snapshot, u *models.User, now int64) []models.ClientNotification {
	for _, ev := range Collect(s, u) {
		if ev.Timestamp > u.Notification.LastFlush && ev.Timestamp <= now {
			u.Notification.Entries = append(u.Notification.Entries, ev)
		}
	}
	u.Notification.LastFlush = now

	return Render(u.Notification.Entries)
}

// Render sorts the log newest-first (stable), caps it, and strips
// timestamps for the client.
func Render(entries []models.NotificationEntry) []models.ClientNotification {
	sorted := make([]models.NotificationEntry, len(entries))
	copy(sorted, entries)
	stableSortDesc(sorted)
	if len(sorted) > Cap {
		sorted = sorted[:Cap]
	}
	out := make([]models.ClientNotification, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, models.ClientNotification{
			ChannelID: e.ChannelID,
			DMID:      e.DMID,
			Message:   e.Message,
		})
	}
	return out
}

// TrimLog discards stored entries that can never be rendered again: only
// the Cap newest survive. Derived events older than the watermark are
// gone for good anyway, so this is invisible to clients.
func TrimLog(log *models.NotificationLog) {
	if len(log.Entries) <= Cap {
		return
	}
	sorted := make([]models.NotificationEntry, len(log.Entries))
	copy(sorted, log.Entries)
	stableSortDesc(sorted)
	log.Entries = sorted[:Cap]
}

func stableSortDesc(entries []models.NotificationEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
}
