// Package feed builds the client view of a container's message history:
// scheduled messages are hidden until due, the remainder is paginated
// newest-first in fixed windows, and reactions are projected per viewer.
package feed

import (
	"sort"

	"parley/pkg/errdefs"
	"parley/pkg/models"
)

// PageSize is the fixed pagination window.
const PageSize = 50

// EndOfFeed is the `end` value returned when a page reaches the last
// visible message.
const EndOfFeed int64 = -1

// Page is the paginated client view of a message feed.
type Page struct {
	Messages []models.ClientMessage `json:"messages"`
	Start    int64                  `json:"start"`
	End      int64                  `json:"end"`
}

// Visible returns the messages whose send time has passed. Scheduled
// messages exist in storage as soon as they are created but stay out of
// every read path until due.
func Visible(msgs []models.Message, now int64) []models.Message {
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.TimeSent <= now {
			out = append(out, m)
		}
	}
	return out
}

// SortNewestFirst orders messages by descending send time. The sort is
// stable so messages sharing a timestamp keep their storage order.
func SortNewestFirst(msgs []models.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].TimeSent > msgs[j].TimeSent
	})
}

// Paginate slices the visible feed at start. start indexes the sorted
// visible list; a start equal to its length yields an empty final page,
// anything beyond it is an error. End is EndOfFeed whenever the window
// covers the remaining messages, including the exact-boundary case where
// start+PageSize equals the total.
func Paginate(visible []models.Message, start int64) ([]models.Message, int64, error) {
	n := int64(len(visible))
	if start < 0 || start > n {
		return nil, 0, errdefs.InvalidArgument("start is greater than the total number of messages")
	}
	sorted := make([]models.Message, len(visible))
	copy(sorted, visible)
	SortNewestFirst(sorted)

	end := start + PageSize
	if end >= n {
		end = EndOfFeed
		return sorted[start:], end, nil
	}
	return sorted[start:end], end, nil
}

// ProjectMessage renders one message for a viewer. React entry timestamps
// never leave the server; isThisUserReacted is computed against the viewer.
func ProjectMessage(m models.Message, viewer int64) models.ClientMessage {
	reacts := make([]models.ClientReact, 0, len(m.Reacts))
	for _, r := range m.Reacts {
		uids := make([]int64, 0, len(r.UIDs))
		reacted := false
		for _, e := range r.UIDs {
			uids = append(uids, e.UID)
			if e.UID == viewer {
				reacted = true
			}
		}
		reacts = append(reacts, models.ClientReact{
			ReactID:           r.ReactID,
			UIDs:              uids,
			IsThisUserReacted: reacted,
		})
	}
	return models.ClientMessage{
		ID:       m.ID,
		UID:      m.UID,
		Body:     m.Body,
		TimeSent: m.TimeSent,
		Reacts:   reacts,
		Pinned:   m.Pinned,
	}
}

// Project renders a message slice for a viewer.
func Project(msgs []models.Message, viewer int64) []models.ClientMessage {
	out := make([]models.ClientMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ProjectMessage(m, viewer))
	}
	return out
}

// Window composes the full read path: filter to visible, paginate, project.
func Window(msgs []models.Message, start, now, viewer int64) (Page, error) {
	visible := Visible(msgs, now)
	window, end, err := Paginate(visible, start)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Messages: Project(window, viewer),
		Start:    start,
		End:      end,
	}, nil
}
