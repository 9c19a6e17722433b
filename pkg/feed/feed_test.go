package feed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"parley/pkg/models"
)

func makeMessages(n int, baseTime int64) []models.Message {
	msgs := make([]models.Message, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, models.NewMessage(int64(i), 1, "m", baseTime+int64(i), -1))
	}
	return msgs
}

func TestVisibleHidesScheduled(t *testing.T) {
	msgs := []models.Message{
		models.NewMessage(1, 1, "past", 100, -1),
		models.NewMessage(2, 1, "now", 200, -1),
		models.NewMessage(3, 1, "future", 300, -1),
	}
	vis := Visible(msgs, 200)
	require.Len(t, vis, 2)
	require.Equal(t, int64(1), vis[0].ID)
	require.Equal(t, int64(2), vis[1].ID)
}

func TestPaginateNewestFirst(t *testing.T) {
	msgs := makeMessages(3, 100)
	page, end, err := Paginate(msgs, 0)
	require.NoError(t, err)
	require.Equal(t, EndOfFeed, end)
	require.Equal(t, int64(2), page[0].ID)
	require.Equal(t, int64(1), page[1].ID)
	require.Equal(t, int64(0), page[2].ID)
}

func TestPaginateStableOnEqualTimestamps(t *testing.T) {
	msgs := []models.Message{
		models.NewMessage(10, 1, "a", 100, -1),
		models.NewMessage(11, 1, "b", 100, -1),
		models.NewMessage(12, 1, "c", 100, -1),
	}
	page, _, err := Paginate(msgs, 0)
	require.NoError(t, err)
	require.Equal(t, int64(10), page[0].ID)
	require.Equal(t, int64(11), page[1].ID)
	require.Equal(t, int64(12), page[2].ID)
}

func TestPaginateWindowBoundary(t *testing.T) {
	// 51 messages: page one is full with end=50, page two holds the last
	// message and terminates.
	msgs := makeMessages(51, 1000)
	page, end, err := Paginate(msgs, 0)
	require.NoError(t, err)
	require.Len(t, page, PageSize)
	require.Equal(t, int64(50), end)

	page, end, err = Paginate(msgs, 50)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, EndOfFeed, end)
}

func TestPaginateExactWindowTerminates(t *testing.T) {
	// Exactly 50 remaining: the page is full and end is -1, not 50.
	msgs := makeMessages(PageSize, 1000)
	page, end, err := Paginate(msgs, 0)
	require.NoError(t, err)
	require.Len(t, page, PageSize)
	require.Equal(t, EndOfFeed, end)
}

func TestPaginateStartEqualsTotal(t *testing.T) {
	msgs := makeMessages(5, 100)
	page, end, err := Paginate(msgs, 5)
	require.NoError(t, err)
	require.Empty(t, page)
	require.Equal(t, EndOfFeed, end)
}

func TestPaginateStartBeyondTotal(t *testing.T) {
	msgs := makeMessages(5, 100)
	_, _, err := Paginate(msgs, 6)
	require.Error(t, err)
}

func TestPaginateStartCountsVisibleOnly(t *testing.T) {
	// Two stored messages but only one visible: start=2 must be rejected
	// against the visible count, not the stored count.
	msgs := []models.Message{
		models.NewMessage(1, 1, "past", 100, -1),
		models.NewMessage(2, 1, "future", 9999, -1),
	}
	vis := Visible(msgs, 200)
	_, _, err := Paginate(vis, 2)
	require.Error(t, err)

	page, end, err := Paginate(vis, 1)
	require.NoError(t, err)
	require.Empty(t, page)
	require.Equal(t, EndOfFeed, end)
}

func TestProjectReacts(t *testing.T) {
	m := models.NewMessage(1, 7, "hi", 100, -1)
	r := m.React(models.DefaultReactID)
	r.UIDs = append(r.UIDs,
		models.ReactEntry{UID: 7, Timestamp: 100},
		models.ReactEntry{UID: 8, Timestamp: 101},
	)

	cm := ProjectMessage(m, 7)
	require.Len(t, cm.Reacts, 1)
	require.Equal(t, []int64{7, 8}, cm.Reacts[0].UIDs)
	require.True(t, cm.Reacts[0].IsThisUserReacted)

	cm = ProjectMessage(m, 9)
	require.False(t, cm.Reacts[0].IsThisUserReacted)
}

func TestWindowComposed(t *testing.T) {
	msgs := []models.Message{
		models.NewMessage(1, 1, "old", 100, -1),
		models.NewMessage(2, 1, "new", 200, -1),
		models.NewMessage(3, 1, "future", 500, -1),
	}
	page, err := Window(msgs, 0, 300, 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), page.Start)
	require.Equal(t, EndOfFeed, page.End)
	require.Len(t, page.Messages, 2)
	require.Equal(t, "new", page.Messages[0].Body)
	require.Equal(t, "old", page.Messages[1].Body)
}

func TestWindowDoesNotReorderStorage(t *testing.T) {
	msgs := []models.Message{
		models.NewMessage(1, 1, "a", 300, -1),
		models.NewMessage(2, 1, "b", 100, -1),
	}
	_, err := Window(msgs, 0, 400, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), msgs[0].ID)
	require.Equal(t, int64(2), msgs[1].ID)
}
