package service_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"parley/pkg/auth"
	"parley/pkg/errdefs"
	"parley/pkg/feed"
	"parley/pkg/models"
	"parley/pkg/service"
	"parley/pkg/store"
)

type clock struct{ now int64 }

func (c *clock) advance(d int64) { c.now += d }

func newService(t *testing.T) (*service.Service, *clock) {
	t.Helper()
	require.NoError(t, store.Open(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	c := &clock{now: 1_700_000_000}
	sv := service.New(auth.NewSessions("test-secret"), nil, "http://localhost:8080", func() int64 { return c.now })
	return sv, c
}

func register(t *testing.T, sv *service.Service, n int) service.AuthResponse {
	t.Helper()
	out, err := sv.Register(fmt.Sprintf("user%d@example.com", n), "hunter22", "Ada", fmt.Sprintf("Begum%d", n))
	require.NoError(t, err)
	return out
}

func TestRegisterLoginLogout(t *testing.T) {
	sv, _ := newService(t)

	reg, err := sv.Register("ada@example.com", "hunter22", "Ada", "Begum")
	require.NoError(t, err)
	require.Equal(t, int64(0), reg.AuthUserID)

	_, err = sv.Register("ada@example.com", "hunter22", "Ada", "Begum")
	require.Error(t, err)

	login, err := sv.Login("ADA@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, reg.AuthUserID, login.AuthUserID)
	require.NotEqual(t, reg.Token, login.Token)

	_, err = sv.Login("ada@example.com", "wrong")
	require.Error(t, err)

	require.NoError(t, sv.Logout(login.Token))
	_, err = sv.ChannelsList(login.Token)
	require.Error(t, err)

	// the first session is untouched by the second's logout
	_, err = sv.ChannelsList(reg.Token)
	require.NoError(t, err)
}

func TestRegisterHandleDedup(t *testing.T) {
	sv, _ := newService(t)

	for i := 0; i < 3; i++ {
		_, err := sv.Register(fmt.Sprintf("ada%d@example.com", i), "hunter22", "Ada", "Begum")
		require.NoError(t, err)
	}
	tok := mustLogin(t, sv, "ada0@example.com")
	p0, err := sv.UserProfile(tok, 0)
	require.NoError(t, err)
	p1, err := sv.UserProfile(tok, 1)
	require.NoError(t, err)
	p2, err := sv.UserProfile(tok, 2)
	require.NoError(t, err)
	require.Equal(t, "adabegum", p0.HandleStr)
	require.Equal(t, "adabegum0", p1.HandleStr)
	require.Equal(t, "adabegum1", p2.HandleStr)
}

func mustLogin(t *testing.T, sv *service.Service, email string) string {
	t.Helper()
	out, err := sv.Login(email, "hunter22")
	require.NoError(t, err)
	return out.Token
}

func TestChannelLifecycle(t *testing.T) {
	sv, _ := newService(t)
	owner := register(t, sv, 0)
	member := register(t, sv, 1)

	chID, err := sv.ChannelsCreate(owner.Token, "general", true)
	require.NoError(t, err)

	_, err = sv.ChannelsCreate(owner.Token, "", true)
	require.Error(t, err)

	require.NoError(t, sv.ChannelJoin(member.Token, chID))
	require.Error(t, sv.ChannelJoin(member.Token, chID), "double join")

	det, err := sv.ChannelDetails(member.Token, chID)
	require.NoError(t, err)
	require.Len(t, det.AllMembers, 2)
	require.Len(t, det.OwnerMembers, 1)

	require.NoError(t, sv.ChannelAddOwner(owner.Token, chID, member.AuthUserID))
	require.Error(t, sv.ChannelRemoveOwner(owner.Token, chID, member.AuthUserID+99))

	require.NoError(t, sv.ChannelRemoveOwner(member.Token, chID, owner.AuthUserID))
	// last owner stays
	require.Error(t, sv.ChannelRemoveOwner(member.Token, chID, member.AuthUserID))

	require.NoError(t, sv.ChannelLeave(owner.Token, chID))
	det, err = sv.ChannelDetails(member.Token, chID)
	require.NoError(t, err)
	require.Len(t, det.AllMembers, 1)
}

func TestPrivateChannelJoin(t *testing.T) {
	sv, _ := newService(t)
	globalOwner := register(t, sv, 0)
	creator := register(t, sv, 1)
	outsider := register(t, sv, 2)

	chID, err := sv.ChannelsCreate(creator.Token, "secret", false)
	require.NoError(t, err)

	require.Error(t, sv.ChannelJoin(outsider.Token, chID))
	// global owners walk into private channels
	require.NoError(t, sv.ChannelJoin(globalOwner.Token, chID))
}

func TestMessageSendAndPagination(t *testing.T) {
	sv, c := newService(t)
	u := register(t, sv, 0)
	chID, err := sv.ChannelsCreate(u.Token, "general", true)
	require.NoError(t, err)

	for i := 0; i < 55; i++ {
		_, err := sv.MessageSend(u.Token, chID, fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
		c.advance(1)
	}

	page, err := sv.ChannelMessages(u.Token, chID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 50)
	require.Equal(t, int64(50), page.End)
	require.Equal(t, "msg 54", page.Messages[0].Body)

	page, err = sv.ChannelMessages(u.Token, chID, 50)
	require.NoError(t, err)
	require.Len(t, page.Messages, 5)
	require.Equal(t, feed.EndOfFeed, page.End)

	_, err = sv.ChannelMessages(u.Token, chID, 56)
	require.Error(t, err)
}

func TestSendLaterInvisibleUntilDue(t *testing.T) {
	sv, c := newService(t)
	u := register(t, sv, 0)
	chID, err := sv.ChannelsCreate(u.Token, "general", true)
	require.NoError(t, err)

	_, err = sv.MessageSendLater(u.Token, chID, "from the past", c.now-10)
	require.Error(t, err)

	id, err := sv.MessageSendLater(u.Token, chID, "from the future", c.now+100)
	require.NoError(t, err)

	page, err := sv.ChannelMessages(u.Token, chID, 0)
	require.NoError(t, err)
	require.Empty(t, page.Messages)

	// invisible messages cannot be edited or reacted to either
	require.Error(t, sv.MessageEdit(u.Token, id, "too early"))
	require.Error(t, sv.MessageReact(u.Token, id, models.DefaultReactID))

	c.advance(100)
	page, err = sv.ChannelMessages(u.Token, chID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	require.Equal(t, "from the future", page.Messages[0].Body)
}

func TestMessageEditRemoveShare(t *testing.T) {
	sv, c := newService(t)
	u := register(t, sv, 0)
	other := register(t, sv, 1)
	chID, err := sv.ChannelsCreate(u.Token, "general", true)
	require.NoError(t, err)
	dmID, err := sv.DMCreate(u.Token, []int64{other.AuthUserID})
	require.NoError(t, err)

	id, err := sv.MessageSend(u.Token, chID, "original")
	require.NoError(t, err)
	c.advance(1)

	require.Error(t, sv.MessageEdit(other.Token, id, "hijack"))
	require.NoError(t, sv.MessageEdit(u.Token, id, "edited"))

	shared, err := sv.MessageShare(u.Token, id, "fyi: ", models.DMRef(dmID))
	require.NoError(t, err)
	require.NotEqual(t, id, shared)

	page, err := sv.DMMessages(u.Token, dmID, 0)
	require.NoError(t, err)
	require.Equal(t, "fyi: edited", page.Messages[0].Body)

	// editing to empty removes
	require.NoError(t, sv.MessageEdit(u.Token, id, ""))
	page, err = sv.ChannelMessages(u.Token, chID, 0)
	require.NoError(t, err)
	require.Empty(t, page.Messages)
}

func TestReactAndPin(t *testing.T) {
	sv, c := newService(t)
	u := register(t, sv, 0)
	member := register(t, sv, 1)
	chID, err := sv.ChannelsCreate(u.Token, "general", true)
	require.NoError(t, err)
	require.NoError(t, sv.ChannelJoin(member.Token, chID))

	id, err := sv.MessageSend(u.Token, chID, "react to me")
	require.NoError(t, err)
	c.advance(1)

	require.NoError(t, sv.MessageReact(member.Token, id, models.DefaultReactID))
	require.Error(t, sv.MessageReact(member.Token, id, models.DefaultReactID), "double react")
	require.Error(t, sv.MessageReact(member.Token, id, 99), "unknown react id")

	page, err := sv.ChannelMessages(member.Token, chID, 0)
	require.NoError(t, err)
	require.True(t, page.Messages[0].Reacts[0].IsThisUserReacted)
	page, err = sv.ChannelMessages(u.Token, chID, 0)
	require.NoError(t, err)
	require.False(t, page.Messages[0].Reacts[0].IsThisUserReacted)

	require.NoError(t, sv.MessageUnreact(member.Token, id, models.DefaultReactID))
	require.Error(t, sv.MessageUnreact(member.Token, id, models.DefaultReactID))

	require.Error(t, sv.MessagePin(member.Token, id), "members lack owner rights")
	require.NoError(t, sv.MessagePin(u.Token, id))
	require.Error(t, sv.MessagePin(u.Token, id), "already pinned")
	require.NoError(t, sv.MessageUnpin(u.Token, id))
	require.Error(t, sv.MessageUnpin(u.Token, id))
}

func TestDMLifecycle(t *testing.T) {
	sv, _ := newService(t)
	creator := register(t, sv, 0) // handle adabegum0
	peer := register(t, sv, 1)    // handle adabegum1

	_, err := sv.DMCreate(creator.Token, []int64{peer.AuthUserID, peer.AuthUserID})
	require.Error(t, err, "duplicate members")

	dmID, err := sv.DMCreate(creator.Token, []int64{peer.AuthUserID})
	require.NoError(t, err)

	info, err := sv.DMDetails(peer.Token, dmID)
	require.NoError(t, err)
	require.Equal(t, "adabegum0, adabegum1", info.Name)
	require.Len(t, info.Members, 2)

	list, err := sv.DMList(peer.Token)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.Error(t, sv.DMRemove(peer.Token, dmID), "only the creator removes")

	require.NoError(t, sv.DMLeave(creator.Token, dmID))
	info, err = sv.DMDetails(peer.Token, dmID)
	require.NoError(t, err)
	require.Equal(t, "adabegum0, adabegum1", info.Name, "name is fixed at creation")
	require.Len(t, info.Members, 1)

	require.Error(t, sv.DMRemove(creator.Token, dmID), "creator left, cannot remove")
}

func TestStandupFlow(t *testing.T) {
	sv, c := newService(t)
	u := register(t, sv, 0)
	peer := register(t, sv, 1)
	chID, err := sv.ChannelsCreate(u.Token, "general", true)
	require.NoError(t, err)
	require.NoError(t, sv.ChannelJoin(peer.Token, chID))

	_, err = sv.StandupStart(u.Token, chID, -1)
	require.Error(t, err)

	finish, err := sv.StandupStart(u.Token, chID, 60)
	require.NoError(t, err)
	require.Equal(t, c.now+60, finish)

	_, err = sv.StandupStart(peer.Token, chID, 60)
	require.Error(t, err, "one standup at a time")

	st, err := sv.StandupActive(u.Token, chID)
	require.NoError(t, err)
	require.True(t, st.IsActive)
	require.Equal(t, finish, *st.TimeFinish)

	require.NoError(t, sv.StandupSend(u.Token, chID, "did a thing"))
	require.NoError(t, sv.StandupSend(peer.Token, chID, "did another"))

	// buffered lines are not messages yet
	page, err := sv.ChannelMessages(u.Token, chID, 0)
	require.NoError(t, err)
	require.Empty(t, page.Messages)

	// the starter is pinned to the channel while the standup runs
	require.Error(t, sv.ChannelLeave(u.Token, chID))
	require.NoError(t, sv.ChannelLeave(peer.Token, chID))

	c.advance(61)
	st, err = sv.StandupActive(u.Token, chID)
	require.NoError(t, err)
	require.False(t, st.IsActive)
	require.Nil(t, st.TimeFinish)

	page, err = sv.ChannelMessages(u.Token, chID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	require.Equal(t, "adabegum0: did a thing\r\nadabegum1: did another", page.Messages[0].Body)
	require.Equal(t, u.AuthUserID, page.Messages[0].UID)
	require.Equal(t, finish, page.Messages[0].TimeSent)
}

func TestStandupEmptyBufferNoMessage(t *testing.T) {
	sv, c := newService(t)
	u := register(t, sv, 0)
	chID, err := sv.ChannelsCreate(u.Token, "general", true)
	require.NoError(t, err)

	_, err = sv.StandupStart(u.Token, chID, 10)
	require.NoError(t, err)
	c.advance(11)

	page, err := sv.ChannelMessages(u.Token, chID, 0)
	require.NoError(t, err)
	require.Empty(t, page.Messages)
}

func TestNotificationsFlow(t *testing.T) {
	sv, c := newService(t)
	u := register(t, sv, 0)
	peer := register(t, sv, 1)
	chID, err := sv.ChannelsCreate(u.Token, "general", true)
	require.NoError(t, err)

	require.NoError(t, sv.ChannelInvite(u.Token, chID, peer.AuthUserID))
	c.advance(1)

	_, err = sv.MessageSend(u.Token, chID, "hey @adabegum1 look at this")
	require.NoError(t, err)
	c.advance(1)

	id, err := sv.MessageSend(peer.Token, chID, "nice")
	require.NoError(t, err)
	c.advance(1)
	require.NoError(t, sv.MessageReact(u.Token, id, models.DefaultReactID))
	c.advance(1)

	got, err := sv.NotificationsGet(peer.Token)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// newest first
	require.Equal(t, "adabegum0 reacted to your message in general", got[0].Message)
	require.Equal(t, "adabegum0 tagged you in general: hey @adabegum1 look ", got[1].Message)
	require.Equal(t, "adabegum0 added you to general", got[2].Message)

	// the watermark stops re-delivery
	got, err = sv.NotificationsGet(peer.Token)
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestSearch(t *testing.T) {
	sv, c := newService(t)
	u := register(t, sv, 0)
	outsider := register(t, sv, 1)
	chID, err := sv.ChannelsCreate(u.Token, "general", true)
	require.NoError(t, err)

	_, err = sv.MessageSend(u.Token, chID, "Needle in a haystack")
	require.NoError(t, err)
	_, err = sv.MessageSendLater(u.Token, chID, "needle later", c.now+100)
	require.NoError(t, err)
	c.advance(1)

	res, err := sv.Search(u.Token, "needle")
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "Needle in a haystack", res[0].Body)

	res, err = sv.Search(outsider.Token, "needle")
	require.NoError(t, err)
	require.Empty(t, res)

	_, err = sv.Search(u.Token, "")
	require.Error(t, err)
}

func TestAdminUserRemove(t *testing.T) {
	sv, c := newService(t)
	owner := register(t, sv, 0)
	target := register(t, sv, 1)
	chID, err := sv.ChannelsCreate(target.Token, "theirs", true)
	require.NoError(t, err)
	id, err := sv.MessageSend(target.Token, chID, "my message")
	require.NoError(t, err)
	c.advance(1)
	require.NoError(t, sv.ChannelJoin(owner.Token, chID))

	require.Error(t, sv.AdminUserRemove(target.Token, owner.AuthUserID), "members cannot remove")
	require.Error(t, sv.AdminUserRemove(owner.Token, owner.AuthUserID), "last global owner stays")

	require.NoError(t, sv.AdminUserRemove(owner.Token, target.AuthUserID))

	_, err = sv.ChannelsList(target.Token)
	require.Error(t, err, "sessions die with the account")

	p, err := sv.UserProfile(owner.Token, target.AuthUserID)
	require.NoError(t, err)
	require.Equal(t, "Removed", p.NameFirst)
	require.Equal(t, "user", p.NameLast)

	det, err := sv.ChannelDetails(owner.Token, chID)
	require.NoError(t, err)
	require.Len(t, det.AllMembers, 1)

	page, err := sv.ChannelMessages(owner.Token, chID, 0)
	require.NoError(t, err)
	require.Equal(t, "Removed user", page.Messages[0].Body)
	require.Equal(t, id, page.Messages[0].ID)

	// the freed handle and email are reusable
	reg, err := sv.Register("user1@example.com", "hunter22", "Ada", "Begum1")
	require.NoError(t, err)
	require.Equal(t, int64(2), reg.AuthUserID, "id slots are never reused")
}

func TestAdminPermissionChange(t *testing.T) {
	sv, _ := newService(t)
	owner := register(t, sv, 0)
	member := register(t, sv, 1)

	require.Error(t, sv.AdminPermissionChange(member.Token, owner.AuthUserID, models.PermissionMember))
	require.Error(t, sv.AdminPermissionChange(owner.Token, member.AuthUserID, models.PermissionMember), "no-op change")
	require.Error(t, sv.AdminPermissionChange(owner.Token, owner.AuthUserID, models.PermissionMember), "last owner")
	require.Error(t, sv.AdminPermissionChange(owner.Token, member.AuthUserID, 7))

	require.NoError(t, sv.AdminPermissionChange(owner.Token, member.AuthUserID, models.PermissionOwner))
	require.NoError(t, sv.AdminPermissionChange(member.Token, owner.AuthUserID, models.PermissionMember))
}

func TestProfileUpdatesPropagate(t *testing.T) {
	sv, _ := newService(t)
	u := register(t, sv, 0)
	chID, err := sv.ChannelsCreate(u.Token, "general", true)
	require.NoError(t, err)

	require.NoError(t, sv.UserSetName(u.Token, "Grace", "Hopper"))
	require.NoError(t, sv.UserSetHandle(u.Token, "gracehopper"))
	require.Error(t, sv.UserSetHandle(u.Token, "x"), "too short")
	require.NoError(t, sv.UserSetEmail(u.Token, "grace@example.com"))

	det, err := sv.ChannelDetails(u.Token, chID)
	require.NoError(t, err)
	require.Equal(t, "Grace", det.AllMembers[0].NameFirst)
	require.Equal(t, "gracehopper", det.AllMembers[0].HandleStr)
	require.Equal(t, "grace@example.com", det.OwnerMembers[0].Email)
}

func TestPasswordReset(t *testing.T) {
	sv, _ := newService(t)
	register(t, sv, 0)

	// unknown emails are silently accepted
	require.NoError(t, sv.PasswordResetRequest("nobody@example.com"))
	require.Error(t, sv.PasswordReset("000000", "newpassword"))
}

func TestMessageErrorPrecedence(t *testing.T) {
	sv, _ := newService(t)
	owner := register(t, sv, 0)
	member := register(t, sv, 1)

	chID, err := sv.ChannelsCreate(owner.Token, "general", true)
	require.NoError(t, err)
	require.NoError(t, sv.ChannelJoin(member.Token, chID))
	id, err := sv.MessageSend(owner.Token, chID, "hello")
	require.NoError(t, err)

	oversized := strings.Repeat("x", 1001)

	// a request can fail several checks at once; the surfaced class
	// follows existence, then permission, then value constraints
	require.ErrorIs(t, sv.MessageEdit(owner.Token, id+999, oversized), errdefs.ErrNotFound)
	require.ErrorIs(t, sv.MessageEdit(member.Token, id, oversized), errdefs.ErrForbidden)
	require.ErrorIs(t, sv.MessageEdit(owner.Token, id, oversized), errdefs.ErrInvalidArgument)

	_, err = sv.MessageShare(owner.Token, id+999, oversized, models.ChannelRef(chID))
	require.ErrorIs(t, err, errdefs.ErrNotFound)
	_, err = sv.MessageShare(owner.Token, id, oversized, models.ChannelRef(chID))
	require.ErrorIs(t, err, errdefs.ErrInvalidArgument)

	require.NoError(t, sv.MessagePin(owner.Token, id))
	require.ErrorIs(t, sv.MessagePin(member.Token, id), errdefs.ErrForbidden)
	require.ErrorIs(t, sv.MessagePin(owner.Token, id), errdefs.ErrInvalidArgument)

	require.ErrorIs(t, sv.MessageUnpin(member.Token, id), errdefs.ErrForbidden)
	require.NoError(t, sv.MessageUnpin(owner.Token, id))
	require.ErrorIs(t, sv.MessageUnpin(member.Token, id), errdefs.ErrForbidden)
	require.ErrorIs(t, sv.MessageUnpin(owner.Token, id), errdefs.ErrInvalidArgument)
}

func TestMessageSendWithTickingClock(t *testing.T) {
	require.NoError(t, store.Open(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	// every read of the clock lands on a later second
	tick := int64(1_700_000_000)
	sv := service.New(auth.NewSessions("test-secret"), nil, "http://localhost:8080", func() int64 {
		tick++
		return tick
	})

	u, err := sv.Register("ada@example.com", "hunter22", "Ada", "Begum")
	require.NoError(t, err)
	chID, err := sv.ChannelsCreate(u.Token, "general", true)
	require.NoError(t, err)

	id, err := sv.MessageSend(u.Token, chID, "hello")
	require.NoError(t, err)

	page, err := sv.ChannelMessages(u.Token, chID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	require.Equal(t, id, page.Messages[0].ID)
}

func TestClear(t *testing.T) {
	sv, _ := newService(t)
	u := register(t, sv, 0)
	_, err := sv.ChannelsCreate(u.Token, "general", true)
	require.NoError(t, err)

	require.NoError(t, sv.Clear())

	_, err = sv.ChannelsList(u.Token)
	require.Error(t, err, "users are gone too")
}
