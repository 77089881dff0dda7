package service

import (
	"testing"
	"time"

	"geochat/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestAcceptMakesMutualFriends(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "张三")
	env.registerUser(t, "李四")

	require.NoError(t, env.friends.SendRequest("张三", "李四"))

	incoming, err := env.friends.ListIncomingPending("李四")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "张三", incoming[0].From)

	require.NoError(t, env.friends.Resolve("李四", "张三", true))

	friendsOfA, err := env.users.ListFriends("张三")
	require.NoError(t, err)
	friendsOfB, err := env.users.ListFriends("李四")
	require.NoError(t, err)
	assert.Equal(t, []string{"李四"}, friendsOfA)
	assert.Equal(t, []string{"张三"}, friendsOfB)

	incoming, err = env.friends.ListIncomingPending("李四")
	require.NoError(t, err)
	assert.Empty(t, incoming)
	outgoing, err := env.friends.ListOutgoingPending("张三")
	require.NoError(t, err)
	assert.Empty(t, outgoing)
}

func TestRejectDeletesWithoutMarker(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "张三")
	env.registerUser(t, "李四")

	require.NoError(t, env.friends.SendRequest("张三", "李四"))
	require.NoError(t, env.friends.Resolve("李四", "张三", false))

	friendsOfA, err := env.users.ListFriends("张三")
	require.NoError(t, err)
	assert.Empty(t, friendsOfA)

	incoming, err := env.friends.ListIncomingPending("李四")
	require.NoError(t, err)
	assert.Empty(t, incoming)

	// The reject path writes no rejection marker.
	rejected, err := env.friends.ListRejected("张三")
	require.NoError(t, err)
	assert.Empty(t, rejected)

	assert.Contains(t, env.notifier.eventsFor("张三"), EventFriendRequestRejected)
}

func TestSendRequestValidation(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorIs(t, env.friends.SendRequest("张三", "张三"), ErrInvalidRequest)
	assert.ErrorIs(t, env.friends.SendRequest("", "李四"), ErrInvalidRequest)
	assert.ErrorIs(t, env.friends.SendRequest("张三", ""), ErrInvalidRequest)
}

func TestDuplicatePendingRequestsAllResolved(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "张三")
	env.registerUser(t, "李四")

	require.NoError(t, env.friends.SendRequest("张三", "李四"))
	require.NoError(t, env.friends.SendRequest("张三", "李四"))

	incoming, err := env.friends.ListIncomingPending("李四")
	require.NoError(t, err)
	assert.Len(t, incoming, 2)

	require.NoError(t, env.friends.Resolve("李四", "张三", true))

	incoming, err = env.friends.ListIncomingPending("李四")
	require.NoError(t, err)
	assert.Empty(t, incoming)
}

func TestSendRequestClearsStaleRejection(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "张三")
	env.registerUser(t, "李四")

	// Legacy rejection marker left over from an earlier design round.
	require.NoError(t, env.messageRepo.Create(&entity.Message{
		ID:        uuid.New().String(),
		Owner:     "李四",
		Sender:    "张三",
		Recipient: "李四",
		Type:      entity.MessageTypeFriendRequestRejected,
		CreatedAt: time.Now(),
	}))

	rejected, err := env.friends.ListRejected("张三")
	require.NoError(t, err)
	assert.Equal(t, []string{"李四"}, rejected)

	require.NoError(t, env.friends.SendRequest("张三", "李四"))

	rejected, err = env.friends.ListRejected("张三")
	require.NoError(t, err)
	assert.Empty(t, rejected)
}

func TestIncomingPendingCarriesAvatar(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "张三")
	env.registerUser(t, "李四")
	_, _, err := env.users.SetAvatar("张三", "https://cdn.example.com/zs.png")
	require.NoError(t, err)

	require.NoError(t, env.friends.SendRequest("张三", "李四"))

	incoming, err := env.friends.ListIncomingPending("李四")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "https://cdn.example.com/zs.png", incoming[0].Avatar)
}

func TestRemoveFriend(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "张三")
	env.registerUser(t, "李四")

	require.NoError(t, env.friends.SendRequest("张三", "李四"))
	require.NoError(t, env.friends.Resolve("李四", "张三", true))
	require.NoError(t, env.friends.RemoveFriend("张三", "李四"))

	friendsOfA, err := env.users.ListFriends("张三")
	require.NoError(t, err)
	friendsOfB, err := env.users.ListFriends("李四")
	require.NoError(t, err)
	assert.Empty(t, friendsOfA)
	assert.Empty(t, friendsOfB)

	assert.Contains(t, env.notifier.eventsFor("李四"), EventFriendRemovedNotice)
}

func TestFriendListChangeLogIsDurableUntilAcked(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "张三")
	env.registerUser(t, "李四")

	require.NoError(t, env.friends.SendRequest("张三", "李四"))
	require.NoError(t, env.friends.Resolve("李四", "张三", true))

	for _, username := range []string{"张三", "李四"} {
		count, err := env.friends.UnreadFriendListChangeCount(username)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, username)
		assert.Contains(t, env.notifier.eventsFor(username), EventFriendListChanged)
	}

	require.NoError(t, env.friends.MarkFriendListChangesRead("李四"))

	count, err := env.friends.UnreadFriendListChangeCount("李四")
	require.NoError(t, err)
	assert.Zero(t, count)

	// Acked rows are deleted, not retained.
	var rows int64
	require.NoError(t, env.db.Model(&entity.FriendListEvent{}).Where("username = ?", "李四").Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestIncomingRequestsCountAsUnreadUntilCleared(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "张三")
	env.registerUser(t, "李四")

	require.NoError(t, env.friends.SendRequest("张三", "李四"))

	counts, err := env.messages.UnreadCounts("李四")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["张三"])

	require.NoError(t, env.friends.MarkIncomingRequestsRead("李四"))

	counts, err = env.messages.UnreadCounts("李四")
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestResolveNotifiesBothPendingLists(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "张三")
	env.registerUser(t, "李四")

	require.NoError(t, env.friends.SendRequest("张三", "李四"))
	require.NoError(t, env.friends.Resolve("李四", "张三", false))

	assert.Contains(t, env.notifier.eventsFor("张三"), EventPendingRequestsUpdated)
	assert.Contains(t, env.notifier.eventsFor("李四"), EventPendingRequestsUpdated)
}
