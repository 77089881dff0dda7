package service

import (
	"testing"

	"geochat/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendStoresOwnerScopedPair(t *testing.T) {
	env := newTestEnv(t)

	sent, err := env.messages.Send("张三", "李四", "你好", "")
	require.NoError(t, err)
	assert.Equal(t, "李四", sent.Owner)
	assert.False(t, sent.Read)

	var rows []entity.Message
	require.NoError(t, env.db.Order("owner ASC").Find(&rows).Error)
	require.Len(t, rows, 2)

	assert.Equal(t, rows[0].PairID, rows[1].PairID)
	assert.Equal(t, rows[0].CreatedAt, rows[1].CreatedAt)
	for _, row := range rows {
		assert.Equal(t, "张三", row.Sender)
		assert.Equal(t, "李四", row.Recipient)
		assert.Equal(t, "你好", row.Content)
		assert.Equal(t, entity.MessageTypeChat, row.Type)
	}
	byOwner := map[string]entity.Message{rows[0].Owner: rows[0], rows[1].Owner: rows[1]}
	assert.True(t, byOwner["张三"].Read)
	assert.False(t, byOwner["李四"].Read)
}

func TestUnreadLifecycle(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.messages.Send("张三", "李四", "你好", "")
	require.NoError(t, err)

	counts, err := env.messages.UnreadCounts("李四")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"张三": 1}, counts)

	history, err := env.messages.History("李四", "张三")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "张三", history[0].Sender)
	assert.Equal(t, "李四", history[0].Recipient)
	assert.Equal(t, "你好", history[0].Content)

	counts, err = env.messages.UnreadCounts("李四")
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestHistoryIsIdempotentOnContent(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.messages.Send("张三", "李四", "第一条", "")
	require.NoError(t, err)
	_, err = env.messages.Send("李四", "张三", "第二条", "")
	require.NoError(t, err)
	_, err = env.messages.Send("张三", "李四", "第三条", "")
	require.NoError(t, err)

	first, err := env.messages.History("李四", "张三")
	require.NoError(t, err)
	second, err := env.messages.History("李四", "张三")
	require.NoError(t, err)

	require.Len(t, first, 3)
	require.Len(t, second, 3)
	for i := range first {
		assert.Equal(t, first[i].Sender, second[i].Sender)
		assert.Equal(t, first[i].Content, second[i].Content)
		assert.Equal(t, first[i].CreatedAt, second[i].CreatedAt)
	}
	assert.Equal(t, "第一条", first[0].Content)
	assert.Equal(t, "第三条", first[2].Content)
}

func TestClearHistoryIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.messages.Send("张三", "李四", "你好", "")
	require.NoError(t, err)
	_, err = env.messages.Send("李四", "张三", "你好啊", "")
	require.NoError(t, err)

	require.NoError(t, env.messages.ClearHistory("张三", "李四"))

	mine, err := env.messages.History("张三", "李四")
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := env.messages.History("李四", "张三")
	require.NoError(t, err)
	assert.Len(t, theirs, 2)
}

func TestSendPushesAfterWrite(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.messages.Send("张三", "李四", "你好", "")
	require.NoError(t, err)

	events := env.notifier.eventsFor("李四")
	require.Equal(t, []string{EventChatMessage, EventUnreadUpdated}, events)

	// The unread payload reflects the already-persisted state.
	last := env.notifier.pushed[len(env.notifier.pushed)-1]
	counts, ok := last.Payload.(map[string]int64)
	require.True(t, ok)
	assert.Equal(t, int64(1), counts["张三"])
}

func TestSendValidatesInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.messages.Send("", "李四", "你好", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.messages.Send("张三", "李四", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSendRejectsNonChatTypes(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.messages.Send("张三", "李四", "加个好友", entity.MessageTypeFriendRequest)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = env.messages.Send("张三", "李四", "x", entity.MessageTypeFriendRequestRejected)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	// No duplicated request pair may have been written.
	var rows int64
	require.NoError(t, env.db.Model(&entity.Message{}).Count(&rows).Error)
	assert.Zero(t, rows)
}
