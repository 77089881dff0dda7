package service

import (
	"fmt"
	"regexp"
	"sync"
	"testing"

	"geochat/internal/entity"
	"geochat/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Friendship{},
		&entity.Location{},
		&entity.Message{},
		&entity.FriendListEvent{},
	))
	return db
}

type pushedEvent struct {
	Username string
	Event    string
	Payload  any
}

// recordingNotifier captures pushes so tests can assert the push-after-write
// ordering without a live channel.
type recordingNotifier struct {
	mu     sync.Mutex
	pushed []pushedEvent
}

func (n *recordingNotifier) Push(username, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushed = append(n.pushed, pushedEvent{Username: username, Event: event, Payload: payload})
}

func (n *recordingNotifier) eventsFor(username string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var events []string
	for _, p := range n.pushed {
		if p.Username == username {
			events = append(events, p.Event)
		}
	}
	return events
}

type fakeBlobStore struct {
	calls int
	fail  bool
}

func (f *fakeBlobStore) StoreImage(data []byte, contentType string) (string, string, error) {
	f.calls++
	if f.fail {
		return "", "", fmt.Errorf("blob store down")
	}
	return "/uploads/blob.png", "/uploads/blob_thumb.jpg", nil
}

type testEnv struct {
	db       *gorm.DB
	notifier *recordingNotifier
	blobs    *fakeBlobStore

	messageRepo repository.MessageRepository
	eventRepo   repository.FriendEventRepository

	auth     AuthService
	users    UserService
	presence PresenceService
	messages MessageService
	friends  FriendService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	notifier := &recordingNotifier{}
	blobs := &fakeBlobStore{}
	logger := zap.NewNop().Sugar()

	userRepo := repository.NewSQLiteUserRepository(db)
	friendshipRepo := repository.NewSQLiteFriendshipRepository(db)
	locationRepo := repository.NewSQLiteLocationRepository(db)
	messageRepo := repository.NewSQLiteMessageRepository(db)
	eventRepo := repository.NewSQLiteFriendEventRepository(db)

	pattern := regexp.MustCompile(`^[\x{4e00}-\x{9fa5}]{1,10}$`)
	users := NewUserService(userRepo, friendshipRepo, blobs, logger)

	return &testEnv{
		db:          db,
		notifier:    notifier,
		blobs:       blobs,
		messageRepo: messageRepo,
		eventRepo:   eventRepo,
		auth:        NewAuthService(userRepo, pattern, []byte("test-secret"), logger),
		users:       users,
		presence:    NewPresenceService(locationRepo, 3000, 100),
		messages:    NewMessageService(messageRepo, notifier, logger),
		friends:     NewFriendService(messageRepo, eventRepo, userRepo, users, notifier, logger),
	}
}

func (env *testEnv) registerUser(t *testing.T, username string) {
	t.Helper()
	require.NoError(t, env.auth.Register(username, "密码123"))
}
