package service

// Events pushed over the realtime channel.
const (
	EventChatMessage            = "chat-message"
	EventUnreadUpdated          = "unread-updated"
	EventNewFriendRequest       = "new-friend-request"
	EventPendingRequestsUpdated = "pending-requests-updated"
	EventFriendListUpdated      = "friend-list-updated"
	EventFriendListChanged      = "friend-list-changed"
	EventFriendRemovedNotice    = "friend-removed-notice"
	EventFriendRequestRejected  = "friend-request-rejected"
)

// Notifier delivers an event to every live connection on a user's channel.
// Delivery is fire-and-forget: a channel with no members swallows the push,
// and no failure ever reaches the caller. Services always finish their store
// writes before pushing, so a reader who polls right after a push sees the
// change.
type Notifier interface {
	Push(username, event string, payload any)
}

// NopNotifier drops every push. Used where no realtime layer is wired.
type NopNotifier struct{}

func (NopNotifier) Push(string, string, any) {}
