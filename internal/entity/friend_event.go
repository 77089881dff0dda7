package entity

import "time"

const FriendEventListChanged = "friend-list-changed"

// FriendListEvent is the durable fallback for a friend-list-changed push: a
// user who was offline when the push fired still sees an unread badge on the
// next poll. Rows are deleted once acknowledged so they never accumulate.
type FriendListEvent struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Username  string    `gorm:"index;not null" json:"username"`
	Type      string    `gorm:"not null" json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}
