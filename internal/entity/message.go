package entity

import "time"

const (
	MessageTypeChat                  = "chat"
	MessageTypeFriendRequest         = "friend-request"
	MessageTypeFriendRequestRejected = "friend-request-rejected"
)

// Message is one owner-scoped copy of a logical message. Chat messages are
// stored twice, once per participant, sharing PairID and CreatedAt; the Owner
// column decides whose read/clear operations touch the row. Friend-request
// rows are stored once, owned by the recipient.
type Message struct {
	ID        string    `gorm:"primaryKey" json:"-"`
	PairID    string    `gorm:"index" json:"-"`
	Owner     string    `gorm:"index;not null" json:"-"`
	Sender    string    `gorm:"index;not null" json:"from"`
	Recipient string    `gorm:"index;not null" json:"to"`
	Content   string    `json:"content"`
	Type      string    `gorm:"index;not null" json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}
