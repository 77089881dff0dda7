package entity

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Avatar       string    `json:"avatar"`
	AvatarThumb  string    `json:"avatarThumb"`
	GameTags     []string  `gorm:"serializer:json" json:"gameTags"`
	CreatedAt    time.Time `gorm:"not null" json:"-"`
}

// Friendship is one direction of the mutual relation: every friendship is two
// rows, (A,B) and (B,A). The unique index makes the insert an addToSet.
type Friendship struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex:idx_friend_pair;index;not null"`
	Friend    string    `gorm:"uniqueIndex:idx_friend_pair;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
