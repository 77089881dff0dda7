package entity

import "time"

// Location is the last reported position of a user. One row per username,
// overwritten on every report.
type Location struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Lng       float64   `gorm:"index" json:"lng"`
	Lat       float64   `gorm:"index" json:"lat"`
	Avatar    string    `json:"avatar"`
	UpdatedAt time.Time `json:"updatedAt"`
}
