package models

import (
	"time"
	"unicode/utf8"
)

type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	RoomID    uint      `gorm:"index;not null" json:"room_id"`
	Room      Room      `gorm:"constraint:OnDelete:CASCADE" json:"room"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	UpdatedAt time.Time `gorm:"index" json:"updated"`
	CreatedAt time.Time `json:"created"`
}

// Preview returns the first 50 characters of the body.
func (m *Message) Preview() string {
	if utf8.RuneCountInString(m.Body) <= 50 {
		return m.Body
	}
	return string([]rune(m.Body)[:50])
}

// AuthoredBy reports whether u wrote the message.
func (m *Message) AuthoredBy(u *User) bool {
	return m != nil && u != nil && m.UserID == u.ID
}
