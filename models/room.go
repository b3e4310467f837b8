package models

import "time"

// Room is a topic-scoped discussion thread. Host and Topic become nil
// when the referenced row is removed.
type Room struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	HostID       *uint     `gorm:"index" json:"host_id"`
	Host         *User     `gorm:"constraint:OnDelete:SET NULL" json:"host,omitempty"`
	TopicID      *uint     `gorm:"index" json:"topic_id"`
	Topic        *Topic    `gorm:"constraint:OnDelete:SET NULL" json:"topic,omitempty"`
	Name         string    `gorm:"size:200;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Participants []User    `gorm:"many2many:room_participants;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	UpdatedAt    time.Time `gorm:"index" json:"updated"`
	CreatedAt    time.Time `json:"created"`
}

// HostedBy reports whether u is the room's host.
func (r *Room) HostedBy(u *User) bool {
	return r != nil && u != nil && r.HostID != nil && *r.HostID == u.ID
}

// RoomParticipant is a row of the room_participants join table.
type RoomParticipant struct {
	RoomID uint `gorm:"primaryKey"`
	UserID uint `gorm:"primaryKey"`
}

func (RoomParticipant) TableName() string {
	return "room_participants"
}
