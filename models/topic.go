package models

// Topic names are unique; rooms get-or-create them by exact name.
type Topic struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;size:200;not null" json:"name"`
}
