package models

import (
	"time"
)

type User struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;size:32" json:"username"`
	PasswordHash   string    `gorm:"size:255" json:"-"`
	AvatarInitials string    `gorm:"size:2" json:"avatarInitials"` // first two username characters
	AvatarColor    string    `gorm:"size:16" json:"avatarColor"`   // hex color picked at signup
	AvatarImage    string    `gorm:"size:128" json:"avatarImage"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
