package models

import (
	"time"
)

type Channel struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	OwnerID   string    `gorm:"index" json:"ownerId"`
	Title     string    `gorm:"size:80" json:"title"`
	Code      string    `gorm:"uniqueIndex;size:6" json:"code"` // 6-digit join code
	AllowJoin bool      `json:"allowJoin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
