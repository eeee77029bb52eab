package models

import (
	"time"
)

type ChannelMessage struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ChannelID string    `gorm:"index" json:"channelId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
