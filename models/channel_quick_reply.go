package models

import (
	"time"
)

// ChannelQuickReply is a canned message bound to a keypad digit.
// Only indexes 7, 8 and 9 are used.
type ChannelQuickReply struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ChannelID string    `gorm:"index:idx_channel_index,unique" json:"channelId"`
	Index     int       `gorm:"index:idx_channel_index,unique" json:"index"`
	Text      string    `gorm:"size:140" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
