package models

import (
	"time"
)

// ChannelMembership links a user to a channel. LastReadAt is the unread
// watermark: messages created after it count as unread. A nil LastReadAt
// means the member has read nothing yet.
type ChannelMembership struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	ChannelID  string     `gorm:"index:idx_channel_user,unique" json:"channelId"`
	UserID     string     `gorm:"index:idx_channel_user,unique" json:"userId"`
	LastReadAt *time.Time `json:"lastReadAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
