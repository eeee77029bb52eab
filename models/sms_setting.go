package models

import (
	"time"
)

// MaxScheduleSlots caps how many daily digest times a user may configure.
const MaxScheduleSlots = 3

// ScheduleSlot is one daily fire time in the user's timezone.
type ScheduleSlot struct {
	Hour   uint8 `json:"hour"`
	Minute uint8 `json:"minute"`
}

type Schedules []ScheduleSlot

// SmsSetting holds a user's digest configuration. One row per user,
// created lazily on the first settings update.
type SmsSetting struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"uniqueIndex" json:"userId"`
	Enabled   bool      `json:"enabled"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Schedules Schedules `gorm:"serializer:json" json:"schedules"`
	Timezone  string    `gorm:"size:64" json:"timezone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
