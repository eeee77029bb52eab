package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"channel-digest/models"
)

// ValidationError marks a rejected settings payload. Handlers surface
// its message with a 400 status.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// SmsSettingsUpdate is the parsed settings payload. Nil pointer fields
// were absent from the request and keep their stored value. Slots carry
// raw ints so range errors can be reported precisely.
type SmsSettingsUpdate struct {
	Enabled   *bool
	Phone     *string
	Schedules []SlotUpdate
	Timezone  *string
}

type SlotUpdate struct {
	Hour   *int `json:"hour"`
	Minute *int `json:"minute"`
}

// validateSchedules checks the slot list and converts it to the bounded
// domain type. The scheduler never sees unvalidated slot data.
func validateSchedules(slots []SlotUpdate) (models.Schedules, error) {
	if slots == nil || len(slots) > models.MaxScheduleSlots {
		return nil, &ValidationError{Msg: "Invalid schedules"}
	}
	out := make(models.Schedules, 0, len(slots))
	for _, sc := range slots {
		if sc.Hour == nil || *sc.Hour < 0 || *sc.Hour > 23 {
			return nil, &ValidationError{Msg: "Invalid schedule hour"}
		}
		if sc.Minute == nil || *sc.Minute < 0 || *sc.Minute > 59 {
			return nil, &ValidationError{Msg: "Invalid schedule minute"}
		}
		out = append(out, models.ScheduleSlot{Hour: uint8(*sc.Hour), Minute: uint8(*sc.Minute)})
	}
	return out, nil
}

// UpdateSmsSettings validates the payload and merges it into the user's
// stored settings, creating the row on first use. Specified fields
// overwrite, unspecified fields keep their previous value. A freshly
// created row starts from defaultTZ so the stored timezone is never
// empty.
func UpdateSmsSettings(db *gorm.DB, userID string, upd SmsSettingsUpdate, defaultTZ string) (*models.SmsSetting, error) {
	schedules, err := validateSchedules(upd.Schedules)
	if err != nil {
		return nil, err
	}

	var s models.SmsSetting
	err = db.Where("user_id = ?", userID).First(&s).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		s = models.SmsSetting{
			ID:        uuid.NewString(),
			UserID:    userID,
			Schedules: models.Schedules{},
			Timezone:  defaultTZ,
		}
	case err != nil:
		return nil, err
	}

	if upd.Enabled != nil {
		s.Enabled = *upd.Enabled
	}
	if upd.Phone != nil {
		s.Phone = *upd.Phone
	}
	s.Schedules = schedules
	if upd.Timezone != nil {
		s.Timezone = *upd.Timezone
	}

	if err := db.Save(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
