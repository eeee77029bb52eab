package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"channel-digest/models"
	"channel-digest/scheduler"
)

// TriggerScheduler is the slice of the scheduling client the schedule
// manager needs. *scheduler.Client implements it.
type TriggerScheduler interface {
	Add(spec, tz, jobID string, task scheduler.Task) error
	JobIDs() []string
	Remove(jobID string)
}

// DigestJobName tags fired triggers so the worker knows what to run.
const DigestJobName = "digest"

// DigestJobID derives the trigger id for a user's schedule slot. The
// format doubles as the removal key, so it must stay stable.
func DigestJobID(userID string, slot int) string {
	return fmt.Sprintf("u:%s:s%d", userID, slot)
}

func userJobPrefix(userID string) string {
	return "u:" + userID + ":"
}

// ReconcileSchedules makes the live trigger set for a user match the
// given slots: every trigger prefixed with the user's id is removed,
// then one daily trigger per slot is registered. Calling it twice with
// the same input leaves exactly one trigger per slot.
func ReconcileSchedules(sched TriggerScheduler, userID string, slots models.Schedules, tz, defaultTZ string) error {
	prefix := userJobPrefix(userID)
	for _, jobID := range sched.JobIDs() {
		if strings.HasPrefix(jobID, prefix) {
			sched.Remove(jobID)
		}
	}

	timezone := tz
	if timezone == "" {
		timezone = defaultTZ
	}

	for i, slot := range slots {
		spec := fmt.Sprintf("%d %d * * *", slot.Minute, slot.Hour)
		task := scheduler.Task{Name: DigestJobName, UserID: userID}
		if err := sched.Add(spec, timezone, DigestJobID(userID, i), task); err != nil {
			return fmt.Errorf("register trigger for slot %d: %w", i, err)
		}
	}
	return nil
}

// ResyncAllSchedules re-registers triggers for every stored settings
// row. The cron registry is in-process, so it starts empty after a
// restart and has to be rebuilt from the database.
func ResyncAllSchedules(db *gorm.DB, sched TriggerScheduler, defaultTZ string) {
	var settings []models.SmsSetting
	if err := db.Find(&settings).Error; err != nil {
		zap.L().Warn("load sms settings for resync failed", zap.Error(err))
		return
	}

	for _, s := range settings {
		if err := ReconcileSchedules(sched, s.UserID, s.Schedules, s.Timezone, defaultTZ); err != nil {
			zap.L().Warn("schedule resync failed",
				zap.String("userID", s.UserID), zap.Error(err))
		}
	}
	zap.L().Info("schedules resynced", zap.Int("users", len(settings)))
}
