package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"channel-digest/scheduler"
)

// RunDigestJob handles one fired trigger: build the unread digest and
// hand it to the sender. Every failure path is a logged no-op; retrying
// is the queue infrastructure's business, not ours.
func RunDigestJob(db *gorm.DB, sender SmsSender, task scheduler.Task) {
	if task.Name != DigestJobName {
		zap.L().Warn("unknown job, skipping", zap.String("name", task.Name))
		return
	}
	if sender == nil {
		// SMS not configured
		return
	}

	digest, err := BuildDigest(db, task.UserID)
	if err != nil {
		zap.L().Error("build digest failed",
			zap.String("userID", task.UserID), zap.Error(err))
		return
	}
	if digest == nil {
		return
	}

	if err := sender.Send(digest.To, digest.Body); err != nil {
		zap.L().Error("digest send failed",
			zap.String("userID", task.UserID), zap.Error(err))
		return
	}
	zap.L().Info("digest sent", zap.String("userID", task.UserID))
}
