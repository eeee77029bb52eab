package services

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"gorm.io/gorm"

	"channel-digest/models"
)

// GenerateJoinCode returns a 6-digit code not used by any existing
// channel. After a few collisions it gives up and returns the last
// candidate; the unique index on channels.code is the final guard.
func GenerateJoinCode(db *gorm.DB) string {
	code := randomCode()
	for i := 0; i < 5; i++ {
		var count int64
		db.Model(&models.Channel{}).Where("code = ?", code).Count(&count)
		if count == 0 {
			break
		}
		code = randomCode()
	}
	return code
}

func randomCode() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

// DeleteChannelCascade removes a channel together with its quick
// replies, messages and memberships in one transaction, so a failure
// leaves no rows referencing a deleted channel.
func DeleteChannelCascade(db *gorm.DB, channelID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", channelID).Delete(&models.ChannelQuickReply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("channel_id = ?", channelID).Delete(&models.ChannelMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("channel_id = ?", channelID).Delete(&models.ChannelMembership{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", channelID).Delete(&models.Channel{}).Error
	})
}

// CountUnread returns how many messages in the membership's channel
// were created strictly after its last-read watermark. A missing
// watermark counts everything.
func CountUnread(db *gorm.DB, ms models.ChannelMembership) (int64, error) {
	since := time.Unix(0, 0)
	if ms.LastReadAt != nil {
		since = *ms.LastReadAt
	}

	var count int64
	err := db.Model(&models.ChannelMessage{}).
		Where("channel_id = ? AND created_at > ?", ms.ChannelID, since).
		Count(&count).Error
	return count, err
}

// ListOwnedChannels returns every channel the user owns, most recently
// active first: channels with newer messages come before older ones,
// channels with no messages sort last by creation time.
func ListOwnedChannels(db *gorm.DB, userID string) ([]models.Channel, error) {
	var channels []models.Channel
	if err := db.Where("owner_id = ?", userID).Find(&channels).Error; err != nil {
		return nil, err
	}

	rows := make([]JoinedChannel, 0, len(channels))
	for _, ch := range channels {
		row := JoinedChannel{Channel: ch, JoinedAt: ch.CreatedAt}
		var last models.ChannelMessage
		if err := db.Where("channel_id = ?", ch.ID).Order("created_at DESC").First(&last).Error; err == nil {
			t := last.CreatedAt
			row.LastMessageAt = &t
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return joinedLess(rows[i], rows[j]) })

	out := make([]models.Channel, len(rows))
	for i, row := range rows {
		out[i] = row.Channel
	}
	return out, nil
}

// JoinedChannel is one row of the joined-channels listing.
type JoinedChannel struct {
	Channel       models.Channel
	Owner         *models.User
	UnreadCount   int64
	LastMessageAt *time.Time
	JoinedAt      time.Time
}

// ListJoinedChannels returns every channel the user is a member of,
// with unread counts, ordered by most recent message first and join
// time as tiebreaker.
func ListJoinedChannels(db *gorm.DB, userID string) ([]JoinedChannel, error) {
	var memberships []models.ChannelMembership
	if err := db.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}

	rows := make([]JoinedChannel, 0, len(memberships))
	for _, ms := range memberships {
		var ch models.Channel
		if err := db.Where("id = ?", ms.ChannelID).First(&ch).Error; err != nil {
			// channel deleted while we scanned, skip
			continue
		}

		unread, err := CountUnread(db, ms)
		if err != nil {
			return nil, err
		}

		row := JoinedChannel{Channel: ch, UnreadCount: unread, JoinedAt: ms.CreatedAt}

		var owner models.User
		if err := db.Where("id = ?", ch.OwnerID).First(&owner).Error; err == nil {
			row.Owner = &owner
		}

		var last models.ChannelMessage
		if err := db.Where("channel_id = ?", ch.ID).Order("created_at DESC").First(&last).Error; err == nil {
			t := last.CreatedAt
			row.LastMessageAt = &t
		}

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return joinedLess(rows[i], rows[j]) })
	return rows, nil
}

func joinedLess(a, b JoinedChannel) bool {
	// most recent message first, channels without messages last,
	// then newest join first
	switch {
	case a.LastMessageAt != nil && b.LastMessageAt != nil:
		return a.LastMessageAt.After(*b.LastMessageAt)
	case a.LastMessageAt != nil:
		return true
	case b.LastMessageAt != nil:
		return false
	default:
		return a.JoinedAt.After(b.JoinedAt)
	}
}
