package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"channel-digest/models"
)

// digestMaxLines caps the digest body (header + channel lines) so it
// stays within SMS length limits.
const digestMaxLines = 10

const digestHeader = "Unread summary:"

// Digest is a composed unread summary ready to hand to the SMS sender.
type Digest struct {
	To   string
	Body string
}

// BuildDigest composes the unread summary for a user. It returns nil
// when the user has no SMS settings, the feature is disabled, no phone
// is set, or nothing is unread.
func BuildDigest(db *gorm.DB, userID string) (*Digest, error) {
	var settings models.SmsSetting
	if err := db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	if !settings.Enabled || settings.Phone == "" {
		return nil, nil
	}

	var memberships []models.ChannelMembership
	if err := db.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}

	var lines []string
	for _, ms := range memberships {
		var ch models.Channel
		if err := db.Where("id = ?", ms.ChannelID).First(&ch).Error; err != nil {
			// channel deleted under us, skip
			continue
		}

		unread, err := CountUnread(db, ms)
		if err != nil {
			return nil, err
		}
		if unread == 0 {
			continue
		}

		ownerName := "owner"
		var owner models.User
		if err := db.Where("id = ?", ch.OwnerID).First(&owner).Error; err == nil {
			ownerName = owner.Username
		}

		lines = append(lines, fmt.Sprintf("%s (%s) – %d new", ch.Title, ownerName, unread))
	}

	if len(lines) == 0 {
		return nil, nil
	}

	all := append([]string{digestHeader}, lines...)
	if len(all) > digestMaxLines {
		all = all[:digestMaxLines]
	}

	return &Digest{To: settings.Phone, Body: strings.Join(all, "\n")}, nil
}
