package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"channel-digest/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("fail to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Channel{},
		&models.ChannelMembership{},
		&models.ChannelMessage{},
		&models.ChannelQuickReply{},
		&models.SmsSetting{},
	)
	if err != nil {
		t.Fatalf("fail to migrate test db: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{ID: uuid.NewString(), Username: username}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createChannel(t *testing.T, db *gorm.DB, ownerID, title, code string) models.Channel {
	t.Helper()
	ch := models.Channel{ID: uuid.NewString(), OwnerID: ownerID, Title: title, Code: code, AllowJoin: true}
	if err := db.Create(&ch).Error; err != nil {
		t.Fatalf("create channel: %v", err)
	}
	return ch
}

func createMembership(t *testing.T, db *gorm.DB, channelID, userID string, lastReadAt *time.Time) models.ChannelMembership {
	t.Helper()
	ms := models.ChannelMembership{ID: uuid.NewString(), ChannelID: channelID, UserID: userID, LastReadAt: lastReadAt}
	if err := db.Create(&ms).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}
	return ms
}

func createMessageAt(t *testing.T, db *gorm.DB, channelID, authorID string, at time.Time) {
	t.Helper()
	msg := models.ChannelMessage{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		AuthorID:  authorID,
		Content:   "hello",
		CreatedAt: at,
	}
	if err := db.Create(&msg).Error; err != nil {
		t.Fatalf("create message: %v", err)
	}
}

func enableSms(t *testing.T, db *gorm.DB, userID, phone string) {
	t.Helper()
	s := models.SmsSetting{
		ID:        uuid.NewString(),
		UserID:    userID,
		Enabled:   true,
		Phone:     phone,
		Schedules: models.Schedules{},
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("create sms setting: %v", err)
	}
}

func TestBuildDigest_NoSettings(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "reader_one")

	digest, err := BuildDigest(db, user.ID)

	assert.NoError(t, err)
	assert.Nil(t, digest)
}

func TestBuildDigest_Disabled(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "reader_one")
	s := models.SmsSetting{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Enabled:   false,
		Phone:     "+886912345678",
		Schedules: models.Schedules{},
	}
	assert.NoError(t, db.Create(&s).Error)

	digest, err := BuildDigest(db, user.ID)

	assert.NoError(t, err)
	assert.Nil(t, digest)
}

func TestBuildDigest_NoPhone(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "reader_one")
	s := models.SmsSetting{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Enabled:   true,
		Schedules: models.Schedules{},
	}
	assert.NoError(t, db.Create(&s).Error)

	digest, err := BuildDigest(db, user.ID)

	assert.NoError(t, err)
	assert.Nil(t, digest)
}

func TestBuildDigest_NothingUnread(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "owner_user")
	reader := createUser(t, db, "reader_one")
	enableSms(t, db, reader.ID, "+886912345678")

	ch := createChannel(t, db, owner.ID, "Quiet", "111111")
	readAt := time.Now()
	createMembership(t, db, ch.ID, reader.ID, &readAt)
	createMessageAt(t, db, ch.ID, owner.ID, readAt.Add(-time.Hour))

	digest, err := BuildDigest(db, reader.ID)

	assert.NoError(t, err)
	assert.Nil(t, digest)
}

func TestBuildDigest_UnreadScenario(t *testing.T) {
	db := setupTestDB(t)
	opuser := createUser(t, db, "opuser")
	reader := createUser(t, db, "reader_one")
	enableSms(t, db, reader.ID, "+886912345678")

	now := time.Now()

	alerts := createChannel(t, db, opuser.ID, "Alerts", "222222")
	readAt := now.Add(-time.Hour)
	createMembership(t, db, alerts.ID, reader.ID, &readAt)
	for i := 0; i < 3; i++ {
		createMessageAt(t, db, alerts.ID, opuser.ID, now.Add(-time.Duration(i)*time.Minute))
	}

	// owner of Social no longer exists; it has nothing unread anyway
	social := createChannel(t, db, "gone-user-id", "Social", "333333")
	socialRead := now
	createMembership(t, db, social.ID, reader.ID, &socialRead)
	createMessageAt(t, db, social.ID, opuser.ID, now.Add(-2*time.Hour))

	digest, err := BuildDigest(db, reader.ID)

	assert.NoError(t, err)
	assert.NotNil(t, digest)
	assert.Equal(t, "+886912345678", digest.To)
	assert.Equal(t, "Unread summary:\nAlerts (opuser) – 3 new", digest.Body)
}

func TestBuildDigest_UnknownOwnerFallback(t *testing.T) {
	db := setupTestDB(t)
	reader := createUser(t, db, "reader_one")
	enableSms(t, db, reader.ID, "+886912345678")

	ch := createChannel(t, db, "gone-user-id", "Orphaned", "444444")
	createMembership(t, db, ch.ID, reader.ID, nil)
	createMessageAt(t, db, ch.ID, "gone-user-id", time.Now())

	digest, err := BuildDigest(db, reader.ID)

	assert.NoError(t, err)
	assert.NotNil(t, digest)
	assert.Equal(t, "Unread summary:\nOrphaned (owner) – 1 new", digest.Body)
}

func TestBuildDigest_DeletedChannelSkipped(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "owner_user")
	reader := createUser(t, db, "reader_one")
	enableSms(t, db, reader.ID, "+886912345678")

	// membership pointing at a channel row that no longer exists
	createMembership(t, db, uuid.NewString(), reader.ID, nil)

	ch := createChannel(t, db, owner.ID, "Alive", "555555")
	createMembership(t, db, ch.ID, reader.ID, nil)
	createMessageAt(t, db, ch.ID, owner.ID, time.Now())

	digest, err := BuildDigest(db, reader.ID)

	assert.NoError(t, err)
	assert.NotNil(t, digest)
	assert.Equal(t, "Unread summary:\nAlive (owner_user) – 1 new", digest.Body)
}

func TestBuildDigest_LineCap(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "owner_user")
	reader := createUser(t, db, "reader_one")
	enableSms(t, db, reader.ID, "+886912345678")

	for i := 0; i < 15; i++ {
		ch := createChannel(t, db, owner.ID, fmt.Sprintf("Ch%02d", i), fmt.Sprintf("60%04d", i))
		createMembership(t, db, ch.ID, reader.ID, nil)
		createMessageAt(t, db, ch.ID, owner.ID, time.Now())
	}

	digest, err := BuildDigest(db, reader.ID)

	assert.NoError(t, err)
	assert.NotNil(t, digest)

	lines := strings.Split(digest.Body, "\n")
	assert.Len(t, lines, 10)
	assert.Equal(t, "Unread summary:", lines[0])
}
