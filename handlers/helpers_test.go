package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"channel-digest/config"
	"channel-digest/models"
	"channel-digest/scheduler"
	"channel-digest/services"
)

type registeredTrigger struct {
	spec string
	tz   string
	task scheduler.Task
}

type fakeScheduler struct {
	triggers map[string]registeredTrigger
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{triggers: make(map[string]registeredTrigger)}
}

func (f *fakeScheduler) Add(spec, tz, jobID string, task scheduler.Task) error {
	f.triggers[jobID] = registeredTrigger{spec: spec, tz: tz, task: task}
	return nil
}

func (f *fakeScheduler) JobIDs() []string {
	ids := make([]string, 0, len(f.triggers))
	for id := range f.triggers {
		ids = append(ids, id)
	}
	return ids
}

func (f *fakeScheduler) Remove(jobID string) {
	delete(f.triggers, jobID)
}

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

func testConfig(t *testing.T) config.Config {
	return config.Config{
		JWTSecret:       "test-secret",
		DefaultTimezone: "Asia/Taipei",
		DefaultVoice:    "en-US-JennyNeural",
		TTSOutputDir:    t.TempDir(),
	}
}

func setupTestRouter(t *testing.T) (*gorm.DB, *fakeScheduler, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	sched := newFakeScheduler()
	cfg := testConfig(t)
	tts := services.NewTTSService("test-key", "eastasia", cfg.DefaultVoice, cfg.TTSOutputDir)

	return db, sched, SetupRouter(db, cfg, sched, tts)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, w.Body.String())
	}
	return out
}

// signupUser registers a user through the API and returns its token and id.
func signupUser(t *testing.T, r *gin.Engine, username string) (token, userID string) {
	t.Helper()

	w := doJSON(t, r, "POST", "/api/auth/signup", "", gin.H{
		"username": username,
		"password": "secret_pw1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeJSON(t, w)
	token, _ = resp["token"].(string)
	user, _ := resp["user"].(map[string]any)
	userID, _ = user["id"].(string)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, userID)
	return token, userID
}
