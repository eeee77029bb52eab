package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"channel-digest/models"
	"channel-digest/services"
)

type SmsHandler struct {
	db        *gorm.DB
	scheduler services.TriggerScheduler
	defaultTZ string
}

func NewSmsHandler(db *gorm.DB, scheduler services.TriggerScheduler, defaultTZ string) *SmsHandler {
	return &SmsHandler{db: db, scheduler: scheduler, defaultTZ: defaultTZ}
}

func (h *SmsHandler) settingsResponse(s *models.SmsSetting) gin.H {
	timezone := s.Timezone
	if timezone == "" {
		timezone = h.defaultTZ
	}
	schedules := s.Schedules
	if schedules == nil {
		schedules = models.Schedules{}
	}
	return gin.H{
		"enabled":   s.Enabled,
		"phone":     s.Phone,
		"schedules": schedules,
		"timezone":  timezone,
	}
}

// reconcile registers the user's triggers, logging instead of failing:
// the settings write stays in effect even when the scheduler is down.
func (h *SmsHandler) reconcile(userID string, s *models.SmsSetting) {
	err := services.ReconcileSchedules(h.scheduler, userID, s.Schedules, s.Timezone, h.defaultTZ)
	if err != nil {
		zap.L().Warn("schedule reconcile failed",
			zap.String("userID", userID), zap.Error(err))
	}
}

func (h *SmsHandler) GetSettings(c *gin.Context) {
	userID := CurrentUserID(c)

	var s models.SmsSetting
	if err := h.db.Where("user_id = ?", userID).First(&s).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusOK, gin.H{
				"enabled":   false,
				"phone":     nil,
				"schedules": models.Schedules{},
				"timezone":  h.defaultTZ,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	h.reconcile(userID, &s)
	c.JSON(http.StatusOK, h.settingsResponse(&s))
}

type updateSmsRequest struct {
	Enabled   *bool                 `json:"enabled"`
	Phone     *string               `json:"phone"`
	Schedules []services.SlotUpdate `json:"schedules"`
	Timezone  *string               `json:"timezone"`
}

func (h *SmsHandler) UpdateSettings(c *gin.Context) {
	userID := CurrentUserID(c)

	var req updateSmsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}

	s, err := services.UpdateSmsSettings(h.db, userID, services.SmsSettingsUpdate{
		Enabled:   req.Enabled,
		Phone:     req.Phone,
		Schedules: req.Schedules,
		Timezone:  req.Timezone,
	}, h.defaultTZ)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": verr.Msg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	h.reconcile(userID, s)
	c.JSON(http.StatusOK, h.settingsResponse(s))
}
