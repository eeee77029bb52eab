package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"channel-digest/models"
	"channel-digest/services"
)

type ChannelHandler struct {
	db *gorm.DB
}

func NewChannelHandler(db *gorm.DB) *ChannelHandler {
	return &ChannelHandler{db: db}
}

type createChannelRequest struct {
	Title        string   `json:"title"`
	AllowJoin    *bool    `json:"allowJoin"`
	QuickReplies []string `json:"quickReplies"`
}

func (h *ChannelHandler) Create(c *gin.Context) {
	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing title"})
		return
	}

	allowJoin := true
	if req.AllowJoin != nil {
		allowJoin = *req.AllowJoin
	}

	channel := models.Channel{
		ID:        uuid.NewString(),
		OwnerID:   CurrentUserID(c),
		Title:     req.Title,
		Code:      services.GenerateJoinCode(h.db),
		AllowJoin: allowJoin,
	}
	if err := h.db.Create(&channel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	// owner joins their own channel with a fresh watermark
	now := time.Now()
	membership := models.ChannelMembership{
		ID:         uuid.NewString(),
		ChannelID:  channel.ID,
		UserID:     channel.OwnerID,
		LastReadAt: &now,
	}
	if err := h.db.Create(&membership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	// quick replies occupy keypad digits 7 through 9
	for i, text := range req.QuickReplies {
		idx := 7 + i
		if idx > 9 {
			break
		}
		reply := models.ChannelQuickReply{
			ID:        uuid.NewString(),
			ChannelID: channel.ID,
			Index:     idx,
			Text:      text,
		}
		if err := h.db.Create(&reply).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
	}

	c.JSON(http.StatusCreated, channel)
}

func (h *ChannelHandler) Mine(c *gin.Context) {
	channels, err := services.ListOwnedChannels(h.db, CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, channels)
}

func (h *ChannelHandler) Joined(c *gin.Context) {
	rows, err := services.ListJoinedChannels(h.db, CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		item := gin.H{
			"id":          row.Channel.ID,
			"ownerId":     row.Channel.OwnerID,
			"title":       row.Channel.Title,
			"code":        row.Channel.Code,
			"allowJoin":   row.Channel.AllowJoin,
			"unreadCount": row.UnreadCount,
		}
		if row.Owner != nil {
			item["owner"] = gin.H{
				"id":             row.Owner.ID,
				"username":       row.Owner.Username,
				"avatarInitials": row.Owner.AvatarInitials,
				"avatarColor":    row.Owner.AvatarColor,
				"avatarImage":    row.Owner.AvatarImage,
			}
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, out)
}

type joinChannelRequest struct {
	Code string `json:"code"`
}

func (h *ChannelHandler) Join(c *gin.Context) {
	var req joinChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing code"})
		return
	}

	var channel models.Channel
	if err := h.db.Where("code = ?", req.Code).First(&channel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Channel not found"})
		return
	}
	if !channel.AllowJoin {
		c.JSON(http.StatusForbidden, gin.H{"message": "Join disabled"})
		return
	}

	// idempotent join: existing membership keeps its watermark
	var existing models.ChannelMembership
	err := h.db.Where("channel_id = ? AND user_id = ?", channel.ID, CurrentUserID(c)).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		now := time.Now()
		membership := models.ChannelMembership{
			ID:         uuid.NewString(),
			ChannelID:  channel.ID,
			UserID:     CurrentUserID(c),
			LastReadAt: &now,
		}
		if err := h.db.Create(&membership).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "channelId": channel.ID})
}

func (h *ChannelHandler) Leave(c *gin.Context) {
	err := h.db.Where("channel_id = ? AND user_id = ?", c.Param("id"), CurrentUserID(c)).
		Delete(&models.ChannelMembership{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ChannelHandler) Details(c *gin.Context) {
	var channel models.Channel
	if err := h.db.Where("id = ?", c.Param("id")).First(&channel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	var replies []models.ChannelQuickReply
	h.db.Where("channel_id = ?", channel.ID).Order("`index` ASC").Find(&replies)

	resp := gin.H{
		"id":           channel.ID,
		"ownerId":      channel.OwnerID,
		"title":        channel.Title,
		"code":         channel.Code,
		"allowJoin":    channel.AllowJoin,
		"quickReplies": replies,
	}

	var owner models.User
	if err := h.db.Where("id = ?", channel.OwnerID).First(&owner).Error; err == nil {
		resp["owner"] = gin.H{
			"id":             owner.ID,
			"username":       owner.Username,
			"avatarInitials": owner.AvatarInitials,
			"avatarColor":    owner.AvatarColor,
			"avatarImage":    owner.AvatarImage,
		}
	}

	c.JSON(http.StatusOK, resp)
}

type updateChannelRequest struct {
	Title        *string  `json:"title"`
	AllowJoin    *bool    `json:"allowJoin"`
	QuickReplies []string `json:"quickReplies"`
}

func (h *ChannelHandler) Update(c *gin.Context) {
	var req updateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}

	var channel models.Channel
	if err := h.db.Where("id = ?", c.Param("id")).First(&channel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	if channel.OwnerID != CurrentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return
	}

	if req.Title != nil {
		channel.Title = *req.Title
	}
	if req.AllowJoin != nil {
		channel.AllowJoin = *req.AllowJoin
	}
	if err := h.db.Save(&channel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if req.QuickReplies != nil {
		for i := 7; i <= 9; i++ {
			pos := i - 7
			if pos >= len(req.QuickReplies) {
				continue
			}
			reply := models.ChannelQuickReply{
				ID:        uuid.NewString(),
				ChannelID: channel.ID,
				Index:     i,
				Text:      req.QuickReplies[pos],
			}
			err := h.db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "channel_id"}, {Name: "index"}},
				DoUpdates: clause.AssignmentColumns([]string{"text", "updated_at"}),
			}).Create(&reply).Error
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ChannelHandler) Remove(c *gin.Context) {
	var channel models.Channel
	if err := h.db.Where("id = ?", c.Param("id")).First(&channel).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	if channel.OwnerID != CurrentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return
	}

	if err := services.DeleteChannelCascade(h.db, channel.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ChannelHandler) ListMessages(c *gin.Context) {
	var messages []models.ChannelMessage
	err := h.db.Where("channel_id = ?", c.Param("id")).
		Order("created_at DESC").
		Limit(50).
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

type postMessageRequest struct {
	Content string `json:"content"`
}

func (h *ChannelHandler) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing content"})
		return
	}

	message := models.ChannelMessage{
		ID:        uuid.NewString(),
		ChannelID: c.Param("id"),
		AuthorID:  CurrentUserID(c),
		Content:   req.Content,
	}
	if err := h.db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *ChannelHandler) MarkRead(c *gin.Context) {
	now := time.Now()
	err := h.db.Model(&models.ChannelMembership{}).
		Where("channel_id = ? AND user_id = ?", c.Param("id"), CurrentUserID(c)).
		Update("last_read_at", now).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
