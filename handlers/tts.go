package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"channel-digest/services"
)

type TTSHandler struct {
	tts *services.TTSService
}

func NewTTSHandler(tts *services.TTSService) *TTSHandler {
	return &TTSHandler{tts: tts}
}

type synthesizeRequest struct {
	Text      string `json:"text"`
	Voice     string `json:"voice"`
	MessageID string `json:"messageId"`
}

func (h *TTSHandler) Synthesize(c *gin.Context) {
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text required"})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text required"})
		return
	}

	if !h.tts.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Azure TTS not configured"})
		return
	}

	fileName, err := h.tts.Synthesize(text, req.Voice, req.MessageID)
	if err != nil {
		zap.L().Error("tts synthesize failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "TTS failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": "/tts/" + fileName, "file": fileName})
}
