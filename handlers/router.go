package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"channel-digest/config"
	"channel-digest/services"
)

// SetupRouter wires every API route. The scheduler and TTS service are
// constructed by the caller so tests can swap them out.
func SetupRouter(db *gorm.DB, cfg config.Config, sched services.TriggerScheduler, tts *services.TTSService) *gin.Engine {
	r := gin.Default()

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	authRequired := AuthMiddleware(db, cfg.JWTSecret)

	api := r.Group("/api")

	authHandler := NewAuthHandler(db, cfg.JWTSecret)
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authRequired, authHandler.Me)
	auth.PUT("/profile", authRequired, authHandler.UpdateProfile)
	auth.PUT("/password", authRequired, authHandler.ChangePassword)

	channelHandler := NewChannelHandler(db)
	channels := api.Group("/channels", authRequired)
	channels.POST("", channelHandler.Create)
	channels.GET("/mine", channelHandler.Mine)
	channels.GET("/joined", channelHandler.Joined)
	channels.POST("/join", channelHandler.Join)
	channels.DELETE("/:id/leave", channelHandler.Leave)
	channels.GET("/:id", channelHandler.Details)
	channels.PATCH("/:id", channelHandler.Update)
	channels.DELETE("/:id", channelHandler.Remove)
	channels.GET("/:id/messages", channelHandler.ListMessages)
	channels.POST("/:id/messages", channelHandler.PostMessage)
	channels.POST("/:id/read", channelHandler.MarkRead)

	smsHandler := NewSmsHandler(db, sched, cfg.DefaultTimezone)
	sms := api.Group("/sms", authRequired)
	sms.GET("/settings", smsHandler.GetSettings)
	sms.PUT("/settings", smsHandler.UpdateSettings)

	ttsHandler := NewTTSHandler(tts)
	api.POST("/tts", authRequired, ttsHandler.Synthesize)

	// synthesized audio is served straight from the cache directory
	r.Static("/tts", cfg.TTSOutputDir)

	return r
}
