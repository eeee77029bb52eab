package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"channel-digest/config"
	"channel-digest/handlers"
	"channel-digest/logger"
	"channel-digest/models"
	"channel-digest/scheduler"
	"channel-digest/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zl.Sync()
	zap.ReplaceGlobals(zl)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		zl.Fatal("create data dir failed", zap.Error(err))
	}
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		zl.Fatal("open database failed", zap.Error(err))
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
		zl.Fatal("migrate failed", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	queue := scheduler.NewRedisQueue(rdb)

	sched := scheduler.NewClient(queue)
	defer sched.Stop()

	// the cron registry is in-process, rebuild it from stored settings
	services.ResyncAllSchedules(db, sched, cfg.DefaultTimezone)

	var sender services.SmsSender
	if ts := services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom); ts != nil {
		sender = ts
	} else {
		zl.Warn("twilio not configured, sms delivery disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := scheduler.NewWorker(queue, func(task scheduler.Task) {
		services.RunDigestJob(db, sender, task)
	})
	go worker.Run(ctx)

	tts := services.NewTTSService(cfg.AzureSpeechKey, cfg.AzureSpeechRegion, cfg.DefaultVoice, cfg.TTSOutputDir)

	r := handlers.SetupRouter(db, cfg, sched, tts)
	zl.Info("listening", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
