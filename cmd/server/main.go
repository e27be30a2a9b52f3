package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/shopfinity/internal/app"
	"github.com/shopfinity/internal/config"
	"github.com/shopfinity/internal/logger"
	"github.com/shopfinity/internal/models"

	"github.com/gin-gonic/gin"
)

var weakSecretMarkers = []string{"change-me", "change-in-production", "your-secret-key"}

func main() {
	mode := flag.String("mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	fmt.Println("\033[36m\033[1mShopfinity API\033[0m")

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	log := logger.S()
	release := cfg.Server.Mode == gin.ReleaseMode

	if isWeakSecret(cfg.UserJWT.SecretKey) {
		if release {
			log.Fatalw("server_jwt_secret_weak", "hint", "configure user_jwt.secret with at least 32 random characters")
		}
		log.Warnw("server_jwt_secret_weak", "hint", "default secret is only acceptable for local development")
	}
	if strings.TrimSpace(cfg.Security.SystemToken) == "" {
		log.Warnw("server_system_token_missing", "effect", "system endpoints reject every request")
	}

	if err := models.InitDB(cfg.Database); err != nil {
		log.Fatalw("server_database_open_failed", "driver", cfg.Database.Driver, "error", err)
	}
	if err := models.AutoMigrate(); err != nil {
		log.Fatalw("server_database_migrate_failed", "error", err)
	}

	if release {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  log,
		Signals: app.DefaultSignals(),
		Mode:    *mode,
	}); err != nil {
		log.Fatalw("server_exit", "error", err)
	}
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	lowered := strings.ToLower(secret)
	for _, marker := range weakSecretMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
