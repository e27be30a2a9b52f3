package main

import (
	"context"
	"time"

	"github.com/shopfinity/internal/config"
	systemhandlers "github.com/shopfinity/internal/http/handlers/system"
	"github.com/shopfinity/internal/logger"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/repository"
	"github.com/shopfinity/internal/service"
	"github.com/shopfinity/internal/storage"
)

// 初始化默认分类与商品图片桶，可重复执行
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	log := logger.S()
	defer func() { _ = logger.Z().Sync() }()

	if err := models.InitDB(cfg.Database); err != nil {
		log.Fatalw("seed_database_open_failed", "error", err)
	}
	if err := models.AutoMigrate(); err != nil {
		log.Fatalw("seed_database_migrate_failed", "error", err)
	}

	seeded, err := service.NewCategoryService(repository.NewCategoryRepository(models.DB)).Seed()
	if err != nil {
		log.Fatalw("seed_categories_failed", "error", err)
	}
	log.Infow("seed_categories_done", "seeded", seeded.Seeded, "inserted", seeded.Inserted, "existing", seeded.Existing)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store := storage.NewManager(storage.FileOpener(cfg.Storage.Root), cfg.Storage.PublicBaseURL, log)
	defer store.Close()
	bucket := systemhandlers.ProductImageBucket(cfg.Storage.ImageBucket, cfg.Storage.FileSizeLimit)
	result, err := store.EnsureBucket(ctx, bucket, nil)
	if err != nil {
		log.Fatalw("seed_storage_bucket_failed", "bucket", cfg.Storage.ImageBucket, "error", err)
	}
	log.Infow("seed_storage_bucket_done", "bucket", result.Bucket, "outcome", result.Outcome)
}
