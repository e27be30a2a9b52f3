package system

import (
	"github.com/shopfinity/internal/cache"
	"github.com/shopfinity/internal/constants"
	handlershared "github.com/shopfinity/internal/http/handlers/shared"
	"github.com/shopfinity/internal/http/response"
	"github.com/shopfinity/internal/provider"
	"github.com/shopfinity/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler 运维接口，由 X-System-Token 保护
type Handler struct {
	*provider.Container
}

// New 创建系统处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// InitStorage 幂等开通商品图片桶
func (h *Handler) InitStorage(c *gin.Context) {
	if h.Storage == nil {
		handlershared.RespondError(c, response.CodeUnavailable, "error.storage_unavailable", nil)
		return
	}
	result, err := h.Storage.EnsureBucket(c.Request.Context(), ProductImageBucket(h.Config.Storage.ImageBucket, h.Config.Storage.FileSizeLimit), h.corsRule())
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "error.storage_init_failed", err)
		return
	}
	handlershared.RequestLog(c).Infow("system_storage_initialized", "bucket", result.Bucket, "outcome", result.Outcome)
	response.Success(c, result)
}

// SeedCategories 写入默认分类，已有分类时不做修改
func (h *Handler) SeedCategories(c *gin.Context) {
	result, err := h.CategoryService.Seed()
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "error.category_seed_failed", err)
		return
	}
	if result.Seeded {
		if err := cache.Del(c.Request.Context(), constants.CacheKeyPublicCategories); err != nil {
			handlershared.RequestLog(c).Warnw("system_categories_cache_del_failed", "error", err)
		}
	}
	response.Success(c, result)
}

// ProductImageBucket 商品图片桶的期望配置
func ProductImageBucket(name string, fileSizeLimit int64) storage.BucketConfig {
	if name == "" {
		name = constants.BucketProductImages
	}
	return storage.BucketConfig{
		Name:             name,
		Public:           true,
		FileSizeLimit:    fileSizeLimit,
		AllowedMIMETypes: []string{"image/*"},
	}
}

func (h *Handler) corsRule() *storage.CORSRule {
	cors := h.Config.CORS
	return &storage.CORSRule{
		AllowedOrigins: cors.AllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD"},
		AllowedHeaders: cors.AllowedHeaders,
		MaxAgeSeconds:  cors.MaxAge,
	}
}
