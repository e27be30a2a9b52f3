package router

import (
	"fmt"
	"strings"

	"github.com/shopfinity/internal/cache"
	"github.com/shopfinity/internal/config"
	publichandlers "github.com/shopfinity/internal/http/handlers/public"
	systemhandlers "github.com/shopfinity/internal/http/handlers/system"
	"github.com/shopfinity/internal/logger"
	"github.com/shopfinity/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/系统分组）
	publicHandler := publichandlers.New(c)
	systemHandler := systemhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "shopfinity"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	userAuth := UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo)
	optionalUserAuth := OptionalUserJWTMiddleware(cfg.UserJWT.SecretKey, c.UserRepo)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 公开桶对象（商品图片）
	r.GET("/storage/:bucket/*key", publicHandler.ServeObject)
	r.HEAD("/storage/:bucket/*key", publicHandler.ServeObject)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/categories", publicHandler.GetCategories)
		}

		// 用户认证接口，登录后返回新身份下的购物车
		auth := apiV1.Group("/auth")
		auth.Use(DeviceMiddleware(cfg.Cart))
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 购物车接口（游客按设备，登录用户按账号）
		cartGroup := apiV1.Group("/cart")
		cartGroup.Use(DeviceMiddleware(cfg.Cart), optionalUserAuth)
		{
			cartGroup.GET("", publicHandler.GetCart)
			cartGroup.POST("/items", publicHandler.AddCartItem)
			cartGroup.PUT("/items/:key", publicHandler.UpdateCartItem)
			cartGroup.DELETE("/items/:key", publicHandler.DeleteCartItem)
			cartGroup.DELETE("", publicHandler.ClearCart)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(DeviceMiddleware(cfg.Cart), userAuth)
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/profile", publicHandler.UpdateUserProfile)
			user.POST("/me/logout", publicHandler.UserLogout)
			user.GET("/me/listings", publicHandler.ListMyListings)
			user.POST("/listings", publicHandler.CreateListing)
			user.POST("/listings/:id/images", publicHandler.UploadListingImages)
			user.GET("/checkout", publicHandler.GetCheckoutSummary)
			user.POST("/checkout", publicHandler.Checkout)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:order_no", publicHandler.GetOrderByOrderNo)
		}

		// 系统运维接口
		system := apiV1.Group("/system")
		system.Use(SystemTokenMiddleware(cfg.Security.SystemToken))
		{
			system.POST("/init-storage", systemHandler.InitStorage)
			system.POST("/seed-categories", systemHandler.SeedCategories)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		redisState := "disabled"
		if cache.Enabled() {
			redisState = "ok"
			if err := cache.Ping(c.Request.Context()); err != nil {
				redisState = "unavailable"
				logger.Warnw("health_redis_ping_failed", "error", err)
			}
		}
		c.JSON(200, gin.H{"status": "ok", "redis": redisState})
	})

	return r
}
