package provider

import (
	"time"

	"github.com/shopfinity/internal/cache"
	"github.com/shopfinity/internal/cart"
	"github.com/shopfinity/internal/config"
	"github.com/shopfinity/internal/logger"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/queue"
	"github.com/shopfinity/internal/repository"
	"github.com/shopfinity/internal/service"
	"github.com/shopfinity/internal/storage"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Storage     *storage.Manager
	CartSlots   cart.SlotStore

	// Repositories
	UserRepo     repository.UserRepository
	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	CartRepo     repository.CartRepository
	OrderRepo    repository.OrderRepository

	// Services
	UserAuthService *service.UserAuthService
	ProductService  *service.ProductService
	CategoryService *service.CategoryService
	UploadService   *service.UploadService
	CartService     *service.CartService
	OrderService    *service.OrderService
}

// Options 容器外部依赖，零值字段按配置创建
type Options struct {
	DB          *gorm.DB
	QueueClient *queue.Client
	Storage     *storage.Manager
	CartSlots   cart.SlotStore
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	return NewContainerWith(cfg, Options{
		DB:          models.DB,
		QueueClient: queueClient,
		Storage:     storage.NewManager(storage.FileOpener(cfg.Storage.Root), cfg.Storage.PublicBaseURL, logger.S()),
	})
}

// NewContainerWith 使用指定依赖初始化容器
func NewContainerWith(cfg *config.Config, opts Options) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: opts.QueueClient,
		Storage:     opts.Storage,
		CartSlots:   opts.CartSlots,
	}
	if c.QueueClient == nil {
		c.QueueClient, _ = queue.NewClient(nil)
	}
	if c.CartSlots == nil {
		c.CartSlots = resolveCartSlots(cfg.Cart)
	}

	// 1. 初始化 Repositories
	c.initRepositories(opts.DB)

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.UploadService = service.NewUploadService(c.Config, c.ProductRepo, c.Storage)

	resolver := cart.NewResolver(c.CartRepo, c.CartSlots, c.ProductService, cart.ResolverOptions{
		SlotKey:      c.Config.Cart.SlotKey,
		SlotMaxBytes: c.Config.Cart.SlotMaxBytes,
		Logger:       logger.SW("component", "cart"),
	})
	c.CartService = service.NewCartService(resolver, c.ProductService)
	c.OrderService = service.NewOrderService(c.Config, c.OrderRepo, c.QueueClient)
}

// resolveCartSlots Redis 可用时匿名购物车槽位落在 Redis，否则退回进程内存
func resolveCartSlots(cfg config.CartConfig) cart.SlotStore {
	if cache.Enabled() {
		return cache.NewCartSlots(time.Duration(cfg.SlotTTLHours) * time.Hour)
	}
	logger.Warnw("provider_cart_slots_in_memory", "reason", "redis_disabled")
	return cart.NewMemorySlots()
}
