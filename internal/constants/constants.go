package constants

// 订单状态常量
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusCanceled       = "canceled"
)

// 商品状态常量
const (
	ProductStatusActive   = "active"
	ProductStatusSold     = "sold"
	ProductStatusInactive = "inactive"
)

// 商品成色常量
const (
	ProductConditionNew     = "new"
	ProductConditionLikeNew = "like_new"
	ProductConditionGood    = "good"
	ProductConditionFair    = "fair"
	ProductConditionPoor    = "poor"
)

// 商品列表排序
const (
	ProductSortNewest    = "newest"
	ProductSortPriceAsc  = "price_asc"
	ProductSortPriceDesc = "price_desc"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskOrderSimulatePayment = "order:simulate_payment"
)

// 存储桶常量
const (
	BucketProductImages = "product-images"
)

// 缓存键常量
const (
	CacheKeyPublicCategories = "public:categories"
)
