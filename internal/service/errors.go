package service

import "errors"

// 通用
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// 用户认证
var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrWeakPassword       = errors.New("weak password")
	ErrFullNameRequired   = errors.New("full name required")
	ErrProfileEmpty       = errors.New("profile update empty")
	ErrAuthRequired       = errors.New("authentication required")
)

// 商品与分类
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product not available")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrInvalidListing     = errors.New("invalid listing")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInvalidCondition   = errors.New("invalid condition")
)

// 图片上传
var (
	ErrTooManyImages      = errors.New("too many images")
	ErrNoValidImages      = errors.New("no valid images")
	ErrInvalidFileType    = errors.New("invalid file type")
	ErrFileTooLarge       = errors.New("file too large")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// 购物车与订单
var (
	ErrCartEmpty            = errors.New("cart empty")
	ErrShippingInfoRequired = errors.New("shipping info required")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderStatusInvalid   = errors.New("order status invalid")
	ErrQueueUnavailable     = errors.New("queue unavailable")
)
