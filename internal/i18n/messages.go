package i18n

// messagesEN 英文文案
var messagesEN = map[string]string{
	"error.bad_request":             "Invalid request parameters",
	"error.unauthorized":            "Please sign in first",
	"error.forbidden":               "You do not have permission to do this",
	"error.user_id_invalid":         "Invalid user id",
	"error.user_id_type_invalid":    "Invalid user id type",
	"error.auth_header_missing":     "Authorization header is missing",
	"error.auth_header_invalid":     "Authorization header is malformed",
	"error.jwt_secret_missing":      "Token signing is not configured",
	"error.token_invalid":           "Invalid or expired token",
	"error.token_expired":           "Token has expired, please sign in again",
	"error.token_revoked":           "Token has been revoked, please sign in again",
	"error.system_token_invalid":    "Invalid system token",
	"error.system_token_disabled":   "System endpoints are disabled",
	"error.rate_limit_unavailable":  "Rate limiter is unavailable",
	"error.rate_limited":            "Too many requests, please retry in %d seconds",
	"error.login_too_many":          "Too many sign-in attempts, please retry in %d seconds",
	"error.email_invalid":           "Invalid email address",
	"error.email_exists":            "This email is already registered",
	"error.invalid_credentials":     "Incorrect email or password",
	"error.user_disabled":           "This account has been disabled",
	"error.user_not_found":          "User not found",
	"error.user_fetch_failed":       "Failed to load user",
	"error.full_name_required":      "Full name is required",
	"error.profile_empty":           "Nothing to update",
	"error.profile_update_failed":   "Failed to update profile",
	"error.register_failed":         "Registration failed",
	"error.login_failed":            "Sign in failed",
	"error.logout_failed":           "Sign out failed",
	"error.password_weak":           "Password is too weak",
	"error.password_min_length":     "Password must be at least %d characters",
	"error.password_max_length":     "Password must be at most %d bytes",
	"error.password_require_upper":  "Password must contain an uppercase letter",
	"error.password_require_lower":  "Password must contain a lowercase letter",
	"error.password_require_number": "Password must contain a number",
	"error.product_not_found":       "Product not found",
	"error.product_unavailable":     "This product is no longer available",
	"error.product_fetch_failed":    "Failed to load products",
	"error.product_id_invalid":      "Invalid product id",
	"error.category_fetch_failed":   "Failed to load categories",
	"error.category_not_found":      "Category not found",
	"error.category_seed_failed":    "Failed to seed categories",
	"error.listing_invalid":         "Title is required",
	"error.listing_create_failed":   "Failed to create listing",
	"error.price_invalid":           "Price must be a positive amount",
	"error.condition_invalid":       "Invalid product condition",
	"error.images_too_many":         "Too many images for this listing",
	"error.images_none_valid":       "No image could be uploaded",
	"error.images_type_invalid":     "Only image files are allowed",
	"error.images_too_large":        "Image file is too large",
	"error.images_upload_failed":    "Failed to upload images",
	"error.storage_unavailable":     "Storage is not available, please initialize it first",
	"error.storage_init_failed":     "Failed to initialize storage",
	"error.cart_not_ready":          "Cart is still loading",
	"error.quantity_invalid":        "Quantity must be between 1 and 9999",
	"error.cart_item_invalid":       "Invalid cart item",
	"error.cart_identity_missing":   "Device identity is missing",
	"error.cart_unavailable":        "Cart is temporarily unavailable",
	"error.cart_write_failed":       "Failed to save cart",
	"error.cart_update_failed":      "Failed to update cart",
	"error.cart_empty":              "Your cart is empty",
	"error.checkout_login_required": "Please sign in to check out",
	"error.shipping_info_required":  "Please complete all shipping fields",
	"error.checkout_failed":         "Checkout failed",
	"error.order_not_found":         "Order not found",
	"error.order_fetch_failed":      "Failed to load orders",
}

// messagesZH 简体中文文案
var messagesZH = map[string]string{
	"error.bad_request":             "请求参数错误",
	"error.unauthorized":            "请先登录",
	"error.forbidden":               "无权执行该操作",
	"error.user_id_invalid":         "用户ID无效",
	"error.user_id_type_invalid":    "用户ID类型错误",
	"error.auth_header_missing":     "缺少认证信息",
	"error.auth_header_invalid":     "认证信息格式错误",
	"error.jwt_secret_missing":      "未配置 Token 签名密钥",
	"error.token_invalid":           "Token 无效或已过期",
	"error.token_expired":           "Token 已过期，请重新登录",
	"error.token_revoked":           "Token 已失效，请重新登录",
	"error.system_token_invalid":    "系统令牌无效",
	"error.system_token_disabled":   "系统接口未启用",
	"error.rate_limit_unavailable":  "限流服务不可用",
	"error.rate_limited":            "请求过于频繁，请 %d 秒后再试",
	"error.login_too_many":          "登录尝试次数过多，请 %d 秒后再试",
	"error.email_invalid":           "邮箱格式错误",
	"error.email_exists":            "该邮箱已注册",
	"error.invalid_credentials":     "邮箱或密码错误",
	"error.user_disabled":           "账号已被禁用",
	"error.user_not_found":          "用户不存在",
	"error.user_fetch_failed":       "获取用户信息失败",
	"error.full_name_required":      "姓名不能为空",
	"error.profile_empty":           "没有需要更新的资料",
	"error.profile_update_failed":   "更新资料失败",
	"error.register_failed":         "注册失败",
	"error.login_failed":            "登录失败",
	"error.logout_failed":           "退出登录失败",
	"error.password_weak":           "密码强度不足",
	"error.password_min_length":     "密码长度不能少于 %d 位",
	"error.password_max_length":     "密码长度不能超过 %d 字节",
	"error.password_require_upper":  "密码需包含大写字母",
	"error.password_require_lower":  "密码需包含小写字母",
	"error.password_require_number": "密码需包含数字",
	"error.product_not_found":       "商品不存在",
	"error.product_unavailable":     "商品已下架或已售出",
	"error.product_fetch_failed":    "获取商品失败",
	"error.product_id_invalid":      "商品ID无效",
	"error.category_fetch_failed":   "获取分类失败",
	"error.category_not_found":      "分类不存在",
	"error.category_seed_failed":    "初始化分类失败",
	"error.listing_invalid":         "商品标题不能为空",
	"error.listing_create_failed":   "发布商品失败",
	"error.price_invalid":           "价格必须大于 0",
	"error.condition_invalid":       "商品成色无效",
	"error.images_too_many":         "商品图片数量超过上限",
	"error.images_none_valid":       "没有可上传的图片",
	"error.images_type_invalid":     "仅支持图片文件",
	"error.images_too_large":        "图片文件过大",
	"error.images_upload_failed":    "图片上传失败",
	"error.storage_unavailable":     "存储不可用，请先初始化存储",
	"error.storage_init_failed":     "初始化存储失败",
	"error.cart_not_ready":          "购物车加载中",
	"error.quantity_invalid":        "数量需在 1 到 9999 之间",
	"error.cart_item_invalid":       "购物车项无效",
	"error.cart_identity_missing":   "缺少设备标识",
	"error.cart_unavailable":        "购物车暂不可用",
	"error.cart_write_failed":       "保存购物车失败",
	"error.cart_update_failed":      "更新购物车失败",
	"error.cart_empty":              "购物车为空",
	"error.checkout_login_required": "请先登录后结账",
	"error.shipping_info_required":  "请填写完整的收货信息",
	"error.checkout_failed":         "结账失败",
	"error.order_not_found":         "订单不存在",
	"error.order_fetch_failed":      "获取订单失败",
}
