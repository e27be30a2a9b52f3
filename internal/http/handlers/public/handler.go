package public

import "github.com/shopfinity/internal/provider"

// Handler 前台接口处理器入口
// 说明：覆盖商品浏览、购物车、用户、发布商品与结账。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
