package public

import (
	"encoding/json"
	"strings"

	"github.com/shopfinity/internal/http/response"
	"github.com/shopfinity/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加入购物车请求
type CartItemRequest struct {
	ProductID json.Number `json:"product_id" binding:"required"`
	Quantity  int         `json:"quantity"`
}

// CartQuantityRequest 修改数量请求，数量小于 1 视为删除
type CartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// openCart 按当前设备与登录用户打开购物车，调用方负责 Close
func (h *Handler) openCart(c *gin.Context) *service.CartSession {
	return h.CartService.Open(c.Request.Context(), getDeviceID(c), optionalUserID(c))
}

func respondCart(c *gin.Context, cs *service.CartSession) {
	response.Success(c, service.BuildCartView(cs.Store.Cart()))
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	cs := h.openCart(c)
	defer cs.Close()
	respondCart(c, cs)
}

// AddCartItem 加入购物车，已存在的商品累加数量
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cs := h.openCart(c)
	defer cs.Close()
	if err := h.CartService.AddItem(c.Request.Context(), cs, req.ProductID.String(), req.Quantity); err != nil {
		respondCartError(c, err)
		return
	}
	respondCart(c, cs)
}

// UpdateCartItem 修改购物车行数量，key 为行 ID 或本地购物车的商品 ID
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		respondError(c, response.CodeBadRequest, "error.cart_item_invalid", nil)
		return
	}

	cs := h.openCart(c)
	defer cs.Close()
	if err := h.CartService.UpdateQuantity(c.Request.Context(), cs, key, *req.Quantity); err != nil {
		respondCartError(c, err)
		return
	}
	respondCart(c, cs)
}

// DeleteCartItem 删除购物车行，不存在时为空操作
func (h *Handler) DeleteCartItem(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		respondError(c, response.CodeBadRequest, "error.cart_item_invalid", nil)
		return
	}

	cs := h.openCart(c)
	defer cs.Close()
	if err := h.CartService.RemoveItem(c.Request.Context(), cs, key); err != nil {
		respondCartError(c, err)
		return
	}
	respondCart(c, cs)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	cs := h.openCart(c)
	defer cs.Close()
	if err := h.CartService.Clear(c.Request.Context(), cs); err != nil {
		respondCartError(c, err)
		return
	}
	respondCart(c, cs)
}
