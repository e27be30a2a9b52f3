package public

import (
	"strings"

	handlershared "github.com/shopfinity/internal/http/handlers/shared"
	"github.com/shopfinity/internal/http/response"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结账请求，未填写的收货字段取用户资料
type CheckoutRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

func prefillShipping(req CheckoutRequest, user *models.User) service.ShippingInfo {
	pick := func(value, fallback string) string {
		if strings.TrimSpace(value) != "" {
			return value
		}
		return fallback
	}
	info := service.ShippingInfo{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	}
	if user == nil {
		return info
	}
	info.Name = pick(info.Name, user.FullName)
	info.Email = pick(info.Email, user.Email)
	info.Phone = pick(info.Phone, user.Phone)
	info.Address = pick(info.Address, user.Address)
	info.City = pick(info.City, user.City)
	info.Country = pick(info.Country, user.Country)
	info.PostalCode = pick(info.PostalCode, user.PostalCode)
	return info
}

// GetCheckoutSummary 结账页信息：购物车、金额与预填收货信息
func (h *Handler) GetCheckoutSummary(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		respondAuthError(c, err, "error.user_fetch_failed")
		return
	}

	cs := h.CartService.Open(c.Request.Context(), getDeviceID(c), uid)
	defer cs.Close()
	current := cs.Store.Cart()

	response.Success(c, gin.H{
		"cart":     service.BuildCartView(current),
		"totals":   h.OrderService.Quote(current.Lines),
		"shipping": prefillShipping(CheckoutRequest{}, user),
	})
}

// Checkout 以当前用户的购物车下单
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		respondAuthError(c, err, "error.user_fetch_failed")
		return
	}

	cs := h.CartService.Open(c.Request.Context(), getDeviceID(c), uid)
	defer cs.Close()
	order, err := h.OrderService.Checkout(c.Request.Context(), cs.Store, service.CheckoutInput{
		UserID:   uid,
		Shipping: prefillShipping(req, user),
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 获取订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.PaginationFromQuery(c)

	orders, total, err := h.OrderService.ListByUser(uid, c.Query("status"), page, pageSize)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrderByOrderNo 按订单号获取订单详情
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetByOrderNo(uid, c.Param("order_no"))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}
