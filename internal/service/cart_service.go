package service

import (
	"context"
	"strings"

	"github.com/shopfinity/internal/cart"
	"github.com/shopfinity/internal/identity"
	"github.com/shopfinity/internal/logger"
	"github.com/shopfinity/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService 购物车服务，按请求身份打开购物车会话
type CartService struct {
	resolver cart.BackendResolver
	products *ProductService
	log      *zap.SugaredLogger
}

// NewCartService 创建购物车服务
func NewCartService(resolver cart.BackendResolver, products *ProductService) *CartService {
	return &CartService{
		resolver: resolver,
		products: products,
		log:      logger.SW("component", "cart"),
	}
}

// CartSession 单次请求内的身份与购物车
type CartSession struct {
	Session *identity.Session
	Store   *cart.Store
}

// Close 释放购物车的身份订阅
func (cs *CartSession) Close() {
	if cs == nil || cs.Store == nil {
		return
	}
	cs.Store.Close()
}

// CartLineView 购物车行响应
type CartLineView struct {
	Key       string               `json:"key"`
	LineID    uint                 `json:"line_id,omitempty"`
	ProductID string               `json:"product_id"`
	Quantity  int                  `json:"quantity"`
	LineTotal models.Money         `json:"line_total"`
	Product   cart.ProductSnapshot `json:"product"`
}

// CartView 购物车响应
type CartView struct {
	Lines      []CartLineView   `json:"lines"`
	TotalCount int              `json:"total_count"`
	Subtotal   models.Money     `json:"subtotal"`
	Loading    bool             `json:"loading"`
	State      cart.State       `json:"state"`
	Backend    cart.BackendKind `json:"backend,omitempty"`
}

// Open 为设备与可选登录用户打开购物车并完成加载
func (s *CartService) Open(ctx context.Context, deviceID string, userID uint) *CartSession {
	session := identity.NewSession(strings.TrimSpace(deviceID), userID)
	store := cart.NewStore(s.resolver, session, s.log)
	store.Hydrate(ctx)
	return &CartSession{Session: session, Store: store}
}

// AddItem 校验商品在售后加入购物车
func (s *CartService) AddItem(ctx context.Context, cs *CartSession, productID string, quantity int) error {
	if quantity < 1 {
		return cart.ErrInvalidQuantity
	}
	if s.products != nil {
		if _, err := s.products.RequirePurchasable(productID); err != nil {
			return err
		}
	}
	return cs.Store.AddItem(ctx, strings.TrimSpace(productID), quantity)
}

// UpdateQuantity 修改行数量
func (s *CartService) UpdateQuantity(ctx context.Context, cs *CartSession, key string, quantity int) error {
	return cs.Store.UpdateQuantity(ctx, strings.TrimSpace(key), quantity)
}

// RemoveItem 删除行
func (s *CartService) RemoveItem(ctx context.Context, cs *CartSession, key string) error {
	return cs.Store.RemoveItem(ctx, strings.TrimSpace(key))
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, cs *CartSession) error {
	return cs.Store.Clear(ctx)
}

// BuildCartView 生成带小计的购物车响应
func BuildCartView(c cart.Cart) CartView {
	view := CartView{
		Lines:      make([]CartLineView, 0, len(c.Lines)),
		TotalCount: c.TotalCount,
		Subtotal:   models.NewMoneyFromDecimal(decimal.Zero),
		Loading:    c.Loading,
		State:      c.State,
		Backend:    c.Backend,
	}
	for _, line := range c.Lines {
		total := line.Product.Price.Times(line.Quantity)
		view.Subtotal = view.Subtotal.Plus(total)
		view.Lines = append(view.Lines, CartLineView{
			Key:       line.Key(),
			LineID:    line.LineID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			LineTotal: total,
			Product:   line.Product,
		})
	}
	return view
}
