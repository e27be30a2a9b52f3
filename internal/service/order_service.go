package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopfinity/internal/cart"
	"github.com/shopfinity/internal/config"
	"github.com/shopfinity/internal/constants"
	"github.com/shopfinity/internal/logger"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/queue"
	"github.com/shopfinity/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultShippingFee = "10.00"

// PaymentScheduler 模拟支付调度
type PaymentScheduler interface {
	Enabled() bool
	EnqueueSimulatePayment(payload queue.SimulatePaymentPayload, delay time.Duration) error
}

// OrderService 订单服务
type OrderService struct {
	cfg       *config.Config
	orderRepo repository.OrderRepository
	payments  PaymentScheduler
	now       func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(cfg *config.Config, orderRepo repository.OrderRepository, payments PaymentScheduler) *OrderService {
	return &OrderService{
		cfg:       cfg,
		orderRepo: orderRepo,
		payments:  payments,
		now:       time.Now,
	}
}

// ShippingInfo 收货信息，全部必填
type ShippingInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// CheckoutInput 结账输入
type CheckoutInput struct {
	UserID   uint
	Shipping ShippingInfo
}

// OrderTotals 订单金额
type OrderTotals struct {
	Subtotal models.Money `json:"subtotal"`
	Shipping models.Money `json:"shipping"`
	Total    models.Money `json:"total"`
}

// ComputeTotals 小计为各行单价乘数量之和，小计大于 0 时收取固定运费
func ComputeTotals(lines []cart.Line, shippingFee models.Money) OrderTotals {
	subtotal := models.NewMoneyFromDecimal(decimal.Zero)
	for _, line := range lines {
		subtotal = subtotal.Plus(line.Product.Price.Times(line.Quantity))
	}
	shipping := models.NewMoneyFromDecimal(decimal.Zero)
	if subtotal.Decimal.IsPositive() {
		shipping = shippingFee
	}
	return OrderTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Plus(shipping),
	}
}

// Quote 按当前配置的运费计算购物车金额
func (s *OrderService) Quote(lines []cart.Line) OrderTotals {
	return ComputeTotals(lines, s.shippingFee())
}

// Checkout 以登录用户的服务端购物车下单，成功后清空购物车并安排模拟支付
func (s *OrderService) Checkout(ctx context.Context, store *cart.Store, input CheckoutInput) (*models.Order, error) {
	if input.UserID == 0 || store == nil {
		return nil, ErrAuthRequired
	}
	shipping, err := normalizeShipping(input.Shipping)
	if err != nil {
		return nil, err
	}

	current := store.Cart()
	if current.State != cart.StateReady {
		current = store.Hydrate(ctx)
	}
	if current.Backend != cart.BackendServer {
		return nil, ErrAuthRequired
	}
	if len(current.Lines) == 0 {
		return nil, ErrCartEmpty
	}

	totals := ComputeTotals(current.Lines, s.shippingFee())
	now := s.now()
	order := &models.Order{
		OrderNo:        generateOrderNo(now),
		UserID:         input.UserID,
		Status:         constants.OrderStatusPendingPayment,
		Currency:       s.currency(),
		SubtotalAmount: totals.Subtotal,
		ShippingAmount: totals.Shipping,
		TotalAmount:    totals.Total,
		ShippingName:   shipping.Name,
		ShippingEmail:  shipping.Email,
		ShippingPhone:  shipping.Phone,
		Address:        shipping.Address,
		City:           shipping.City,
		Country:        shipping.Country,
		PostalCode:     shipping.PostalCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	items := make([]models.OrderItem, 0, len(current.Lines))
	for _, line := range current.Lines {
		productID, err := strconv.ParseUint(line.ProductID, 10, 64)
		if err != nil || productID == 0 {
			return nil, ErrProductNotFound
		}
		items = append(items, models.OrderItem{
			ProductID:  uint(productID),
			SellerID:   line.Product.SellerID,
			Title:      line.Product.Title,
			UnitPrice:  line.Product.Price,
			Quantity:   line.Quantity,
			TotalPrice: line.Product.Price.Times(line.Quantity),
			CreatedAt:  now,
		})
	}
	if err := s.orderRepo.Create(order, items); err != nil {
		return nil, err
	}

	// 订单已落库，清空失败不回滚订单
	if err := store.Clear(ctx); err != nil {
		logger.Warnw("checkout_cart_clear_failed", "order_no", order.OrderNo, "user_id", input.UserID, "error", err)
	}

	if err := s.schedulePayment(order); err != nil {
		logger.Warnw("checkout_payment_schedule_failed", "order_no", order.OrderNo, "error", err)
	}
	logger.Infow("checkout_order_created",
		"order_no", order.OrderNo,
		"user_id", input.UserID,
		"items", len(items),
		"total", order.TotalAmount.String(),
	)
	return order, nil
}

// MarkPaid 将待支付订单标记为已支付，重复调用为空操作
func (s *OrderService) MarkPaid(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusPaid {
		return order, nil
	}
	if order.Status != constants.OrderStatusPendingPayment {
		return nil, ErrOrderStatusInvalid
	}
	paidAt := s.now()
	updated, err := s.orderRepo.MarkPaid(order.ID, paidAt)
	if err != nil {
		return nil, err
	}
	if updated {
		order.Status = constants.OrderStatusPaid
		order.PaidAt = &paidAt
		logger.Infow("order_marked_paid", "order_no", order.OrderNo)
		return order, nil
	}
	// 并发任务已先一步更新
	latest, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, ErrOrderNotFound
	}
	return latest, nil
}

// ListByUser 用户订单列表
func (s *OrderService) ListByUser(userID uint, status string, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrAuthRequired
	}
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(status),
	})
}

// GetByOrderNo 用户订单详情
func (s *OrderService) GetByOrderNo(userID uint, orderNo string) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}
	trimmed := strings.TrimSpace(orderNo)
	if trimmed == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNoAndUser(trimmed, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) schedulePayment(order *models.Order) error {
	if s.payments != nil && s.payments.Enabled() {
		delay := time.Duration(s.cfg.Order.SimulatedPaymentSeconds) * time.Second
		err := s.payments.EnqueueSimulatePayment(queue.SimulatePaymentPayload{
			OrderID: order.ID,
			OrderNo: order.OrderNo,
		}, delay)
		if err == nil {
			return nil
		}
		logger.Warnw("checkout_payment_enqueue_failed", "order_no", order.OrderNo, "error", err)
	}
	// 队列不可用时同步完成模拟支付
	paid, err := s.MarkPaid(order.ID)
	if err != nil {
		return err
	}
	order.Status = paid.Status
	order.PaidAt = paid.PaidAt
	return nil
}

func (s *OrderService) shippingFee() models.Money {
	raw := defaultShippingFee
	if s.cfg != nil && strings.TrimSpace(s.cfg.Order.ShippingFee) != "" {
		raw = s.cfg.Order.ShippingFee
	}
	fee, err := models.ParseMoney(raw)
	if err != nil || fee.Decimal.IsNegative() {
		fee, _ = models.ParseMoney(defaultShippingFee)
	}
	return fee
}

func (s *OrderService) currency() string {
	if s.cfg != nil && strings.TrimSpace(s.cfg.Order.Currency) != "" {
		return strings.ToUpper(strings.TrimSpace(s.cfg.Order.Currency))
	}
	return "USD"
}

func normalizeShipping(info ShippingInfo) (ShippingInfo, error) {
	normalized := ShippingInfo{
		Name:       strings.TrimSpace(info.Name),
		Phone:      strings.TrimSpace(info.Phone),
		Address:    strings.TrimSpace(info.Address),
		City:       strings.TrimSpace(info.City),
		Country:    strings.TrimSpace(info.Country),
		PostalCode: strings.TrimSpace(info.PostalCode),
	}
	for _, value := range []string{
		normalized.Name, info.Email, normalized.Phone, normalized.Address,
		normalized.City, normalized.Country, normalized.PostalCode,
	} {
		if strings.TrimSpace(value) == "" {
			return ShippingInfo{}, ErrShippingInfoRequired
		}
	}
	email, err := normalizeEmail(info.Email)
	if err != nil {
		return ShippingInfo{}, err
	}
	normalized.Email = email
	return normalized, nil
}

func generateOrderNo(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("SF%s%s", now.Format("20060102150405"), suffix)
}

