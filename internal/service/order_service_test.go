package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopfinity/internal/cart"
	"github.com/shopfinity/internal/constants"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func testShipping() ShippingInfo {
	return ShippingInfo{
		Name:       " Ada Lovelace ",
		Email:      "Ada@Example.com",
		Phone:      "555-0100",
		Address:    "1 Main St",
		City:       "London",
		Country:    "UK",
		PostalCode: "N1",
	}
}

func money(raw string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(raw))
}

func TestComputeTotals(t *testing.T) {
	fee := money("10.00")
	lines := []cart.Line{
		{ProductID: "1", Quantity: 2, Product: cart.ProductSnapshot{Price: money("19.99")}},
		{ProductID: "2", Quantity: 1, Product: cart.ProductSnapshot{Price: money("5.50")}},
	}
	totals := ComputeTotals(lines, fee)
	if totals.Subtotal.String() != "45.48" || totals.Shipping.String() != "10.00" || totals.Total.String() != "55.48" {
		t.Fatalf("unexpected totals: %+v", totals)
	}

	empty := ComputeTotals(nil, fee)
	if empty.Shipping.String() != "0.00" || empty.Total.String() != "0.00" {
		t.Fatalf("empty cart has no shipping: %+v", empty)
	}
}

type checkoutFixture struct {
	svc      *OrderService
	carts    *CartService
	payments *fakeScheduler
	product  *models.Product
}

func newCheckoutFixture(t *testing.T, payments *fakeScheduler) *checkoutFixture {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig(t)
	category := seedCategory(t, db)
	product := seedProduct(t, db, 3, category.ID, "camera", "120.00", constants.ProductStatusActive)
	return &checkoutFixture{
		svc:      NewOrderService(cfg, repository.NewOrderRepository(db), payments),
		carts:    newTestCartService(t, db),
		payments: payments,
		product:  product,
	}
}

func (f *checkoutFixture) openCart(t *testing.T, userID uint, quantity int) *CartSession {
	t.Helper()
	session := f.carts.Open(context.Background(), "device-1", userID)
	t.Cleanup(session.Close)
	if quantity > 0 {
		if err := f.carts.AddItem(context.Background(), session, uintString(f.product.ID), quantity); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
	}
	return session
}

func TestCheckoutEnqueuesSimulatedPayment(t *testing.T) {
	fixture := newCheckoutFixture(t, &fakeScheduler{enabled: true})
	session := fixture.openCart(t, 9, 2)

	order, err := fixture.svc.Checkout(context.Background(), session.Store, CheckoutInput{UserID: 9, Shipping: testShipping()})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.Status != constants.OrderStatusPendingPayment {
		t.Fatalf("queued payment leaves the order pending, got %s", order.Status)
	}
	if order.TotalAmount.String() != "250.00" || order.ShippingEmail != "ada@example.com" || order.ShippingName != "Ada Lovelace" {
		t.Fatalf("unexpected order: total=%s email=%s name=%s", order.TotalAmount.String(), order.ShippingEmail, order.ShippingName)
	}
	if len(fixture.payments.payloads) != 1 || fixture.payments.payloads[0].OrderID != order.ID {
		t.Fatalf("payment should be enqueued once: %+v", fixture.payments.payloads)
	}
	if fixture.payments.delays[0] != 2*time.Second {
		t.Fatalf("unexpected payment delay %s", fixture.payments.delays[0])
	}
	if got := session.Store.Cart(); got.TotalCount != 0 {
		t.Fatalf("cart should be cleared after checkout, total=%d", got.TotalCount)
	}

	stored, err := fixture.svc.GetByOrderNo(9, order.OrderNo)
	if err != nil || len(stored.Items) != 1 || stored.Items[0].Quantity != 2 {
		t.Fatalf("order items should be persisted: %+v err=%v", stored, err)
	}
	if _, err := fixture.svc.GetByOrderNo(10, order.OrderNo); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("other users must not see the order, got %v", err)
	}
}

func TestCheckoutPaysInlineWhenQueueFails(t *testing.T) {
	fixture := newCheckoutFixture(t, &fakeScheduler{enabled: true, err: errors.New("redis down")})
	session := fixture.openCart(t, 9, 1)

	order, err := fixture.svc.Checkout(context.Background(), session.Store, CheckoutInput{UserID: 9, Shipping: testShipping()})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.Status != constants.OrderStatusPaid || order.PaidAt == nil {
		t.Fatalf("payment should complete inline, got %s", order.Status)
	}
}

// failingClearCarts 清空购物车时返回错误
type failingClearCarts struct {
	repository.CartRepository
}

func (failingClearCarts) ClearByUser(context.Context, uint) error {
	return errors.New("cart table locked")
}

func TestCheckoutKeepsOrderWhenCartClearFails(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	category := seedCategory(t, db)
	product := seedProduct(t, db, 3, category.ID, "tripod", "40.00", constants.ProductStatusActive)
	products := newTestProductService(db)
	carts := failingClearCarts{CartRepository: repository.NewCartRepository(db)}
	cartSvc := NewCartService(cart.NewResolver(carts, cart.NewMemorySlots(), products, cart.ResolverOptions{
		Logger: zap.NewNop().Sugar(),
	}), products)
	payments := &fakeScheduler{enabled: true}
	svc := NewOrderService(newTestConfig(t), repository.NewOrderRepository(db), payments)

	session := cartSvc.Open(ctx, "device-1", 12)
	defer session.Close()
	if err := cartSvc.AddItem(ctx, session, uintString(product.ID), 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	order, err := svc.Checkout(ctx, session.Store, CheckoutInput{UserID: 12, Shipping: testShipping()})
	if err != nil {
		t.Fatalf("checkout should survive a failed cart clear: %v", err)
	}
	if order.TotalAmount.String() != "50.00" {
		t.Fatalf("unexpected total %s", order.TotalAmount.String())
	}
	if _, err := svc.GetByOrderNo(12, order.OrderNo); err != nil {
		t.Fatalf("order should be persisted: %v", err)
	}
	if len(payments.payloads) != 1 {
		t.Fatalf("payment should still be scheduled: %+v", payments.payloads)
	}
	if got := session.Store.Cart(); got.TotalCount != 1 || len(got.Lines) != 1 {
		t.Fatalf("failed clear leaves the cart unchanged, got %+v", got)
	}
}

func TestCheckoutValidation(t *testing.T) {
	fixture := newCheckoutFixture(t, &fakeScheduler{})

	guest := fixture.openCart(t, 0, 1)
	if _, err := fixture.svc.Checkout(context.Background(), guest.Store, CheckoutInput{UserID: 9, Shipping: testShipping()}); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("local cart checkout want ErrAuthRequired, got %v", err)
	}

	empty := fixture.openCart(t, 11, 0)
	if _, err := fixture.svc.Checkout(context.Background(), empty.Store, CheckoutInput{UserID: 11, Shipping: testShipping()}); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("empty cart want ErrCartEmpty, got %v", err)
	}

	missing := testShipping()
	missing.PostalCode = " "
	if _, err := fixture.svc.Checkout(context.Background(), empty.Store, CheckoutInput{UserID: 11, Shipping: missing}); !errors.Is(err, ErrShippingInfoRequired) {
		t.Fatalf("missing shipping want ErrShippingInfoRequired, got %v", err)
	}
	if _, err := fixture.svc.Checkout(context.Background(), nil, CheckoutInput{}); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("anonymous want ErrAuthRequired, got %v", err)
	}
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	fixture := newCheckoutFixture(t, &fakeScheduler{enabled: true})
	session := fixture.openCart(t, 9, 1)
	order, err := fixture.svc.Checkout(context.Background(), session.Store, CheckoutInput{UserID: 9, Shipping: testShipping()})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	first, err := fixture.svc.MarkPaid(order.ID)
	if err != nil || first.Status != constants.OrderStatusPaid || first.PaidAt == nil {
		t.Fatalf("mark paid failed: %+v err=%v", first, err)
	}
	second, err := fixture.svc.MarkPaid(order.ID)
	if err != nil || second.Status != constants.OrderStatusPaid || second.PaidAt == nil {
		t.Fatalf("second mark paid should be a no-op: %+v err=%v", second, err)
	}
	if _, err := fixture.svc.MarkPaid(order.ID + 100); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order want ErrOrderNotFound, got %v", err)
	}

	orders, total, err := fixture.svc.ListByUser(9, constants.OrderStatusPaid, 1, 10)
	if err != nil || total != 1 || len(orders) != 1 {
		t.Fatalf("list by status should find the paid order: total=%d err=%v", total, err)
	}
}
