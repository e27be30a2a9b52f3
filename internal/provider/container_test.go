package provider

import (
	"testing"

	"github.com/shopfinity/internal/cart"
	"github.com/shopfinity/internal/config"
	"github.com/shopfinity/internal/logger"

	"go.uber.org/zap"
)

func TestNewContainerWithDefaults(t *testing.T) {
	logger.L = zap.NewNop()
	c := NewContainerWith(&config.Config{}, Options{})

	if c.QueueClient == nil || c.QueueClient.Enabled() {
		t.Fatalf("missing queue client should fall back to a disabled client")
	}
	if _, ok := c.CartSlots.(*cart.MemorySlots); !ok {
		t.Fatalf("cart slots should fall back to memory without redis, got %T", c.CartSlots)
	}
	if c.UserAuthService == nil || c.ProductService == nil || c.CategoryService == nil ||
		c.UploadService == nil || c.CartService == nil || c.OrderService == nil {
		t.Fatalf("all services should be wired: %+v", c)
	}
}

func TestNewContainerWithKeepsInjectedSlots(t *testing.T) {
	logger.L = zap.NewNop()
	slots := cart.NewMemorySlots()
	c := NewContainerWith(&config.Config{}, Options{CartSlots: slots})
	if c.CartSlots != slots {
		t.Fatalf("injected slot store should be kept")
	}
}
