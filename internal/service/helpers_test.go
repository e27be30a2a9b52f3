package service

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/shopfinity/internal/config"
	"github.com/shopfinity/internal/constants"
	"github.com/shopfinity/internal/logger"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/queue"
	"github.com/shopfinity/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.L = zap.NewNop()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Decode(v)
	if err != nil {
		t.Fatalf("decode config failed: %v", err)
	}
	cfg.Redis.Enabled = false
	cfg.Queue.Enabled = false
	return cfg
}

func seedCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	category := &models.Category{Name: "Electronics", Slug: "electronics", CreatedAt: time.Now()}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, sellerID, categoryID uint, title, price, status string) *models.Product {
	t.Helper()
	now := time.Now()
	product := &models.Product{
		SellerID:    sellerID,
		CategoryID:  categoryID,
		Title:       title,
		Slug:        fmt.Sprintf("%s-%d", title, now.UnixNano()),
		PriceAmount: models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		Condition:   constants.ProductConditionGood,
		Quantity:    1,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func newTestProductService(db *gorm.DB) *ProductService {
	return NewProductService(repository.NewProductRepository(db), repository.NewCategoryRepository(db))
}

// fakeScheduler 记录入队的模拟支付任务
type fakeScheduler struct {
	enabled  bool
	err      error
	payloads []queue.SimulatePaymentPayload
	delays   []time.Duration
}

func (f *fakeScheduler) Enabled() bool { return f.enabled }

func (f *fakeScheduler) EnqueueSimulatePayment(payload queue.SimulatePaymentPayload, delay time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	f.delays = append(f.delays, delay)
	return nil
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
