package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopfinity/internal/constants"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errTestBackend = errors.New("backend down")

type testIdentity struct {
	mu          sync.Mutex
	current     Identity
	subscribers map[int]func(ctx context.Context, identity Identity)
	nextID      int
}

func newTestIdentity(identity Identity) *testIdentity {
	return &testIdentity{current: identity, subscribers: map[int]func(ctx context.Context, identity Identity){}}
}

func (p *testIdentity) CurrentIdentity() Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *testIdentity) OnIdentityChange(fn func(ctx context.Context, identity Identity)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subscribers[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subscribers, id)
	}
}

func (p *testIdentity) switchTo(ctx context.Context, identity Identity) {
	p.mu.Lock()
	p.current = identity
	subs := make([]func(ctx context.Context, identity Identity), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.mu.Unlock()
	for _, fn := range subs {
		fn(ctx, identity)
	}
}

type testCatalog map[string]ProductSnapshot

func (c testCatalog) Snapshot(_ context.Context, productID string) (ProductSnapshot, error) {
	snapshot, ok := c[productID]
	if !ok {
		return ProductSnapshot{}, fmt.Errorf("product %s not found", productID)
	}
	return snapshot, nil
}

func newTestCatalog(ids ...string) testCatalog {
	catalog := testCatalog{}
	for _, id := range ids {
		catalog[id] = ProductSnapshot{
			ID:        id,
			Title:     "Product " + id,
			Slug:      id,
			Price:     models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			Condition: constants.ProductConditionGood,
			Status:    constants.ProductStatusActive,
		}
	}
	return catalog
}

// flakySlots 可注入失败的槽位存储
type flakySlots struct {
	*MemorySlots
	failGet bool
	failSet bool
}

func (s *flakySlots) Get(ctx context.Context, key string) (string, bool, error) {
	if s.failGet {
		return "", false, errTestBackend
	}
	return s.MemorySlots.Get(ctx, key)
}

func (s *flakySlots) Set(ctx context.Context, key, value string) error {
	if s.failSet {
		return errTestBackend
	}
	return s.MemorySlots.Set(ctx, key, value)
}

// flakyBackend 可注入失败的后端
type flakyBackend struct {
	Backend
	loadErr   error
	insertErr error
	setErr    error
	deleteErr error
	clearErr  error
}

func (b *flakyBackend) Load(ctx context.Context) ([]Line, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.Backend.Load(ctx)
}

func (b *flakyBackend) Insert(ctx context.Context, productID string, quantity int) (Line, error) {
	if b.insertErr != nil {
		return Line{}, b.insertErr
	}
	return b.Backend.Insert(ctx, productID, quantity)
}

func (b *flakyBackend) SetQuantity(ctx context.Context, line Line, quantity int) (bool, error) {
	if b.setErr != nil {
		return false, b.setErr
	}
	return b.Backend.SetQuantity(ctx, line, quantity)
}

func (b *flakyBackend) Delete(ctx context.Context, line Line) (bool, error) {
	if b.deleteErr != nil {
		return false, b.deleteErr
	}
	return b.Backend.Delete(ctx, line)
}

func (b *flakyBackend) DeleteAll(ctx context.Context) error {
	if b.clearErr != nil {
		return b.clearErr
	}
	return b.Backend.DeleteAll(ctx)
}

// gatedBackend 在 I/O 处阻塞，直到测试放行
type gatedBackend struct {
	Backend
	entered chan struct{}
	release chan struct{}
	gateOps map[string]bool
}

func newGatedBackend(inner Backend, ops ...string) *gatedBackend {
	gate := map[string]bool{}
	for _, op := range ops {
		gate[op] = true
	}
	return &gatedBackend{
		Backend: inner,
		entered: make(chan struct{}, 8),
		release: make(chan struct{}),
		gateOps: gate,
	}
}

func (b *gatedBackend) wait(op string) {
	if !b.gateOps[op] {
		return
	}
	b.entered <- struct{}{}
	<-b.release
}

func (b *gatedBackend) Load(ctx context.Context) ([]Line, error) {
	b.wait("load")
	return b.Backend.Load(ctx)
}

func (b *gatedBackend) Insert(ctx context.Context, productID string, quantity int) (Line, error) {
	b.wait("insert")
	return b.Backend.Insert(ctx, productID, quantity)
}

func (b *gatedBackend) SetQuantity(ctx context.Context, line Line, quantity int) (bool, error) {
	b.wait("set")
	return b.Backend.SetQuantity(ctx, line, quantity)
}

func fixedResolver(backend Backend) ResolverFunc {
	return func(Identity) (Backend, error) {
		return backend, nil
	}
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func newLocalTestStore(t *testing.T, slots SlotStore, catalog Catalog, deviceID string) (*Store, *Resolver) {
	t.Helper()
	resolver := NewResolver(nil, slots, catalog, ResolverOptions{Logger: testLogger()})
	store := NewStore(resolver, newTestIdentity(Identity{DeviceID: deviceID}), testLogger())
	t.Cleanup(store.Close)
	return store, resolver
}

func setupCartTestDB(t *testing.T) (*gorm.DB, *repository.GormCartRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db, repository.NewCartRepository(db)
}

func createCartTestProduct(t *testing.T, db *gorm.DB, slug string) *models.Product {
	t.Helper()
	product := &models.Product{
		SellerID:    99,
		CategoryID:  1,
		Title:       "Title " + slug,
		Slug:        slug,
		PriceAmount: models.NewMoneyFromDecimal(decimal.RequireFromString("12.50")),
		Condition:   constants.ProductConditionLikeNew,
		Quantity:    1,
		Status:      constants.ProductStatusActive,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func assertCartInvariants(t *testing.T, view Cart) {
	t.Helper()
	seen := map[string]bool{}
	sum := 0
	for _, line := range view.Lines {
		if seen[line.ProductID] {
			t.Fatalf("duplicate line for product %s: %+v", line.ProductID, view.Lines)
		}
		seen[line.ProductID] = true
		if line.Quantity < 1 {
			t.Fatalf("line with non-positive quantity: %+v", line)
		}
		sum += line.Quantity
	}
	if sum != view.TotalCount {
		t.Fatalf("total count %d != sum of quantities %d", view.TotalCount, sum)
	}
}

func findLine(view Cart, productID string) (Line, bool) {
	for _, line := range view.Lines {
		if line.ProductID == productID {
			return line, true
		}
	}
	return Line{}, false
}
