package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/shopfinity/internal/logger"

	"go.uber.org/zap"
)

// Store 购物车状态管理
// 内存状态由互斥锁保护，锁不跨越后端 I/O；并发写入以后端最后一次写入为准
type Store struct {
	resolver BackendResolver
	identity IdentityProvider
	log      *zap.SugaredLogger

	mu          sync.Mutex
	state       State
	loading     bool
	generation  uint64
	backend     Backend
	lines       []Line
	totalCount  int
	unsubscribe func()
}

// NewStore 创建购物车并订阅身份切换
func NewStore(resolver BackendResolver, identity IdentityProvider, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = logger.S()
	}
	s := &Store{
		resolver: resolver,
		identity: identity,
		log:      log,
		state:    StateUninitialized,
	}
	if identity != nil {
		s.unsubscribe = identity.OnIdentityChange(func(ctx context.Context, _ Identity) {
			s.Hydrate(ctx)
		})
	}
	return s
}

// Close 取消身份订阅
func (s *Store) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Cart 返回当前购物车视图
func (s *Store) Cart() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// State 返回当前状态
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Hydrate 从当前身份对应的后端加载购物车
// 加载失败时降级为空购物车并记录日志，不向调用方返回错误
func (s *Store) Hydrate(ctx context.Context) Cart {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.state = StateLoading
	s.loading = true
	var identity Identity
	if s.identity != nil {
		identity = s.identity.CurrentIdentity()
	}
	s.mu.Unlock()

	var lines []Line
	backend, err := s.resolver.Resolve(identity)
	if err == nil {
		lines, err = backend.Load(ctx)
	}
	if err != nil {
		s.log.Warnw("cart_hydrate_failed",
			"user_id", identity.UserID,
			"device_id", identity.DeviceID,
			"error", err,
		)
		lines = nil
	}
	lines = normalizeLines(lines)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		// 更新的加载已开始，丢弃本次结果
		return s.viewLocked()
	}
	s.backend = backend
	s.lines = lines
	s.totalCount = sumQuantities(lines)
	s.state = StateReady
	s.loading = false
	kind := BackendKind("")
	if backend != nil {
		kind = backend.Kind()
	}
	s.log.Debugw("cart_hydrated",
		"backend", kind,
		"lines", len(lines),
		"total_count", s.totalCount,
	)
	return s.viewLocked()
}

// AddItem 加入商品；已有同商品行时累加数量
func (s *Store) AddItem(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 || quantity > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	if productID == "" {
		return ErrInvalidProduct
	}
	backend, generation, err := s.acquire()
	if err != nil {
		return err
	}

	s.mu.Lock()
	existing, exists := s.findByProductLocked(productID)
	s.mu.Unlock()

	if exists {
		if exceedsLineLimit(existing.Quantity, quantity) {
			return ErrInvalidQuantity
		}
		target := existing.Quantity + quantity
		found, err := backend.SetQuantity(ctx, existing, target)
		if err != nil {
			return writeFailure("add_item", err)
		}
		if found {
			existing.Quantity = target
			s.applyLine(generation, existing)
			return nil
		}
		// 行已在别处被删除，转为新增
		s.log.Debugw("cart_line_vanished_on_add", "product_id", productID, "line_key", existing.Key())
	}

	line, err := backend.Insert(ctx, productID, quantity)
	if err != nil {
		if errors.Is(err, ErrInvalidQuantity) {
			return err
		}
		return writeFailure("add_item", err)
	}
	if line.Quantity != quantity {
		// 内存视图缺少该行（如加载降级为空），后端已与既有行合并
		s.log.Infow("cart_insert_merged_existing_line",
			"product_id", productID,
			"requested", quantity,
			"persisted", line.Quantity,
		)
	}
	s.applyLine(generation, line)
	return nil
}

// RemoveItem 按行标识删除；标识不存在时为空操作
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	backend, generation, err := s.acquire()
	if err != nil {
		return err
	}

	s.mu.Lock()
	line, ok := s.findByKeyLocked(key)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	if _, err := backend.Delete(ctx, line); err != nil {
		return writeFailure("remove_item", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return nil
	}
	s.removeLocked(line.ProductID)
	return nil
}

// UpdateQuantity 覆盖行数量；数量小于 1 时等价于 RemoveItem
func (s *Store) UpdateQuantity(ctx context.Context, key string, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, key)
	}
	if quantity > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	backend, generation, err := s.acquire()
	if err != nil {
		return err
	}

	s.mu.Lock()
	line, ok := s.findByKeyLocked(key)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	found, err := backend.SetQuantity(ctx, line, quantity)
	if err != nil {
		return writeFailure("update_quantity", err)
	}
	if !found {
		s.log.Debugw("cart_line_missing_on_update", "line_key", key)
		return nil
	}
	line.Quantity = quantity
	s.applyLine(generation, line)
	return nil
}

// Clear 按身份批量清空购物车，可重复调用
func (s *Store) Clear(ctx context.Context) error {
	backend, generation, err := s.acquire()
	if err != nil {
		return err
	}
	if err := backend.DeleteAll(ctx); err != nil {
		return writeFailure("clear", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return nil
	}
	s.lines = nil
	s.totalCount = 0
	return nil
}

// acquire 校验状态并取出当前后端与加载代次
func (s *Store) acquire() (Backend, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil, 0, ErrNotReady
	}
	if s.backend == nil {
		return nil, 0, ErrBackendUnavailable
	}
	return s.backend, s.generation, nil
}

// applyLine 将后端确认后的行写入内存，总数按差值调整
func (s *Store) applyLine(generation uint64, line Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return
	}
	for i := range s.lines {
		if s.lines[i].ProductID == line.ProductID {
			s.totalCount += line.Quantity - s.lines[i].Quantity
			s.lines[i] = line
			return
		}
	}
	s.lines = append(s.lines, line)
	s.totalCount += line.Quantity
}

func (s *Store) removeLocked(productID string) {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.totalCount -= s.lines[i].Quantity
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

func (s *Store) findByProductLocked(productID string) (Line, bool) {
	for _, line := range s.lines {
		if line.ProductID == productID {
			return line, true
		}
	}
	return Line{}, false
}

func (s *Store) findByKeyLocked(key string) (Line, bool) {
	if key == "" {
		return Line{}, false
	}
	for _, line := range s.lines {
		if line.Key() == key {
			return line, true
		}
	}
	return Line{}, false
}

func (s *Store) viewLocked() Cart {
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	view := Cart{
		Lines:      lines,
		TotalCount: s.totalCount,
		Loading:    s.loading,
		State:      s.state,
	}
	if s.backend != nil {
		view.Backend = s.backend.Kind()
	}
	return view
}
