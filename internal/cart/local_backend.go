package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shopfinity/internal/logger"

	"go.uber.org/zap"
)

// LocalBackend 匿名设备的本地购物车
// 整个购物车序列化为 JSON 数组存放在单个槽位中，每次变更后整体写回，清空时删除槽位
// 槽位写入失败（超出容量或存储不可用）只记录日志，内存镜像继续工作
type LocalBackend struct {
	slots    SlotStore
	key      string
	catalog  Catalog
	maxBytes int
	log      *zap.SugaredLogger

	mu    sync.Mutex
	lines []Line
}

// LocalBackendOptions 本地后端参数
type LocalBackendOptions struct {
	MaxBytes int // 槽位容量上限，<=0 表示不限制
	Logger   *zap.SugaredLogger
}

// NewLocalBackend 创建本地后端
func NewLocalBackend(slots SlotStore, key string, catalog Catalog, opts LocalBackendOptions) *LocalBackend {
	log := opts.Logger
	if log == nil {
		log = logger.S()
	}
	return &LocalBackend{
		slots:    slots,
		key:      key,
		catalog:  catalog,
		maxBytes: opts.MaxBytes,
		log:      log,
	}
}

// Kind 后端类型
func (b *LocalBackend) Kind() BackendKind {
	return BackendLocal
}

// Load 读取槽位；槽位不存在或无法解析时返回空购物车
func (b *LocalBackend) Load(ctx context.Context) ([]Line, error) {
	raw, ok, err := b.slots.Get(ctx, b.key)
	if err != nil {
		return nil, err
	}
	var lines []Line
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &lines); err != nil {
			b.log.Warnw("cart_slot_parse_failed", "slot", b.key, "error", err)
			lines = nil
		}
	}
	lines = normalizeLines(lines)
	for i := range lines {
		lines[i].LineID = 0
		lines[i].Product = b.refreshSnapshot(ctx, lines[i])
	}

	b.mu.Lock()
	b.lines = lines
	b.mu.Unlock()
	return cloneLines(lines), nil
}

// Insert 新增本地行，行仅以商品ID标识
func (b *LocalBackend) Insert(ctx context.Context, productID string, quantity int) (Line, error) {
	snapshot := ProductSnapshot{ID: productID}
	if b.catalog != nil {
		fetched, err := b.catalog.Snapshot(ctx, productID)
		if err != nil {
			return Line{}, err
		}
		snapshot = fetched
	}

	b.mu.Lock()
	var line Line
	merged := false
	for i := range b.lines {
		if b.lines[i].ProductID == productID {
			if exceedsLineLimit(b.lines[i].Quantity, quantity) {
				b.mu.Unlock()
				return Line{}, ErrInvalidQuantity
			}
			b.lines[i].Quantity += quantity
			b.lines[i].Product = snapshot
			line = b.lines[i]
			merged = true
			break
		}
	}
	if !merged {
		line = Line{ProductID: productID, Quantity: quantity, Product: snapshot}
		b.lines = append(b.lines, line)
	}
	payload := cloneLines(b.lines)
	b.mu.Unlock()

	b.persist(ctx, payload)
	return line, nil
}

// SetQuantity 覆盖本地行数量
func (b *LocalBackend) SetQuantity(ctx context.Context, line Line, quantity int) (bool, error) {
	b.mu.Lock()
	found := false
	for i := range b.lines {
		if b.lines[i].ProductID == line.ProductID {
			b.lines[i].Quantity = quantity
			found = true
			break
		}
	}
	payload := cloneLines(b.lines)
	b.mu.Unlock()

	if found {
		b.persist(ctx, payload)
	}
	return found, nil
}

// Delete 删除本地行
func (b *LocalBackend) Delete(ctx context.Context, line Line) (bool, error) {
	b.mu.Lock()
	found := false
	for i := range b.lines {
		if b.lines[i].ProductID == line.ProductID {
			b.lines = append(b.lines[:i], b.lines[i+1:]...)
			found = true
			break
		}
	}
	payload := cloneLines(b.lines)
	b.mu.Unlock()

	if found {
		b.persist(ctx, payload)
	}
	return found, nil
}

// DeleteAll 清空并删除槽位本身
func (b *LocalBackend) DeleteAll(ctx context.Context) error {
	b.mu.Lock()
	b.lines = nil
	b.mu.Unlock()
	if err := b.slots.Delete(ctx, b.key); err != nil {
		b.log.Warnw("cart_slot_delete_failed", "slot", b.key, "error", err)
	}
	return nil
}

func (b *LocalBackend) refreshSnapshot(ctx context.Context, line Line) ProductSnapshot {
	if b.catalog == nil {
		return line.Product
	}
	snapshot, err := b.catalog.Snapshot(ctx, line.ProductID)
	if err != nil {
		b.log.Debugw("cart_snapshot_refresh_failed", "product_id", line.ProductID, "error", err)
		return line.Product
	}
	return snapshot
}

func (b *LocalBackend) persist(ctx context.Context, lines []Line) {
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		b.log.Warnw("cart_slot_encode_failed", "slot", b.key, "error", err)
		return
	}
	if b.maxBytes > 0 && len(payload) > b.maxBytes {
		b.log.Warnw("cart_slot_write_failed",
			"slot", b.key,
			"bytes", len(payload),
			"max_bytes", b.maxBytes,
			"error", ErrSlotQuotaExceeded,
		)
		return
	}
	if err := b.slots.Set(ctx, b.key, string(payload)); err != nil {
		b.log.Warnw("cart_slot_write_failed", "slot", b.key, "error", err)
	}
}

func cloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
