package cart

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/repository"
)

// ServerBackend 登录用户的服务端购物车，按用户ID隔离
type ServerBackend struct {
	repo   repository.CartRepository
	userID uint
}

// NewServerBackend 创建服务端后端
func NewServerBackend(repo repository.CartRepository, userID uint) *ServerBackend {
	return &ServerBackend{repo: repo, userID: userID}
}

// Kind 后端类型
func (b *ServerBackend) Kind() BackendKind {
	return BackendServer
}

// Load 获取用户全部购物车行，附带商品快照
func (b *ServerBackend) Load(ctx context.Context) ([]Line, error) {
	items, err := b.repo.ListByUser(ctx, b.userID)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(items))
	for i := range items {
		lines = append(lines, lineFromItem(&items[i]))
	}
	return lines, nil
}

// Insert 新增行，返回服务端分配的行ID
func (b *ServerBackend) Insert(ctx context.Context, productID string, quantity int) (Line, error) {
	pid, err := parseProductID(productID)
	if err != nil {
		return Line{}, err
	}
	item := &models.CartItem{
		UserID:    b.userID,
		ProductID: pid,
		Quantity:  quantity,
	}
	if err := b.repo.Insert(ctx, item); err != nil {
		return Line{}, err
	}
	stored, err := b.repo.GetByUserAndProduct(ctx, b.userID, pid)
	if err != nil {
		return Line{}, err
	}
	if stored == nil {
		stored = item
	}
	if stored.Quantity > MaxLineQuantity {
		// 与既有行合并后超限，回落到上限
		if _, err := b.repo.UpdateQuantity(ctx, b.userID, stored.ID, MaxLineQuantity); err != nil {
			return Line{}, err
		}
		stored.Quantity = MaxLineQuantity
	}
	return lineFromItem(stored), nil
}

// SetQuantity 覆盖行数量
func (b *ServerBackend) SetQuantity(ctx context.Context, line Line, quantity int) (bool, error) {
	if line.LineID == 0 {
		return false, nil
	}
	return b.repo.UpdateQuantity(ctx, b.userID, line.LineID, quantity)
}

// Delete 删除行
func (b *ServerBackend) Delete(ctx context.Context, line Line) (bool, error) {
	if line.LineID == 0 {
		return false, nil
	}
	return b.repo.DeleteByID(ctx, b.userID, line.LineID)
}

// DeleteAll 按用户批量删除
func (b *ServerBackend) DeleteAll(ctx context.Context) error {
	return b.repo.ClearByUser(ctx, b.userID)
}

func lineFromItem(item *models.CartItem) Line {
	line := Line{
		LineID:    item.ID,
		ProductID: strconv.FormatUint(uint64(item.ProductID), 10),
		Quantity:  item.Quantity,
	}
	if item.Product != nil {
		line.Product = SnapshotFromProduct(item.Product)
	} else {
		line.Product = ProductSnapshot{ID: line.ProductID}
	}
	return line
}

func parseProductID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidProduct
	}
	return uint(id), nil
}
