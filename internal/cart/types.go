package cart

import (
	"context"
	"strconv"

	"github.com/shopfinity/internal/models"
)

// BackendKind 购物车持久化后端类型
type BackendKind string

const (
	BackendServer BackendKind = "server" // 登录用户，服务端持久化
	BackendLocal  BackendKind = "local"  // 匿名设备，本地槽位
)

// MaxLineQuantity 单行数量上限
const MaxLineQuantity = 9999

// State 购物车状态机
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
)

// ProductSnapshot 购物车行引用商品的投影，每次加载时重新获取
type ProductSnapshot struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Slug         string       `json:"slug"`
	Price        models.Money `json:"price"`
	Condition    string       `json:"condition"`
	Status       string       `json:"status"`
	PrimaryImage string       `json:"primary_image"`
	SellerID     uint         `json:"seller_id,omitempty"`
}

// Line 购物车行
type Line struct {
	LineID    uint            `json:"line_id,omitempty"` // 服务端行ID，本地行为 0
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   ProductSnapshot `json:"product"`
}

// Key 返回行标识：服务端行使用行ID，本地行使用商品ID
func (l Line) Key() string {
	if l.LineID != 0 {
		return strconv.FormatUint(uint64(l.LineID), 10)
	}
	return l.ProductID
}

// Cart 对外暴露的购物车视图
type Cart struct {
	Lines      []Line      `json:"lines"`
	TotalCount int         `json:"total_count"`
	Loading    bool        `json:"loading"`
	State      State       `json:"state"`
	Backend    BackendKind `json:"backend,omitempty"`
}

// Identity 当前浏览上下文的身份
type Identity struct {
	UserID   uint   `json:"user_id,omitempty"`
	DeviceID string `json:"device_id,omitempty"`
}

// Authenticated 是否为登录用户
func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

// IdentityProvider 身份提供方
type IdentityProvider interface {
	CurrentIdentity() Identity
	// OnIdentityChange 订阅身份切换，返回取消订阅函数
	OnIdentityChange(fn func(ctx context.Context, identity Identity)) (unsubscribe func())
}

// Backend 购物车持久化后端，每次加载时按身份选定
type Backend interface {
	Kind() BackendKind
	Load(ctx context.Context) ([]Line, error)
	Insert(ctx context.Context, productID string, quantity int) (Line, error)
	// SetQuantity 覆盖行数量，返回行是否仍存在于后端
	SetQuantity(ctx context.Context, line Line, quantity int) (bool, error)
	// Delete 删除行，返回行删除前是否存在
	Delete(ctx context.Context, line Line) (bool, error)
	DeleteAll(ctx context.Context) error
}

// BackendResolver 按身份选择后端
type BackendResolver interface {
	Resolve(identity Identity) (Backend, error)
}

// ResolverFunc 函数形式的 BackendResolver
type ResolverFunc func(identity Identity) (Backend, error)

// Resolve 实现 BackendResolver
func (f ResolverFunc) Resolve(identity Identity) (Backend, error) {
	return f(identity)
}

// Catalog 商品目录，用于生成本地行的商品快照
type Catalog interface {
	Snapshot(ctx context.Context, productID string) (ProductSnapshot, error)
}

// SlotStore 字符串键值槽位存储（本地购物车序列化位置）
type SlotStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// SnapshotFromProduct 从商品模型生成快照
func SnapshotFromProduct(product *models.Product) ProductSnapshot {
	if product == nil {
		return ProductSnapshot{}
	}
	return ProductSnapshot{
		ID:           strconv.FormatUint(uint64(product.ID), 10),
		Title:        product.Title,
		Slug:         product.Slug,
		Price:        product.PriceAmount,
		Condition:    product.Condition,
		Status:       product.Status,
		PrimaryImage: product.PrimaryImageURL(),
		SellerID:     product.SellerID,
	}
}

// sumQuantities 计算行数量总和
func sumQuantities(lines []Line) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}

// normalizeLines 合并同一商品的重复行并丢弃非法数量的行
func normalizeLines(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}
	result := make([]Line, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity < 1 {
			continue
		}
		line.Quantity = clampQuantity(line.Quantity)
		if pos, ok := index[line.ProductID]; ok {
			result[pos].Quantity = clampQuantity(result[pos].Quantity + line.Quantity)
			continue
		}
		index[line.ProductID] = len(result)
		result = append(result, line)
	}
	return result
}

// exceedsLineLimit 判断在 current 基础上再加 delta 是否超过单行上限，不做加法以免溢出
func exceedsLineLimit(current, delta int) bool {
	return delta > MaxLineQuantity || current > MaxLineQuantity-delta
}

func clampQuantity(quantity int) int {
	if quantity > MaxLineQuantity {
		return MaxLineQuantity
	}
	return quantity
}
