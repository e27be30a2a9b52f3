package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCacheDisabled Redis 未启用
var ErrCacheDisabled = errors.New("redis cache disabled")

// CartSlots 基于 Redis 的匿名购物车槽位存储
type CartSlots struct {
	ttl time.Duration
}

// NewCartSlots 创建购物车槽位存储，ttl 为 0 表示槽位不过期
func NewCartSlots(ttl time.Duration) *CartSlots {
	if ttl < 0 {
		ttl = 0
	}
	return &CartSlots{ttl: ttl}
}

// Get 读取槽位
func (s *CartSlots) Get(ctx context.Context, key string) (string, bool, error) {
	if !Enabled() {
		return "", false, ErrCacheDisabled
	}
	return GetString(ctx, cartSlotKey(key))
}

// Set 写入槽位，每次写入刷新过期时间
func (s *CartSlots) Set(ctx context.Context, key, value string) error {
	if !Enabled() {
		return ErrCacheDisabled
	}
	return SetString(ctx, cartSlotKey(key), value, s.ttl)
}

// Delete 删除槽位，不存在时不报错
func (s *CartSlots) Delete(ctx context.Context, key string) error {
	if !Enabled() {
		return ErrCacheDisabled
	}
	return Del(ctx, cartSlotKey(key))
}

func cartSlotKey(key string) string {
	return fmt.Sprintf("cart:slot:%s", strings.TrimSpace(key))
}
