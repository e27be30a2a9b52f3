package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/shopfinity/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "shopfinity"

// backend 当前进程使用的 Redis 连接与 key 前缀
type backend struct {
	client *redis.Client
	prefix string
}

var active *backend

// InitRedis 按配置建立 Redis 客户端，未启用时缓存全部降级为空操作
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		active = nil
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	active = &backend{
		client: redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: prefix,
	}
	return nil
}

// Enabled 是否已连接 Redis
func Enabled() bool {
	return active != nil && active.client != nil
}

// Client 原始客户端，供限流等组件直接使用
func Client() *redis.Client {
	if !Enabled() {
		return nil
	}
	return active.client
}

// Ping 未启用时返回 nil
func Ping(ctx context.Context) error {
	if !Enabled() {
		return nil
	}
	return active.client.Ping(ctx).Err()
}

// Close 关闭连接并恢复为禁用状态
func Close() error {
	if !Enabled() {
		return nil
	}
	err := active.client.Close()
	active = nil
	return err
}

// GetString 读取字符串，第二个返回值表示是否命中
func GetString(ctx context.Context, key string) (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	val, err := active.client.Get(ctx, buildKey(key)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return val, true, nil
}

// SetString ttl 为 0 时不过期
func SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	return active.client.Set(ctx, buildKey(key), value, ttl).Err()
}

// GetJSON 读取并反序列化到 dest
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, hit, err := GetString(ctx, key)
	if err != nil || !hit {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 序列化后写入
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return SetString(ctx, key, string(payload), ttl)
}

// Del 删除 key，不存在时不报错
func Del(ctx context.Context, key string) error {
	if !Enabled() {
		return nil
	}
	return active.client.Del(ctx, buildKey(key)).Err()
}

func buildKey(key string) string {
	prefix := defaultKeyPrefix
	if active != nil {
		prefix = active.prefix
	}
	if trimmed := strings.TrimSpace(key); trimmed != "" {
		return prefix + ":" + trimmed
	}
	return prefix
}
