package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/shopfinity/internal/http/response"
	"github.com/shopfinity/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 从请求中提取限流维度
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int // 超限后的封禁秒数，0 时等待窗口自然过期
	MessageKey    string
}

func (r RateLimitRule) active() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) messageKey() string {
	if key := strings.TrimSpace(r.MessageKey); key != "" {
		return key
	}
	return "error.rate_limited"
}

// 返回 {计数, 剩余秒数}，封禁中计数为 -1
var fixedWindowScript = redis.NewScript(`
local blocked = redis.call("TTL", KEYS[2])
if blocked > 0 then
	return {-1, blocked}
end
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
if tonumber(ARGV[3]) > 0 and n > tonumber(ARGV[2]) then
	redis.call("SET", KEYS[2], "1", "EX", ARGV[3])
	redis.call("DEL", KEYS[1])
	return {n, tonumber(ARGV[3])}
end
return {n, redis.call("TTL", KEYS[1])}
`)

// verdict 单次限流判定结果
type verdict struct {
	allowed bool
	wait    int
}

func evaluate(ctx context.Context, client *redis.Client, rule RateLimitRule, key string) (verdict, error) {
	keys := []string{key, key + ":block"}
	values, err := fixedWindowScript.Run(ctx, client, keys, rule.WindowSeconds, rule.MaxRequests, rule.BlockSeconds).Int64Slice()
	if err != nil {
		return verdict{}, err
	}
	if len(values) < 2 {
		return verdict{}, redis.Nil
	}
	count, ttl := values[0], values[1]
	if count >= 0 && count <= int64(rule.MaxRequests) {
		return verdict{allowed: true}, nil
	}
	wait := int(ttl)
	if wait < 1 {
		wait = max(rule.WindowSeconds, 1)
	}
	return verdict{wait: wait}, nil
}

// RateLimitMiddleware 基于 Redis 的限流中间件，未配置 Redis 或规则无效时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.active() {
			c.Next()
			return
		}

		dimension := c.ClientIP()
		if keyFunc != nil {
			if k := strings.TrimSpace(keyFunc(c)); k != "" {
				dimension = k
			}
		}
		key := dimension
		if rule.Prefix != "" {
			key = rule.Prefix + ":" + dimension
		}

		locale := i18n.ResolveLocale(c)
		result, err := evaluate(c.Request.Context(), client, rule, key)
		switch {
		case err != nil:
			response.Error(c, response.CodeInternal, i18n.T(locale, "error.rate_limit_unavailable"))
			c.Abort()
		case !result.allowed:
			response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(locale, rule.messageKey(), result.wait))
			c.Abort()
		default:
			c.Next()
		}
	}
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 按 JSON 字段（小写）与客户端 IP 组合限流，读取后复原请求体
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(peekJSONString(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

func peekJSONString(c *gin.Context, field string) string {
	if c.Request == nil || c.Request.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload[field], &text); err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
