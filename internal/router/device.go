package router

import (
	"net/http"
	"strings"

	"github.com/shopfinity/internal/config"
	handlershared "github.com/shopfinity/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	deviceIDHeader      = "X-Device-ID"
	defaultDeviceCookie = "shopfinity_device"
)

// DeviceMiddleware 识别设备，游客购物车以设备标识为槽位
// 优先读取 Cookie，其次读取 X-Device-ID，都不可用时签发新 uuid；每次响应都续期 Cookie
func DeviceMiddleware(cfg config.CartConfig) gin.HandlerFunc {
	cookieName := strings.TrimSpace(cfg.DeviceCookie)
	if cookieName == "" {
		cookieName = defaultDeviceCookie
	}
	maxAge := cfg.DeviceCookieMaxAgeDays * 24 * 3600
	return func(c *gin.Context) {
		deviceID := resolveDeviceID(c, cookieName)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, deviceID, maxAge, "/", "", false, true)
		c.Set(handlershared.ContextDeviceID, deviceID)
		c.Next()
	}
}

func resolveDeviceID(c *gin.Context, cookieName string) string {
	if raw, err := c.Cookie(cookieName); err == nil {
		if id, ok := parseDeviceID(raw); ok {
			return id
		}
	}
	if id, ok := parseDeviceID(c.GetHeader(deviceIDHeader)); ok {
		return id
	}
	return uuid.NewString()
}

// parseDeviceID 只接受 uuid，统一为小写带连字符的格式
func parseDeviceID(raw string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return id.String(), true
}
