package shared

import (
	"strings"

	"github.com/shopfinity/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 上下文键，由路由中间件写入
const (
	ContextRequestID = "request_id"
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextDeviceID  = "device_id"
)

// RequireUserID 读取登录用户 ID，缺失或类型不符时直接写出错误响应
func RequireUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	id, ok := value.(uint)
	if !ok {
		RespondError(c, response.CodeInternal, "error.user_id_type_invalid", nil)
		return 0, false
	}
	if id == 0 {
		RespondError(c, response.CodeUnauthorized, "error.user_id_invalid", nil)
		return 0, false
	}
	return id, true
}

// OptionalUserID 读取可选登录用户，未登录返回 0
func OptionalUserID(c *gin.Context) uint {
	id, _ := c.Value(ContextUserID).(uint)
	return id
}

// DeviceID 读取设备标识，未设置返回空串
func DeviceID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(ContextDeviceID))
}
