package shared

import (
	"github.com/shopfinity/internal/http/response"
	"github.com/shopfinity/internal/i18n"
	"github.com/shopfinity/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 携带 request_id 与请求路由的日志实例
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	fields := make([]interface{}, 0, 4)
	if id := c.GetString(ContextRequestID); id != "" {
		fields = append(fields, "request_id", id)
	}
	if route := c.FullPath(); route != "" {
		fields = append(fields, "route", route)
	}
	return logger.SW(fields...)
}

// RespondError 按请求语言翻译 key 后返回错误响应，err 非空时记录日志
func RespondError(c *gin.Context, code int, key string, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	respond(c, response.WrapError(code, msg, err), key)
}

// RespondErrorf 返回带格式化参数的国际化错误响应
func RespondErrorf(c *gin.Context, code int, key string, args ...interface{}) {
	msg := i18n.Sprintf(i18n.ResolveLocale(c), key, args...)
	respond(c, response.WrapError(code, msg, nil), key)
}

// respond 5xx 记为 error，其余业务错误记为 warn
func respond(c *gin.Context, appErr *response.AppError, key string) {
	if appErr.Err != nil {
		log := RequestLog(c)
		kv := []interface{}{"code", appErr.Code, "key", key, "error", appErr.Err}
		if appErr.Code >= response.CodeInternal {
			log.Errorw("handler_error", kv...)
		} else {
			log.Warnw("handler_error", kv...)
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}
