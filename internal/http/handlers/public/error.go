package public

import (
	"errors"

	handlershared "github.com/shopfinity/internal/http/handlers/shared"
	"github.com/shopfinity/internal/http/response"
	"github.com/shopfinity/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// respondWeakPassword 密码策略错误带具体规则参数
func respondWeakPassword(c *gin.Context, err error) bool {
	if !errors.Is(err, service.ErrWeakPassword) {
		return false
	}
	var rule *service.PasswordRuleError
	if errors.As(err, &rule) {
		handlershared.RespondErrorf(c, response.CodeBadRequest, rule.MessageKey, rule.MessageArgs()...)
		return true
	}
	respondError(c, response.CodeBadRequest, "error.password_weak", nil)
	return true
}
