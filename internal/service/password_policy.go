package service

import (
	"strings"
	"unicode"

	"github.com/shopfinity/internal/config"
)

// bcrypt 只使用前 72 字节
const maxPasswordBytes = 72

// PasswordRuleError 密码未满足的具体规则，MessageKey 对应 i18n 文案
type PasswordRuleError struct {
	MessageKey string
	Limit      int
}

func (e *PasswordRuleError) Error() string {
	return e.MessageKey
}

// Is 使 errors.Is(err, ErrWeakPassword) 成立
func (e *PasswordRuleError) Is(target error) bool {
	return target == ErrWeakPassword
}

// MessageArgs 文案格式化参数
func (e *PasswordRuleError) MessageArgs() []any {
	if e.Limit > 0 {
		return []any{e.Limit}
	}
	return nil
}

type charClass struct {
	required bool
	match    func(rune) bool
	key      string
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if len(password) > maxPasswordBytes {
		return &PasswordRuleError{MessageKey: "error.password_max_length", Limit: maxPasswordBytes}
	}
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return &PasswordRuleError{MessageKey: "error.password_min_length", Limit: policy.MinLength}
	}
	classes := []charClass{
		{required: policy.RequireUpper, match: unicode.IsUpper, key: "error.password_require_upper"},
		{required: policy.RequireLower, match: unicode.IsLower, key: "error.password_require_lower"},
		{required: policy.RequireNumber, match: unicode.IsDigit, key: "error.password_require_number"},
	}
	for _, class := range classes {
		if class.required && strings.IndexFunc(password, class.match) < 0 {
			return &PasswordRuleError{MessageKey: class.key}
		}
	}
	return nil
}
