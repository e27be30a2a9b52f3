package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleEN = "en-US"
	LocaleZH = "zh-CN"

	DefaultLocale = LocaleEN
)

var catalogs = map[string]map[string]string{
	LocaleEN: messagesEN,
	LocaleZH: messagesZH,
}

// ResolveLocale 依次读取 lang 查询参数、X-Locale 与 Accept-Language，无法识别时使用默认语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale, ok := NormalizeLocale(c.Query("lang")); ok {
		return locale
	}
	if locale, ok := NormalizeLocale(c.GetHeader("X-Locale")); ok {
		return locale
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale, ok := NormalizeLocale(tag); ok {
			return locale
		}
	}
	return DefaultLocale
}

// NormalizeLocale 将语言标签归一到支持的语言
func NormalizeLocale(tag string) (string, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
	switch {
	case normalized == "":
		return "", false
	case normalized == "en" || strings.HasPrefix(normalized, "en-"):
		return LocaleEN, true
	case normalized == "zh" || strings.HasPrefix(normalized, "zh-"):
		return LocaleZH, true
	}
	return "", false
}

// T 翻译 key，目标语言缺失时回退默认语言，仍缺失时返回 key 本身
func T(locale, key string) string {
	if msg, ok := catalogs[locale][key]; ok {
		return msg
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
