package router

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/shopfinity/internal/cache"
	"github.com/shopfinity/internal/constants"
	handlershared "github.com/shopfinity/internal/http/handlers/shared"
	"github.com/shopfinity/internal/http/response"
	"github.com/shopfinity/internal/i18n"
	"github.com/shopfinity/internal/repository"
	"github.com/shopfinity/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const systemTokenHeader = "X-System-Token"

// authFailure 鉴权失败原因，取值为 i18n 文案 key
type authFailure string

func (f authFailure) Error() string { return string(f) }

const (
	authSecretMissing authFailure = "error.jwt_secret_missing"
	authHeaderMissing authFailure = "error.auth_header_missing"
	authHeaderInvalid authFailure = "error.auth_header_invalid"
	authTokenInvalid  authFailure = "error.token_invalid"
	authTokenExpired  authFailure = "error.token_expired"
	authTokenRevoked  authFailure = "error.token_revoked"
	authUserDisabled  authFailure = "error.user_disabled"
)

// userAuthenticator 校验 Bearer 令牌，令牌版本与用户状态优先读 Redis 快照
type userAuthenticator struct {
	secret string
	users  repository.UserRepository
}

func (a userAuthenticator) authenticate(c *gin.Context) (*service.UserClaims, error) {
	if a.secret == "" {
		return nil, authSecretMissing
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return nil, authHeaderMissing
	}
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(raw) == "" {
		return nil, authHeaderInvalid
	}
	claims, err := service.ParseUserToken(a.secret, strings.TrimSpace(raw))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, authTokenExpired
	case err != nil:
		return nil, authTokenInvalid
	}

	ctx := c.Request.Context()
	if state, hit, err := cache.GetUserAuthState(ctx, claims.UserID); err == nil && hit {
		return claims, checkAuthState(claims, state)
	}
	if a.users == nil {
		return nil, authTokenInvalid
	}
	user, err := a.users.GetByID(claims.UserID)
	if err != nil || user == nil {
		return nil, authTokenInvalid
	}
	state := cache.BuildUserAuthState(user)
	if err := cache.SetUserAuthState(ctx, state); err != nil {
		handlershared.RequestLog(c).Debugw("auth_state_cache_failed", "user_id", user.ID, "error", err)
	}
	return claims, checkAuthState(claims, state)
}

func checkAuthState(claims *service.UserClaims, state *cache.UserAuthState) error {
	if !strings.EqualFold(strings.TrimSpace(state.Status), constants.UserStatusActive) {
		return authUserDisabled
	}
	if claims.TokenVersion != state.TokenVersion {
		return authTokenRevoked
	}
	return nil
}

func setUserContext(c *gin.Context, claims *service.UserClaims) {
	c.Set(handlershared.ContextUserID, claims.UserID)
	c.Set(handlershared.ContextUserEmail, claims.Email)
}

// UserJWTAuthMiddleware 要求登录
func UserJWTAuthMiddleware(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	auth := userAuthenticator{secret: secretKey, users: userRepo}
	return func(c *gin.Context) {
		claims, err := auth.authenticate(c)
		if err != nil {
			response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), err.Error()))
			c.Abort()
			return
		}
		setUserContext(c, claims)
		c.Next()
	}
}

// OptionalUserJWTMiddleware 令牌缺失或无效时按游客继续
func OptionalUserJWTMiddleware(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	auth := userAuthenticator{secret: secretKey, users: userRepo}
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("Authorization")) != "" {
			if claims, err := auth.authenticate(c); err == nil {
				setUserContext(c, claims)
			} else {
				handlershared.RequestLog(c).Debugw("optional_user_auth_ignored", "reason", err.Error())
			}
		}
		c.Next()
	}
}

// SystemTokenMiddleware 校验 X-System-Token，未配置令牌时接口整体关闭
func SystemTokenMiddleware(token string) gin.HandlerFunc {
	expected := []byte(strings.TrimSpace(token))
	return func(c *gin.Context) {
		locale := i18n.ResolveLocale(c)
		if len(expected) == 0 {
			response.Forbidden(c, i18n.T(locale, "error.system_token_disabled"))
			c.Abort()
			return
		}
		provided := []byte(strings.TrimSpace(c.GetHeader(systemTokenHeader)))
		if subtle.ConstantTimeCompare(provided, expected) != 1 {
			response.Unauthorized(c, i18n.T(locale, "error.system_token_invalid"))
			c.Abort()
			return
		}
		c.Next()
	}
}
