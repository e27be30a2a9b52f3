package service

import (
	"errors"
	"time"

	"github.com/shopfinity/internal/config"
	"github.com/shopfinity/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

var errTokenSubjectMissing = errors.New("token has no user id")

// UserClaims 用户令牌声明，TokenVersion 与用户表不一致时令牌作废
type UserClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// IssuedToken 签发结果
type IssuedToken struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func tokenTTL(cfg config.JWTConfig) time.Duration {
	if cfg.ExpireHours > 0 {
		return time.Duration(cfg.ExpireHours) * time.Hour
	}
	return defaultTokenTTL
}

// SignUserToken 使用 HS256 为用户签发令牌
func SignUserToken(cfg config.JWTConfig, user *models.User, now time.Time) (IssuedToken, error) {
	expiresAt := now.Add(tokenTTL(cfg))
	claims := UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.SecretKey))
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// ParseUserToken 校验签名与有效期，过期时错误匹配 jwt.ErrTokenExpired
func ParseUserToken(secret, raw string) (*UserClaims, error) {
	claims := new(UserClaims)
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, errTokenSubjectMissing
	}
	return claims, nil
}
