package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/shopfinity/internal/cache"
	"github.com/shopfinity/internal/config"
	"github.com/shopfinity/internal/constants"
	"github.com/shopfinity/internal/logger"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// AuthSession 注册或登录成功后的用户与令牌
type AuthSession struct {
	User  *models.User
	Token IssuedToken
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// UpdateProfileInput 资料更新输入，nil 表示不修改
type UpdateProfileInput struct {
	FullName   *string
	Phone      *string
	Address    *string
	City       *string
	Country    *string
	PostalCode *string
}

// ParseToken 使用当前配置的密钥解析令牌
func (s *UserAuthService) ParseToken(raw string) (*UserClaims, error) {
	return ParseUserToken(s.cfg.UserJWT.SecretKey, raw)
}

// issue 签发令牌并刷新鉴权快照
func (s *UserAuthService) issue(ctx context.Context, user *models.User) (*AuthSession, error) {
	token, err := SignUserToken(s.cfg.UserJWT, user, time.Now())
	if err != nil {
		return nil, err
	}
	if err := cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user)); err != nil {
		logger.Warnw("user_auth_state_cache_failed", "user_id", user.ID, "error", err)
	}
	return &AuthSession{User: user, Token: token}, nil
}

// Register 用户注册，成功后直接签发令牌
func (s *UserAuthService) Register(ctx context.Context, input RegisterInput) (*AuthSession, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		FullName:     fullName,
		Status:       constants.UserStatusActive,
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issue(ctx, user)
}

// Login 邮箱不存在与密码错误返回同一错误
func (s *UserAuthService) Login(ctx context.Context, email, password string) (*AuthSession, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.TouchLastLogin(user.ID, now); err != nil {
		logger.Warnw("user_touch_last_login_failed", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}
	return s.issue(ctx, user)
}

// Logout 退出登录，递增 Token 版本使已签发的 Token 失效
func (s *UserAuthService) Logout(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrNotFound
	}
	if err := s.userRepo.BumpTokenVersion(userID); err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		_ = cache.DelUserAuthState(ctx, userID)
		return ErrNotFound
	}
	if err := cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user)); err != nil {
		// 写缓存失败时删除旧快照，避免旧版本 Token 继续命中缓存
		_ = cache.DelUserAuthState(ctx, userID)
	}
	return nil
}

// GetUserByID 获取用户信息
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile 更新用户资料（结账时用于预填收货信息）
func (s *UserAuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updated := false
	apply := func(target *string, value *string) {
		if value == nil {
			return
		}
		*target = strings.TrimSpace(*value)
		updated = true
	}
	if input.FullName != nil && strings.TrimSpace(*input.FullName) == "" {
		return nil, ErrFullNameRequired
	}
	apply(&user.FullName, input.FullName)
	apply(&user.Phone, input.Phone)
	apply(&user.Address, input.Address)
	apply(&user.City, input.City)
	apply(&user.Country, input.Country)
	apply(&user.PostalCode, input.PostalCode)
	if !updated {
		return nil, ErrProfileEmpty
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
