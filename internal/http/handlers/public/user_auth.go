package public

import (
	"github.com/shopfinity/internal/http/response"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserProfileRequest 资料更新请求，未传字段保持不变
type UserProfileRequest struct {
	FullName   *string `json:"full_name"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postal_code"`
}

func userView(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"full_name":     user.FullName,
		"phone":         user.Phone,
		"address":       user.Address,
		"city":          user.City,
		"country":       user.Country,
		"postal_code":   user.PostalCode,
		"last_login_at": user.LastLoginAt,
	}
}

// signedInResponse 切换到登录身份后返回服务端购物车，游客购物车不合并
func (h *Handler) signedInResponse(c *gin.Context, auth *service.AuthSession) {
	user := auth.User
	cs := h.CartService.Open(c.Request.Context(), getDeviceID(c), 0)
	defer cs.Close()
	cs.Session.SignIn(c.Request.Context(), user.ID)

	response.Success(c, gin.H{
		"user":       userView(user),
		"token":      auth.Token.Value,
		"expires_at": auth.Token.ExpiresAt,
		"cart":       service.BuildCartView(cs.Store.Cart()),
	})
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	auth, err := h.UserAuthService.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		respondAuthError(c, err, "error.register_failed")
		return
	}
	requestLog(c).Infow("user_registered", "user_id", auth.User.ID)
	h.signedInResponse(c, auth)
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	auth, err := h.UserAuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err, "error.login_failed")
		return
	}
	h.signedInResponse(c, auth)
}

// UserLogout 退出登录，已签发的 Token 立即失效，返回当前设备的游客购物车
func (h *Handler) UserLogout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.Logout(c.Request.Context(), uid); err != nil {
		respondAuthError(c, err, "error.logout_failed")
		return
	}

	cs := h.CartService.Open(c.Request.Context(), getDeviceID(c), uid)
	defer cs.Close()
	cs.Session.SignOut(c.Request.Context())

	response.Success(c, gin.H{
		"logged_out": true,
		"cart":       service.BuildCartView(cs.Store.Cart()),
	})
}

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		respondAuthError(c, err, "error.user_fetch_failed")
		return
	}
	response.Success(c, userView(user))
}

// UpdateUserProfile 更新当前用户资料
func (h *Handler) UpdateUserProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UserProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserAuthService.UpdateProfile(uid, service.UpdateProfileInput{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		respondAuthError(c, err, "error.profile_update_failed")
		return
	}
	response.Success(c, userView(user))
}
