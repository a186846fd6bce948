package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ricky-kyaw/optitrack-backend/internal/dto"
	"github.com/ricky-kyaw/optitrack-backend/internal/service"
	"github.com/ricky-kyaw/optitrack-backend/pkg/response"
)

// AuthHandler 认证相关接口
type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login 登录
// POST /api/v1/auth/login/
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid email or password")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Refresh 刷新 Token
// POST /api/v1/auth/refresh/
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) || errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid refresh token")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Logout 登出（将当前 Access Token 加入黑名单）
// POST /api/v1/auth/logout/
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := getJTI(c)
	expiresAt := getTokenExpiresAt(c)

	if err := h.authService.Logout(c.Request.Context(), jti, expiresAt); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"message": "logged out"})
}

// Me 当前登录员工信息
// GET /api/v1/auth/me/
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetCurrentUser(c.Request.Context(), getEmployeeID(c))
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.Unauthorized(c, "employee not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}
