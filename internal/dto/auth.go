package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// LoginResponse 登录 / 刷新响应（前端直接持有 access 并镜像 user）
type LoginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}

// UserResponse 当前登录用户信息
type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	EmployeeCode string `json:"employee_code"`
	Department   string `json:"department"`
	Role         string `json:"role"`
	IsAdmin      bool   `json:"is_admin"`
}
