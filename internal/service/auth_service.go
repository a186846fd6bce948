package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ricky-kyaw/optitrack-backend/config"
	"github.com/ricky-kyaw/optitrack-backend/internal/dto"
	"github.com/ricky-kyaw/optitrack-backend/internal/model"
	"github.com/ricky-kyaw/optitrack-backend/internal/repository"
	"github.com/ricky-kyaw/optitrack-backend/pkg/jwt"
	"github.com/ricky-kyaw/optitrack-backend/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidRefresh     = errors.New("refresh token 无效")
	ErrEmployeeNotFound   = errors.New("员工不存在")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	GetCurrentUser(ctx context.Context, employeeID uint) (*dto.UserResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. 查询员工
	employee, err := s.repo.Employee.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 离职 / 停用员工不可登录；不区分提示以免泄露账号状态
	if !employee.IsActive() {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(employee)
}

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidRefresh
	}

	// 黑名单校验（Redis 不可用时降级放行）
	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单查询失败", zap.Error(err))
		} else if blacklisted {
			return nil, ErrInvalidRefresh
		}
	}

	// 重新加载员工，保证 is_admin / 雇佣状态为最新
	employee, err := s.repo.Employee.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		s.logger.Error("查询员工失败", zap.Uint("employee_id", claims.EmployeeID), zap.Error(err))
		return nil, err
	}
	if !employee.IsActive() {
		return nil, ErrInvalidRefresh
	}

	// 旧 refresh token 一次性作废（轮换）
	if s.rdb != nil && claims.ExpiresAt != nil {
		if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("refresh token 作废失败", zap.Error(err))
		}
	}

	return s.issueTokens(employee)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil {
		return nil // 无 Redis 时退化为客户端丢弃 Token
	}
	return s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt))
}

// ────────────────────── GetCurrentUser ──────────────────────

func (s *authService) GetCurrentUser(ctx context.Context, employeeID uint) (*dto.UserResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(employee)
	return &resp, nil
}

// ── 内部辅助方法 ──

func (s *authService) issueTokens(employee *model.Employee) (*dto.LoginResponse, error) {
	access, err := s.jwtMgr.GenerateAccessToken(employee.ID, employee.IsAdmin)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refresh, err := s.jwtMgr.GenerateRefreshToken(employee.ID, employee.IsAdmin)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		Access:  access,
		Refresh: refresh,
		User:    toUserResponse(employee),
	}, nil
}

func toUserResponse(e *model.Employee) dto.UserResponse {
	return dto.UserResponse{
		ID:           e.ID,
		Email:        e.Email,
		Name:         e.Name,
		EmployeeCode: e.EmployeeCode,
		Department:   e.Department,
		Role:         e.Role,
		IsAdmin:      e.IsAdmin,
	}
}
