package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ricky-kyaw/optitrack-backend/internal/dto"
	"github.com/ricky-kyaw/optitrack-backend/internal/model"
	"github.com/ricky-kyaw/optitrack-backend/internal/repository"
)

// OvertimeRuleService 加班规则业务接口
type OvertimeRuleService interface {
	List(ctx context.Context) ([]dto.OvertimeRuleResponse, error)
	Create(ctx context.Context, req *dto.CreateOvertimeRuleRequest) (*dto.OvertimeRuleResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateOvertimeRuleRequest) (*dto.OvertimeRuleResponse, error)
}

type overtimeRuleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOvertimeRuleService 创建 OvertimeRuleService 实例
func NewOvertimeRuleService(repo *repository.Repository, logger *zap.Logger) OvertimeRuleService {
	return &overtimeRuleService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *overtimeRuleService) List(ctx context.Context) ([]dto.OvertimeRuleResponse, error) {
	rules, err := s.repo.OvertimeRule.List(ctx)
	if err != nil {
		s.logger.Error("查询加班规则失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.OvertimeRuleResponse, 0, len(rules))
	for i := range rules {
		result = append(result, toOvertimeRuleResponse(&rules[i]))
	}
	return result, nil
}

// ────────────────────── Create ──────────────────────

func (s *overtimeRuleService) Create(ctx context.Context, req *dto.CreateOvertimeRuleRequest) (*dto.OvertimeRuleResponse, error) {
	rule := &model.OvertimeRule{
		Name:           req.Name,
		Scope:          req.Scope,
		ThresholdHours: req.ThresholdHours,
		Multiplier:     req.Multiplier,
		Department:     normalizeFilter(req.Department),
		Role:           normalizeFilter(req.Role),
		IsActive:       req.IsActive,
	}

	if err := s.repo.OvertimeRule.Create(ctx, rule); err != nil {
		s.logger.Error("创建加班规则失败", zap.Error(err))
		return nil, err
	}

	resp := toOvertimeRuleResponse(rule)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *overtimeRuleService) Update(ctx context.Context, id uint, req *dto.UpdateOvertimeRuleRequest) (*dto.OvertimeRuleResponse, error) {
	rule, err := s.repo.OvertimeRule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOvertimeRuleNotFound
		}
		s.logger.Error("查询加班规则失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Scope != nil {
		rule.Scope = *req.Scope
	}
	if req.ThresholdHours != nil {
		rule.ThresholdHours = *req.ThresholdHours
	}
	if req.Multiplier != nil {
		rule.Multiplier = *req.Multiplier
	}
	if req.Department != nil {
		rule.Department = normalizeFilter(req.Department)
	}
	if req.Role != nil {
		rule.Role = normalizeFilter(req.Role)
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := s.repo.OvertimeRule.Update(ctx, rule); err != nil {
		s.logger.Error("更新加班规则失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	resp := toOvertimeRuleResponse(rule)
	return &resp, nil
}

// ── 内部辅助方法 ──

// normalizeFilter 空字符串过滤统一存为 NULL（不限定）
func normalizeFilter(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

func toOvertimeRuleResponse(r *model.OvertimeRule) dto.OvertimeRuleResponse {
	return dto.OvertimeRuleResponse{
		ID:             r.ID,
		Name:           r.Name,
		Scope:          r.Scope,
		ThresholdHours: r.ThresholdHours,
		Multiplier:     r.Multiplier,
		Department:     r.Department,
		Role:           r.Role,
		IsActive:       r.IsActive,
	}
}
