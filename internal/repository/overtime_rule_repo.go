package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ricky-kyaw/optitrack-backend/internal/model"
)

// OvertimeRuleRepository 加班规则数据访问接口
type OvertimeRuleRepository interface {
	Create(ctx context.Context, rule *model.OvertimeRule) error
	Update(ctx context.Context, rule *model.OvertimeRule) error
	GetByID(ctx context.Context, id uint) (*model.OvertimeRule, error)
	List(ctx context.Context) ([]model.OvertimeRule, error)
	ListActive(ctx context.Context) ([]model.OvertimeRule, error)
}

type overtimeRuleRepo struct {
	db *gorm.DB
}

// NewOvertimeRuleRepo 创建 OvertimeRuleRepository 实例
func NewOvertimeRuleRepo(db *gorm.DB) OvertimeRuleRepository {
	return &overtimeRuleRepo{db: db}
}

func (r *overtimeRuleRepo) Create(ctx context.Context, rule *model.OvertimeRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *overtimeRuleRepo) Update(ctx context.Context, rule *model.OvertimeRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *overtimeRuleRepo) GetByID(ctx context.Context, id uint) (*model.OvertimeRule, error) {
	var rule model.OvertimeRule
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// List 按创建顺序（id 升序）返回全部规则；该顺序同时是同特异性规则的裁决顺序
func (r *overtimeRuleRepo) List(ctx context.Context) ([]model.OvertimeRule, error) {
	var rules []model.OvertimeRule
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *overtimeRuleRepo) ListActive(ctx context.Context) ([]model.OvertimeRule, error) {
	var rules []model.OvertimeRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&rules).Error
	return rules, err
}
