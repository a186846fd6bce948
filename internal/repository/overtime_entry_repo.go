package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/ricky-kyaw/optitrack-backend/pkg/errors"

	"github.com/ricky-kyaw/optitrack-backend/internal/model"
)

// OvertimeEntryRepository 加班条目数据访问接口
type OvertimeEntryRepository interface {
	Create(ctx context.Context, entry *model.OvertimeEntry) error
	// UpdateChecked 带乐观锁版本校验的更新；版本不匹配返回 pkg/errors.ErrOptimisticLock
	UpdateChecked(ctx context.Context, entry *model.OvertimeEntry) error
	GetByEmployeeAndPeriod(ctx context.Context, employeeID uint, start, end time.Time) (*model.OvertimeEntry, error)
	ListByEmployee(ctx context.Context, employeeID uint) ([]model.OvertimeEntry, error)
	ListAll(ctx context.Context) ([]model.OvertimeEntry, error)
	// GetLatestCovering 返回覆盖给定日期的最近更新条目；不存在时返回 gorm.ErrRecordNotFound
	GetLatestCovering(ctx context.Context, employeeID uint, date time.Time) (*model.OvertimeEntry, error)
}

type overtimeEntryRepo struct {
	db *gorm.DB
}

// NewOvertimeEntryRepo 创建 OvertimeEntryRepository 实例
func NewOvertimeEntryRepo(db *gorm.DB) OvertimeEntryRepository {
	return &overtimeEntryRepo{db: db}
}

func (r *overtimeEntryRepo) Create(ctx context.Context, entry *model.OvertimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// UpdateChecked 重算覆盖未锁定条目时使用 version 做 CAS，
// 避免并发重算（或并发锁定操作）相互覆盖。
func (r *overtimeEntryRepo) UpdateChecked(ctx context.Context, entry *model.OvertimeEntry) error {
	currentVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(&model.OvertimeEntry{}).
		Where("id = ? AND version = ? AND is_locked = ?", entry.ID, currentVersion, false).
		Updates(map[string]interface{}{
			"hours_regular":   entry.HoursRegular,
			"hours_overtime":  entry.HoursOvertime,
			"overtime_amount": entry.OvertimeAmount,
			"rule_id":         entry.RuleID,
			"rule_name":       entry.RuleName,
			"version":         currentVersion + 1,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version = currentVersion + 1
	return nil
}

func (r *overtimeEntryRepo) GetByEmployeeAndPeriod(ctx context.Context, employeeID uint, start, end time.Time) (*model.OvertimeEntry, error) {
	var entry model.OvertimeEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND period_start = ? AND period_end = ?", employeeID, start, end).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *overtimeEntryRepo) ListByEmployee(ctx context.Context, employeeID uint) ([]model.OvertimeEntry, error) {
	var entries []model.OvertimeEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("period_start DESC").
		Find(&entries).Error
	return entries, err
}

func (r *overtimeEntryRepo) ListAll(ctx context.Context) ([]model.OvertimeEntry, error) {
	var entries []model.OvertimeEntry
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Order("period_start DESC, employee_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *overtimeEntryRepo) GetLatestCovering(ctx context.Context, employeeID uint, date time.Time) (*model.OvertimeEntry, error) {
	var entry model.OvertimeEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND period_start <= ? AND period_end >= ?", employeeID, date, date).
		Order("updated_at DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
