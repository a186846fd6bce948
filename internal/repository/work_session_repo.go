package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ricky-kyaw/optitrack-backend/internal/model"
)

// WorkSessionRepository 工作会话数据访问接口
type WorkSessionRepository interface {
	Create(ctx context.Context, session *model.WorkSession) error
	Update(ctx context.Context, session *model.WorkSession) error
	GetOpenByEmployee(ctx context.Context, employeeID uint) (*model.WorkSession, error)
	ListByEmployee(ctx context.Context, employeeID uint) ([]model.WorkSession, error)
	ListClosedInPeriod(ctx context.Context, employeeID uint, start, end time.Time) ([]model.WorkSession, error)
	ListRecentClosed(ctx context.Context, employeeID uint, limit int) ([]model.WorkSession, error)
	CountOpen(ctx context.Context) (int64, error)
}

type workSessionRepo struct {
	db *gorm.DB
}

// NewWorkSessionRepo 创建 WorkSessionRepository 实例
func NewWorkSessionRepo(db *gorm.DB) WorkSessionRepository {
	return &workSessionRepo{db: db}
}

func (r *workSessionRepo) Create(ctx context.Context, session *model.WorkSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *workSessionRepo) Update(ctx context.Context, session *model.WorkSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// GetOpenByEmployee 查询员工当前进行中的会话；不存在时返回 gorm.ErrRecordNotFound
func (r *workSessionRepo) GetOpenByEmployee(ctx context.Context, employeeID uint) (*model.WorkSession, error) {
	var session model.WorkSession
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND clock_out_at IS NULL", employeeID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListByEmployee 按打卡时间倒序返回员工全部会话
func (r *workSessionRepo) ListByEmployee(ctx context.Context, employeeID uint) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("clock_in_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// ListClosedInPeriod 返回周期 [start, end]（按 work_date，闭区间）内已关闭的会话，升序
func (r *workSessionRepo) ListClosedInPeriod(ctx context.Context, employeeID uint, start, end time.Time) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND clock_out_at IS NOT NULL AND work_date >= ? AND work_date <= ?",
			employeeID, start, end).
		Order("clock_in_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *workSessionRepo) ListRecentClosed(ctx context.Context, employeeID uint, limit int) ([]model.WorkSession, error) {
	var sessions []model.WorkSession
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND clock_out_at IS NOT NULL", employeeID).
		Order("clock_in_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// CountOpen 统计进行中的会话数
// 每名员工至多一个进行中会话（部分唯一索引保证），计数即在岗人数
func (r *workSessionRepo) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WorkSession{}).
		Where("clock_out_at IS NULL").
		Count(&count).Error
	return count, err
}
