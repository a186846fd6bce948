package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ricky-kyaw/optitrack-backend/config"
	"github.com/ricky-kyaw/optitrack-backend/internal/dto"
	"github.com/ricky-kyaw/optitrack-backend/internal/model"
	"github.com/ricky-kyaw/optitrack-backend/internal/repository"
)

// ── 考勤模块业务错误 ──

var (
	ErrAlreadyClockedIn = errors.New("存在进行中的会话，不能重复上班打卡")
	ErrNoOpenSession    = errors.New("没有进行中的会话")
	ErrInvalidInterval  = errors.New("下班时间早于上班时间")
)

// AttendanceService 考勤（工作会话账本）业务接口
type AttendanceService interface {
	ClockIn(ctx context.Context, employeeID uint, source string) (*dto.WorkSessionResponse, error)
	ClockOut(ctx context.Context, employeeID uint) (*dto.WorkSessionResponse, error)
	ListSessions(ctx context.Context, employeeID uint) ([]dto.WorkSessionResponse, error)
}

type attendanceService struct {
	repo     *repository.Repository
	logger   *zap.Logger
	location *time.Location

	// 同一员工的打卡调用必须串行，保证"至多一个进行中会话"不变式；
	// 不同员工互不影响，可并行。
	locks sync.Map // employeeID → *sync.Mutex

	now func() time.Time // 测试中可替换
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) AttendanceService {
	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		loc = time.UTC // 配置加载阶段已校验，此处仅兜底
	}
	return &attendanceService{
		repo:     repo,
		logger:   logger,
		location: loc,
		now:      time.Now,
	}
}

func (s *attendanceService) lockEmployee(employeeID uint) func() {
	v, _ := s.locks.LoadOrStore(employeeID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ────────────────────── ClockIn ──────────────────────

func (s *attendanceService) ClockIn(ctx context.Context, employeeID uint, source string) (*dto.WorkSessionResponse, error) {
	unlock := s.lockEmployee(employeeID)
	defer unlock()

	// 已有进行中会话则拒绝
	_, err := s.repo.WorkSession.GetOpenByEmployee(ctx, employeeID)
	if err == nil {
		return nil, ErrAlreadyClockedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询进行中会话失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	if source != model.SessionSourceManual {
		source = model.SessionSourceWeb
	}

	now := s.now().In(s.location)
	session := &model.WorkSession{
		EmployeeID: employeeID,
		WorkDate:   dateOf(now),
		ClockInAt:  now,
		Source:     source,
	}

	if err := s.repo.WorkSession.Create(ctx, session); err != nil {
		s.logger.Error("创建工作会话失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("上班打卡",
		zap.Uint("employee_id", employeeID),
		zap.Uint("session_id", session.ID),
	)

	resp := toWorkSessionResponse(session)
	return &resp, nil
}

// ────────────────────── ClockOut ──────────────────────

func (s *attendanceService) ClockOut(ctx context.Context, employeeID uint) (*dto.WorkSessionResponse, error) {
	unlock := s.lockEmployee(employeeID)
	defer unlock()

	session, err := s.repo.WorkSession.GetOpenByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenSession
		}
		s.logger.Error("查询进行中会话失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	now := s.now().In(s.location)
	elapsed := now.Sub(session.ClockInAt)
	if elapsed < 0 {
		return nil, ErrInvalidInterval
	}

	// 关闭会话并一次性固化时长；此后不再参与"进行中"判定
	session.ClockOutAt = &now
	session.DurationHours = roundHours(elapsed.Hours())

	if err := s.repo.WorkSession.Update(ctx, session); err != nil {
		s.logger.Error("关闭工作会话失败", zap.Uint("session_id", session.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("下班打卡",
		zap.Uint("employee_id", employeeID),
		zap.Uint("session_id", session.ID),
		zap.Float64("duration_hours", session.DurationHours),
	)

	resp := toWorkSessionResponse(session)
	return &resp, nil
}

// ────────────────────── ListSessions ──────────────────────

func (s *attendanceService) ListSessions(ctx context.Context, employeeID uint) ([]dto.WorkSessionResponse, error) {
	sessions, err := s.repo.WorkSession.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询工作会话失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.WorkSessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, toWorkSessionResponse(&sessions[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

// dateOf 截断到当天零点（保留时区）
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// roundHours 小时数保留两位小数
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

func toWorkSessionResponse(s *model.WorkSession) dto.WorkSessionResponse {
	resp := dto.WorkSessionResponse{
		ID:            s.ID,
		Date:          s.WorkDate.Format("2006-01-02"),
		ClockIn:       s.ClockInAt.Format(time.RFC3339),
		DurationHours: s.DurationHours,
		Source:        s.Source,
	}
	if s.ClockOutAt != nil {
		out := s.ClockOutAt.Format(time.RFC3339)
		resp.ClockOut = &out
	}
	return resp
}
