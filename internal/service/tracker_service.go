package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ricky-kyaw/optitrack-backend/config"
	"github.com/ricky-kyaw/optitrack-backend/internal/dto"
	"github.com/ricky-kyaw/optitrack-backend/internal/repository"
	"github.com/ricky-kyaw/optitrack-backend/pkg/redis"
)

const recentSessionLimit = 5

// TrackerService 实时看板业务接口
type TrackerService interface {
	// LiveCount 当前在岗（存在进行中会话）的员工数；
	// 与打卡操作之间是最终一致的：打卡瞬间的短暂偏差在下次查询时自然纠正。
	LiveCount(ctx context.Context) (*dto.LiveResponse, error)
	UserSummary(ctx context.Context, employeeID uint) (*dto.UserSummaryResponse, error)
}

type trackerService struct {
	cfg      *config.Config
	repo     *repository.Repository
	rdb      *redis.Client
	logger   *zap.Logger
	location *time.Location

	now func() time.Time // 测试中可替换
}

// NewTrackerService 创建 TrackerService 实例
func NewTrackerService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) TrackerService {
	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &trackerService{
		cfg:      cfg,
		repo:     repo,
		rdb:      rdb,
		logger:   logger,
		location: loc,
		now:      time.Now,
	}
}

// ────────────────────── LiveCount ──────────────────────

func (s *trackerService) LiveCount(ctx context.Context) (*dto.LiveResponse, error) {
	// 先读缓存；Redis 不可用或未命中时查库并回填
	if s.rdb != nil {
		if count, found, err := s.rdb.GetLiveCount(ctx); err == nil && found {
			return &dto.LiveResponse{CurrentlyClockedIn: count}, nil
		}
	}

	count, err := s.repo.WorkSession.CountOpen(ctx)
	if err != nil {
		s.logger.Error("统计在岗人数失败", zap.Error(err))
		return nil, err
	}

	if s.rdb != nil {
		if err := s.rdb.SetLiveCount(ctx, count, s.cfg.Attendance.LiveCountCacheTTL); err != nil {
			s.logger.Warn("在岗人数缓存写入失败", zap.Error(err))
		}
	}

	return &dto.LiveResponse{CurrentlyClockedIn: count}, nil
}

// ────────────────────── UserSummary ──────────────────────

func (s *trackerService) UserSummary(ctx context.Context, employeeID uint) (*dto.UserSummaryResponse, error) {
	today := dateOf(s.now().In(s.location))

	// 今日工时：今日已关闭会话的固化时长之和
	todaySessions, err := s.repo.WorkSession.ListClosedInPeriod(ctx, employeeID, today, today)
	if err != nil {
		s.logger.Error("查询今日会话失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	todayHours := dailyTotalFor(todaySessions, today)

	// 本周加班：覆盖今天的最近加班条目；不存在视为 0
	weekOvertime := 0.0
	entry, err := s.repo.OvertimeEntry.GetLatestCovering(ctx, employeeID, today)
	if err == nil {
		weekOvertime = entry.HoursOvertime
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询本周加班条目失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	// 在岗状态与当前会话开始时间
	resp := &dto.UserSummaryResponse{
		TodayHours:        todayHours,
		WeekOvertimeHours: weekOvertime,
	}
	open, err := s.repo.WorkSession.GetOpenByEmployee(ctx, employeeID)
	if err == nil {
		resp.IsClockedIn = true
		start := open.ClockInAt.Format(time.RFC3339)
		resp.CurrentSessionStart = &start
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询进行中会话失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	// 最近 5 条已关闭会话
	recent, err := s.repo.WorkSession.ListRecentClosed(ctx, employeeID, recentSessionLimit)
	if err != nil {
		s.logger.Error("查询最近会话失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	resp.RecentSessions = make([]dto.WorkSessionResponse, 0, len(recent))
	for i := range recent {
		resp.RecentSessions = append(resp.RecentSessions, toWorkSessionResponse(&recent[i]))
	}

	return resp, nil
}
