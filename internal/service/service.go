package service

import (
	"go.uber.org/zap"

	"github.com/ricky-kyaw/optitrack-backend/config"
	"github.com/ricky-kyaw/optitrack-backend/internal/repository"
	"github.com/ricky-kyaw/optitrack-backend/pkg/jwt"
	"github.com/ricky-kyaw/optitrack-backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Attendance AttendanceService
	Tracker    TrackerService
	Overtime   OvertimeService
	Rule       OvertimeRuleService
	Employee   EmployeeService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Attendance: NewAttendanceService(cfg, repo, logger),
		Tracker:    NewTrackerService(cfg, repo, rdb, logger),
		Overtime:   NewOvertimeService(cfg, repo, logger),
		Rule:       NewOvertimeRuleService(repo, logger),
		Employee:   NewEmployeeService(repo, logger),
		Export:     NewExportService(repo, logger),
	}
}
