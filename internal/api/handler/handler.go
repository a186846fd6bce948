package handler

import (
	"github.com/ricky-kyaw/optitrack-backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Attendance *AttendanceHandler
	Tracker    *TrackerHandler
	Overtime   *OvertimeHandler
	Employee   *EmployeeHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Tracker:    NewTrackerHandler(svc.Tracker),
		Overtime:   NewOvertimeHandler(svc.Overtime, svc.Rule),
		Employee:   NewEmployeeHandler(svc.Employee),
		Export:     NewExportHandler(svc.Export),
	}
}
