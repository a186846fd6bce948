package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ricky-kyaw/optitrack-backend/internal/dto"
	"github.com/ricky-kyaw/optitrack-backend/internal/model"
	"github.com/ricky-kyaw/optitrack-backend/internal/service"
	"github.com/ricky-kyaw/optitrack-backend/pkg/response"
)

// AttendanceHandler 考勤打卡相关接口
type AttendanceHandler struct {
	attendanceService service.AttendanceService
}

func NewAttendanceHandler(attendanceService service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// ClockIn 上班打卡
// POST /api/v1/attendance/clock-in/
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	session, err := h.attendanceService.ClockIn(c.Request.Context(), getEmployeeID(c), model.SessionSourceWeb)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyClockedIn) {
			response.Conflict(c, "already clocked in")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, session)
}

// ClockOut 下班打卡
// POST /api/v1/attendance/clock-out/
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	session, err := h.attendanceService.ClockOut(c.Request.Context(), getEmployeeID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoOpenSession):
			response.Conflict(c, "no open session")
		case errors.Is(err, service.ErrInvalidInterval):
			response.UnprocessableEntity(c, "clock-out time is before clock-in time")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, session)
}

// ListSessions 查询打卡会话列表
// GET /api/v1/attendance/sessions/?employee=<id>
// 默认查本人；携带 employee 参数查他人需要管理员权限
func (h *AttendanceHandler) ListSessions(c *gin.Context) {
	var query dto.ListSessionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	targetID := getEmployeeID(c)
	if query.Employee != "" {
		id, err := strconv.ParseUint(query.Employee, 10, 32)
		if err != nil {
			response.BadRequest(c, "invalid employee id")
			return
		}
		if uint(id) != targetID && !getIsAdmin(c) {
			response.Forbidden(c, "cannot view other employees' sessions")
			return
		}
		targetID = uint(id)
	}

	sessions, err := h.attendanceService.ListSessions(c.Request.Context(), targetID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, sessions)
}
