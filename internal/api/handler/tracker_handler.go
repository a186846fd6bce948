package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ricky-kyaw/optitrack-backend/internal/service"
	"github.com/ricky-kyaw/optitrack-backend/pkg/response"
)

// TrackerHandler 实时看板相关接口
type TrackerHandler struct {
	trackerService service.TrackerService
}

func NewTrackerHandler(trackerService service.TrackerService) *TrackerHandler {
	return &TrackerHandler{trackerService: trackerService}
}

// Live 当前在岗人数
// GET /api/v1/tracker/live/
func (h *TrackerHandler) Live(c *gin.Context) {
	result, err := h.trackerService.LiveCount(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// MySummary 个人考勤摘要
// GET /api/v1/tracker/my-summary/
func (h *TrackerHandler) MySummary(c *gin.Context) {
	result, err := h.trackerService.UserSummary(c.Request.Context(), getEmployeeID(c))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
