package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ricky-kyaw/optitrack-backend/internal/dto"
	"github.com/ricky-kyaw/optitrack-backend/internal/service"
	"github.com/ricky-kyaw/optitrack-backend/pkg/response"
)

// OvertimeHandler 加班条目与加班规则相关接口
type OvertimeHandler struct {
	overtimeService service.OvertimeService
	ruleService     service.OvertimeRuleService
}

func NewOvertimeHandler(overtimeService service.OvertimeService, ruleService service.OvertimeRuleService) *OvertimeHandler {
	return &OvertimeHandler{
		overtimeService: overtimeService,
		ruleService:     ruleService,
	}
}

// ListEntries 查询加班条目
// GET /api/v1/overtime/entries/?all_employees=true
// 默认查本人；all_employees=true 需要管理员权限
func (h *OvertimeHandler) ListEntries(c *gin.Context) {
	var query dto.ListEntriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	if query.AllEmployees && !getIsAdmin(c) {
		response.Forbidden(c, "admin access required")
		return
	}

	entries, err := h.overtimeService.ListEntries(c.Request.Context(), getEmployeeID(c), query.AllEmployees)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, entries)
}

// Recalculate 重算指定周期内所有在职员工的加班条目
// POST /api/v1/overtime/entries/recalculate/
func (h *OvertimeHandler) Recalculate(c *gin.Context) {
	var req dto.RecalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "period_start and period_end are required (YYYY-MM-DD)")
		return
	}

	periodStart, _ := time.Parse("2006-01-02", req.PeriodStart)
	periodEnd, _ := time.Parse("2006-01-02", req.PeriodEnd)

	summary, err := h.overtimeService.Recalculate(c.Request.Context(), periodStart, periodEnd)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPeriod):
			response.UnprocessableEntity(c, "period_end is before period_start")
		case errors.Is(err, service.ErrRecalculationFailed):
			response.Error(c, 500, "recalculation failed for all employees")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, dto.RecalculateResponse{Message: summary.Message()})
}

// ListRules 查询加班规则列表
// GET /api/v1/overtime/rules/
func (h *OvertimeHandler) ListRules(c *gin.Context) {
	rules, err := h.ruleService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, rules)
}

// CreateRule 创建加班规则
// POST /api/v1/overtime/rules/
func (h *OvertimeHandler) CreateRule(c *gin.Context) {
	var req dto.CreateOvertimeRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid rule: scope must be daily or weekly, threshold_hours >= 0, multiplier >= 1")
		return
	}

	rule, err := h.ruleService.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, rule)
}

// UpdateRule 部分更新加班规则
// PATCH /api/v1/overtime/rules/:id/
func (h *OvertimeHandler) UpdateRule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid rule id")
		return
	}

	var req dto.UpdateOvertimeRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid rule: scope must be daily or weekly, threshold_hours >= 0, multiplier >= 1")
		return
	}

	rule, err := h.ruleService.Update(c.Request.Context(), uint(id), &req)
	if err != nil {
		if errors.Is(err, service.ErrOvertimeRuleNotFound) {
			response.NotFound(c, "overtime rule not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, rule)
}
