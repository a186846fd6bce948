package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ricky-kyaw/optitrack-backend/internal/dto"
	"github.com/ricky-kyaw/optitrack-backend/internal/service"
	"github.com/ricky-kyaw/optitrack-backend/pkg/response"
)

// EmployeeHandler 员工管理相关接口
type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// List 员工列表
// GET /api/v1/users/employees/
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employeeService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, employees)
}

// Create 创建员工
// POST /api/v1/users/employees/
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.BadRequest(c, "email already in use")
		case errors.Is(err, service.ErrEmployeeCodeTaken):
			response.BadRequest(c, "employee code already in use")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, employee)
}
