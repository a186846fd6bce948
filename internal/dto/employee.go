package dto

// ── 员工模块 DTO ──

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	Name         string `json:"name"          binding:"required,min=1,max=100"`
	Email        string `json:"email"         binding:"required,email"`
	EmployeeCode string `json:"employee_code" binding:"required,min=1,max=32"`
	Department   string `json:"department"    binding:"required,max=100"`
	Role         string `json:"role"          binding:"required,max=100"`
}

// EmployeeResponse 员工信息响应
type EmployeeResponse struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	EmployeeCode     string `json:"employee_code"`
	Department       string `json:"department"`
	Role             string `json:"role"`
	EmploymentStatus string `json:"employment_status"` // active | inactive | terminated
}
