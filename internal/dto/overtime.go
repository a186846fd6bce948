package dto

// ── 加班模块 DTO ──

// OvertimeEntryResponse 加班条目响应
// employee_id / employee_name 仅在管理员查看全员视图时填充
type OvertimeEntryResponse struct {
	ID             uint    `json:"id"`
	PeriodStart    string  `json:"period_start"` // YYYY-MM-DD
	PeriodEnd      string  `json:"period_end"`
	HoursRegular   float64 `json:"hours_regular"`
	HoursOvertime  float64 `json:"hours_overtime"`
	OvertimeAmount float64 `json:"overtime_amount"`
	RuleName       *string `json:"rule_name"` // 周期内无会话时为 null
	IsLocked       bool    `json:"is_locked"`
	EmployeeID     *uint   `json:"employee_id,omitempty"`
	EmployeeName   *string `json:"employee_name,omitempty"`
}

// ListEntriesQuery 加班条目列表查询参数
type ListEntriesQuery struct {
	AllEmployees bool `form:"all_employees"` // 仅管理员可开启
}

// RecalculateRequest 重算请求（闭区间周期）
type RecalculateRequest struct {
	PeriodStart string `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end"   binding:"required,datetime=2006-01-02"`
}

// RecalculateResponse 重算结果
type RecalculateResponse struct {
	Message string `json:"message"`
}

// CreateOvertimeRuleRequest 创建加班规则请求
type CreateOvertimeRuleRequest struct {
	Name           string  `json:"name"            binding:"required,min=1,max=100"`
	Scope          string  `json:"scope"           binding:"required,oneof=daily weekly"`
	ThresholdHours float64 `json:"threshold_hours" binding:"gte=0"`
	Multiplier     float64 `json:"multiplier"      binding:"required,gte=1"`
	Department     *string `json:"department"`
	Role           *string `json:"role"`
	IsActive       bool    `json:"is_active"`
}

// UpdateOvertimeRuleRequest 更新加班规则请求（PATCH 部分字段）
type UpdateOvertimeRuleRequest struct {
	Name           *string  `json:"name"            binding:"omitempty,min=1,max=100"`
	Scope          *string  `json:"scope"           binding:"omitempty,oneof=daily weekly"`
	ThresholdHours *float64 `json:"threshold_hours" binding:"omitempty,gte=0"`
	Multiplier     *float64 `json:"multiplier"      binding:"omitempty,gte=1"`
	Department     *string  `json:"department"`
	Role           *string  `json:"role"`
	IsActive       *bool    `json:"is_active"`
}

// OvertimeRuleResponse 加班规则响应
type OvertimeRuleResponse struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Scope          string  `json:"scope"` // daily | weekly
	ThresholdHours float64 `json:"threshold_hours"`
	Multiplier     float64 `json:"multiplier"`
	Department     *string `json:"department"` // null 表示不限定
	Role           *string `json:"role"`
	IsActive       bool    `json:"is_active"`
}
