package dto

// ── 考勤模块 DTO ──

// WorkSessionResponse 工作会话响应
// 字段命名沿用当前前端契约（date / clock_in / clock_out / duration_hours）；
// 旧版 work_date / clock_in_at / duration_display 形态视为历史 schema，不再输出。
type WorkSessionResponse struct {
	ID            uint    `json:"id"`
	Date          string  `json:"date"` // YYYY-MM-DD
	ClockIn       string  `json:"clock_in"`
	ClockOut      *string `json:"clock_out"` // 进行中为 null
	DurationHours float64 `json:"duration_hours"`
	Source        string  `json:"source"` // web | manual
}

// ListSessionsQuery 会话列表查询参数
type ListSessionsQuery struct {
	Employee string `form:"employee"` // 员工ID；仅管理员可查他人
}
