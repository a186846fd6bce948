package dto

// ── 实时看板模块 DTO ──

// LiveResponse 当前在岗人数
type LiveResponse struct {
	CurrentlyClockedIn int64 `json:"currently_clocked_in"`
}

// UserSummaryResponse 个人考勤摘要
type UserSummaryResponse struct {
	TodayHours          float64               `json:"today_hours"`
	WeekOvertimeHours   float64               `json:"week_overtime_hours"`
	RecentSessions      []WorkSessionResponse `json:"recent_sessions"`
	IsClockedIn         bool                  `json:"is_clocked_in"`
	CurrentSessionStart *string               `json:"current_session_start,omitempty"`
}
