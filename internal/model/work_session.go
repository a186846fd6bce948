package model

import "time"

// ── 会话来源 ──

const (
	SessionSourceWeb    = "web"
	SessionSourceManual = "manual"
)

// WorkSession 工作会话表 — 对应 work_sessions
// 一条记录即一次上班打卡到下班打卡的完整区间；ClockOutAt 为空表示进行中。
// 部分唯一索引 uq_work_sessions_open 保证每名员工至多一个进行中会话。
type WorkSession struct {
	ID            uint       `gorm:"primaryKey"                            json:"id"`
	EmployeeID    uint       `gorm:"not null;index"                        json:"employee_id"`
	WorkDate      time.Time  `gorm:"type:date;not null"                    json:"work_date"`
	ClockInAt     time.Time  `gorm:"not null"                              json:"clock_in_at"`
	ClockOutAt    *time.Time `json:"clock_out_at,omitempty"`
	DurationHours float64    `gorm:"type:numeric(6,2);not null;default:0"  json:"duration_hours"` // 下班打卡时一次性固化
	Source        string     `gorm:"type:varchar(10);not null;default:'web'" json:"source"`
	BaseModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:ID" json:"employee,omitempty"`
}

// TableName 指定表名
func (WorkSession) TableName() string { return "work_sessions" }

// IsOpen 会话是否进行中
func (s *WorkSession) IsOpen() bool { return s.ClockOutAt == nil }
