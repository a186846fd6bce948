package model

import "time"

// OvertimeEntry 加班条目表 — 对应 overtime_entries
// 一条记录是对某员工某周期内全部会话套用规则集的计算结果；
// IsLocked 为 true（已进入薪资结算）后重算永不覆盖。
type OvertimeEntry struct {
	ID             uint      `gorm:"primaryKey"                            json:"id"`
	EmployeeID     uint      `gorm:"not null;index"                        json:"employee_id"`
	PeriodStart    time.Time `gorm:"type:date;not null"                    json:"period_start"`
	PeriodEnd      time.Time `gorm:"type:date;not null"                    json:"period_end"`
	HoursRegular   float64   `gorm:"type:numeric(8,2);not null;default:0"  json:"hours_regular"`
	HoursOvertime  float64   `gorm:"type:numeric(8,2);not null;default:0"  json:"hours_overtime"`
	OvertimeAmount float64   `gorm:"type:numeric(12,2);not null;default:0" json:"overtime_amount"`
	RuleID         *uint     `json:"rule_id,omitempty"`
	RuleName       *string   `gorm:"type:varchar(100)"                     json:"rule_name,omitempty"`
	IsLocked       bool      `gorm:"not null;default:false"                json:"is_locked"`
	VersionedModel

	// 关联
	Employee *Employee     `gorm:"foreignKey:EmployeeID;references:ID" json:"employee,omitempty"`
	Rule     *OvertimeRule `gorm:"foreignKey:RuleID;references:ID"     json:"rule,omitempty"`
}

// TableName 指定表名
func (OvertimeEntry) TableName() string { return "overtime_entries" }
