package model

// ── 规则作用域 ──

const (
	RuleScopeDaily  = "daily"
	RuleScopeWeekly = "weekly"
)

// OvertimeRule 加班规则表 — 对应 overtime_rules
// Department / Role 为空表示不限定；二者都命中的规则特异性最高。
type OvertimeRule struct {
	ID             uint    `gorm:"primaryKey"                           json:"id"`
	Name           string  `gorm:"type:varchar(100);not null"           json:"name"`
	Scope          string  `gorm:"type:varchar(10);not null"            json:"scope"` // daily | weekly
	ThresholdHours float64 `gorm:"type:numeric(6,2);not null"           json:"threshold_hours"`
	Multiplier     float64 `gorm:"type:numeric(4,2);not null"           json:"multiplier"`
	Department     *string `gorm:"type:varchar(100)"                    json:"department,omitempty"`
	Role           *string `gorm:"type:varchar(100)"                    json:"role,omitempty"`
	IsActive       bool    `gorm:"not null;default:true"                json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (OvertimeRule) TableName() string { return "overtime_rules" }

// Specificity 规则特异性：部门与岗位均命中 > 命中其一 > 均未限定
// 仅在规则已通过 Matches 过滤后有意义。
func (r *OvertimeRule) Specificity() int {
	n := 0
	if r.Department != nil && *r.Department != "" {
		n++
	}
	if r.Role != nil && *r.Role != "" {
		n++
	}
	return n
}

// Matches 规则是否适用于该员工（过滤未设置视为命中）
func (r *OvertimeRule) Matches(e *Employee) bool {
	if r.Department != nil && *r.Department != "" && *r.Department != e.Department {
		return false
	}
	if r.Role != nil && *r.Role != "" && *r.Role != e.Role {
		return false
	}
	return true
}
