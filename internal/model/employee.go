package model

// ── 雇佣状态 ──

const (
	EmploymentActive     = "active"
	EmploymentInactive   = "inactive"
	EmploymentTerminated = "terminated"
)

// Employee 员工表 — 对应 employees
type Employee struct {
	ID                 uint    `gorm:"primaryKey"                                 json:"id"`
	Name               string  `gorm:"type:varchar(100);not null"                 json:"name"`
	Email              string  `gorm:"type:varchar(255);not null;uniqueIndex"     json:"email"`
	EmployeeCode       string  `gorm:"type:varchar(32);not null;uniqueIndex"      json:"employee_code"`
	Department         string  `gorm:"type:varchar(100);not null;default:''"      json:"department"`
	Role               string  `gorm:"type:varchar(100);not null;default:''"      json:"role"`
	EmploymentStatus   string  `gorm:"type:varchar(20);not null;default:'active'" json:"employment_status"`
	IsAdmin            bool    `gorm:"not null;default:false"                     json:"is_admin"`
	PasswordHash       string  `gorm:"type:varchar(255);not null"                 json:"-"`
	HourlyRate         float64 `gorm:"type:numeric(10,2);not null;default:0"      json:"hourly_rate"`
	MustChangePassword bool    `gorm:"not null;default:false"                     json:"must_change_password"`
	BaseModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// IsActive 员工是否在职（只有在职员工参与加班重算）
func (e *Employee) IsActive() bool { return e.EmploymentStatus == EmploymentActive }
