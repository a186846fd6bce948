package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Employee      EmployeeRepository
	WorkSession   WorkSessionRepository
	OvertimeRule  OvertimeRuleRepository
	OvertimeEntry OvertimeEntryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Employee:      NewEmployeeRepo(db),
		WorkSession:   NewWorkSessionRepo(db),
		OvertimeRule:  NewOvertimeRuleRepo(db),
		OvertimeEntry: NewOvertimeEntryRepo(db),
	}
}
