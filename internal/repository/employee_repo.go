package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ricky-kyaw/optitrack-backend/internal/model"
)

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id uint) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	GetByCode(ctx context.Context, code string) (*model.Employee, error)
	List(ctx context.Context) ([]model.Employee, error)
	ListActive(ctx context.Context) ([]model.Employee, error)
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id uint) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) GetByCode(ctx context.Context, code string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_code = ?", code).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Order("employee_code ASC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) ListActive(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Where("employment_status = ?", model.EmploymentActive).
		Order("id ASC").
		Find(&employees).Error
	return employees, err
}
