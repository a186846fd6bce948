package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ricky-kyaw/optitrack-backend/internal/dto"
	"github.com/ricky-kyaw/optitrack-backend/internal/model"
	"github.com/ricky-kyaw/optitrack-backend/internal/repository"
)

// ── 员工模块业务错误 ──

var (
	ErrEmailTaken        = errors.New("邮箱已被占用")
	ErrEmployeeCodeTaken = errors.New("员工编号已被占用")
)

// EmployeeService 员工管理业务接口
// 员工主数据归属外部 HR 系统；这里只维护考勤所需的引用副本。
type EmployeeService interface {
	List(ctx context.Context) ([]dto.EmployeeResponse, error)
	Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context) ([]dto.EmployeeResponse, error) {
	employees, err := s.repo.Employee.List(ctx)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		result = append(result, toEmployeeResponse(&employees[i]))
	}
	return result, nil
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	// 唯一性校验：邮箱 / 员工编号
	if _, err := s.repo.Employee.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Employee.GetByCode(ctx, req.EmployeeCode); err == nil {
		return nil, ErrEmployeeCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	// 初始密码随机生成，首登时由管理员走重置流程下发
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成初始密码失败", zap.Error(err))
		return nil, err
	}

	employee := &model.Employee{
		Name:               req.Name,
		Email:              req.Email,
		EmployeeCode:       req.EmployeeCode,
		Department:         req.Department,
		Role:               req.Role,
		EmploymentStatus:   model.EmploymentActive,
		PasswordHash:       string(hash),
		MustChangePassword: true,
	}

	if err := s.repo.Employee.Create(ctx, employee); err != nil {
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建员工",
		zap.Uint("employee_id", employee.ID),
		zap.String("employee_code", employee.EmployeeCode),
	)

	resp := toEmployeeResponse(employee)
	return &resp, nil
}

// ── 内部辅助方法 ──

func toEmployeeResponse(e *model.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:               e.ID,
		Name:             e.Name,
		Email:            e.Email,
		EmployeeCode:     e.EmployeeCode,
		Department:       e.Department,
		Role:             e.Role,
		EmploymentStatus: e.EmploymentStatus,
	}
}
