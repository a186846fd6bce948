package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	pkgerrors "github.com/ricky-kyaw/optitrack-backend/pkg/errors"

	"github.com/ricky-kyaw/optitrack-backend/config"
	"github.com/ricky-kyaw/optitrack-backend/internal/dto"
	"github.com/ricky-kyaw/optitrack-backend/internal/model"
	"github.com/ricky-kyaw/optitrack-backend/internal/repository"
)

// ── 加班模块业务错误 ──

var (
	ErrInvalidPeriod        = errors.New("周期结束日期早于开始日期")
	ErrRecalculationFailed  = errors.New("所有员工的加班重算均失败")
	ErrOvertimeRuleNotFound = errors.New("加班规则不存在")
)

// RecalcSummary 批量重算结果汇总
// 锁定条目被跳过属于正常结果；个别员工失败记入 Failures，不中断其余员工。
type RecalcSummary struct {
	Created  int
	Updated  int
	Skipped  int
	Failures []string
}

// Message 生成面向前端的结果描述
func (s *RecalcSummary) Message() string {
	msg := fmt.Sprintf("Recalculation complete: %d created, %d updated, %d skipped (locked)",
		s.Created, s.Updated, s.Skipped)
	if len(s.Failures) > 0 {
		msg += fmt.Sprintf(", %d failed", len(s.Failures))
	}
	return msg
}

// OvertimeService 加班条目业务接口
type OvertimeService interface {
	ListEntries(ctx context.Context, employeeID uint, allEmployees bool) ([]dto.OvertimeEntryResponse, error)
	// Recalculate 对 [periodStart, periodEnd]（闭区间）内所有在职员工重算加班条目
	Recalculate(ctx context.Context, periodStart, periodEnd time.Time) (*RecalcSummary, error)
}

type overtimeService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOvertimeService 创建 OvertimeService 实例
func NewOvertimeService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) OvertimeService {
	return &overtimeService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── ListEntries ──────────────────────

func (s *overtimeService) ListEntries(ctx context.Context, employeeID uint, allEmployees bool) ([]dto.OvertimeEntryResponse, error) {
	var (
		entries []model.OvertimeEntry
		err     error
	)
	if allEmployees {
		entries, err = s.repo.OvertimeEntry.ListAll(ctx)
	} else {
		entries, err = s.repo.OvertimeEntry.ListByEmployee(ctx, employeeID)
	}
	if err != nil {
		s.logger.Error("查询加班条目失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.OvertimeEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, toOvertimeEntryResponse(&entries[i], allEmployees))
	}
	return result, nil
}

// ────────────────────── Recalculate ──────────────────────

// Recalculate 重算编排：
//   - 员工之间无共享状态，按配置的 worker 数并行处理
//   - 超时后不再派发新员工，已完成部分照常计入汇总
//   - 锁定条目跳过并计数，绝不覆盖
//   - 仅当所有目标员工都失败时整体报错
func (s *overtimeService) Recalculate(ctx context.Context, periodStart, periodEnd time.Time) (*RecalcSummary, error) {
	if periodEnd.Before(periodStart) {
		return nil, ErrInvalidPeriod
	}

	employees, err := s.repo.Employee.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询在职员工失败", zap.Error(err))
		return nil, err
	}

	rules, err := s.repo.OvertimeRule.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询启用规则失败", zap.Error(err))
		return nil, err
	}

	summary := &RecalcSummary{}
	if len(employees) == 0 {
		return summary, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Attendance.RecalcTimeout)
	defer cancel()

	workers := s.cfg.Attendance.RecalcWorkers
	if workers > len(employees) {
		workers = len(employees)
	}

	jobs := make(chan *model.Employee)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for employee := range jobs {
				outcome, err := s.recalculateEmployee(ctx, employee, periodStart, periodEnd, rules)
				mu.Lock()
				switch {
				case err != nil:
					summary.Failures = append(summary.Failures,
						fmt.Sprintf("%s: %v", employee.EmployeeCode, err))
				case outcome == outcomeCreated:
					summary.Created++
				case outcome == outcomeUpdated:
					summary.Updated++
				case outcome == outcomeSkipped:
					summary.Skipped++
				}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for i := range employees {
		select {
		case <-ctx.Done():
			// 截止后停止派发，保留已完成的部分结果
			s.logger.Warn("重算超时，停止派发剩余员工",
				zap.Int("dispatched", i), zap.Int("total", len(employees)))
			break dispatch
		case jobs <- &employees[i]:
		}
	}
	close(jobs)
	wg.Wait()

	if len(summary.Failures) == len(employees) && len(employees) > 0 {
		return summary, ErrRecalculationFailed
	}

	s.logger.Info("加班重算完成",
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", len(summary.Failures)),
	)

	return summary, nil
}

type recalcOutcome int

const (
	outcomeCreated recalcOutcome = iota
	outcomeUpdated
	outcomeSkipped
)

// recalculateEmployee 处理单个员工：解析规则 → 取周期会话 → 核算 → upsert 条目
func (s *overtimeService) recalculateEmployee(
	ctx context.Context,
	employee *model.Employee,
	periodStart, periodEnd time.Time,
	rules []model.OvertimeRule,
) (recalcOutcome, error) {
	sessions, err := s.repo.WorkSession.ListClosedInPeriod(ctx, employee.ID, periodStart, periodEnd)
	if err != nil {
		return 0, fmt.Errorf("查询周期会话失败: %w", err)
	}

	// 无适用规则不是错误：核算结果为零加班
	rs := resolveRuleSet(employee, rules)
	result := computeAccrual(sessions, rs, employee.HourlyRate)

	existing, err := s.repo.OvertimeEntry.GetByEmployeeAndPeriod(ctx, employee.ID, periodStart, periodEnd)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("查询既有条目失败: %w", err)
		}
		entry := &model.OvertimeEntry{
			EmployeeID:     employee.ID,
			PeriodStart:    periodStart,
			PeriodEnd:      periodEnd,
			HoursRegular:   result.HoursRegular,
			HoursOvertime:  result.HoursOvertime,
			OvertimeAmount: result.OvertimeAmount,
			RuleID:         result.RuleID,
			RuleName:       result.RuleName,
		}
		if err := s.repo.OvertimeEntry.Create(ctx, entry); err != nil {
			return 0, fmt.Errorf("创建条目失败: %w", err)
		}
		return outcomeCreated, nil
	}

	// 锁定条目（已进入薪资结算）永不覆盖
	if existing.IsLocked {
		return outcomeSkipped, nil
	}

	existing.HoursRegular = result.HoursRegular
	existing.HoursOvertime = result.HoursOvertime
	existing.OvertimeAmount = result.OvertimeAmount
	existing.RuleID = result.RuleID
	existing.RuleName = result.RuleName

	if err := s.repo.OvertimeEntry.UpdateChecked(ctx, existing); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			// 并发修改（可能刚被锁定）：重读一次再裁决
			fresh, rerr := s.repo.OvertimeEntry.GetByEmployeeAndPeriod(ctx, employee.ID, periodStart, periodEnd)
			if rerr == nil && fresh.IsLocked {
				return outcomeSkipped, nil
			}
			return 0, err
		}
		return 0, fmt.Errorf("更新条目失败: %w", err)
	}
	return outcomeUpdated, nil
}

// ── 内部辅助方法 ──

func toOvertimeEntryResponse(e *model.OvertimeEntry, withEmployee bool) dto.OvertimeEntryResponse {
	resp := dto.OvertimeEntryResponse{
		ID:             e.ID,
		PeriodStart:    e.PeriodStart.Format("2006-01-02"),
		PeriodEnd:      e.PeriodEnd.Format("2006-01-02"),
		HoursRegular:   e.HoursRegular,
		HoursOvertime:  e.HoursOvertime,
		OvertimeAmount: e.OvertimeAmount,
		RuleName:       e.RuleName,
		IsLocked:       e.IsLocked,
	}
	if withEmployee {
		id := e.EmployeeID
		resp.EmployeeID = &id
		if e.Employee != nil {
			name := e.Employee.Name
			resp.EmployeeName = &name
		}
	}
	return resp
}
