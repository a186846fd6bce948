package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ricky-kyaw/optitrack-backend/internal/model"
	"github.com/ricky-kyaw/optitrack-backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEntries    = errors.New("该周期内没有加班条目")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 将周期内的加班条目导出为 Excel (.xlsx)，供薪资结算对账
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportOvertime 导出周期内加班汇总为 Excel
	// 返回值：buf（Excel 内容）, filename（建议文件名）, error
	ExportOvertime(ctx context.Context, periodStart, periodEnd time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportOvertime(ctx context.Context, periodStart, periodEnd time.Time) (*bytes.Buffer, string, error) {
	if periodEnd.Before(periodStart) {
		return nil, "", ErrInvalidPeriod
	}

	all, err := s.repo.OvertimeEntry.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询加班条目失败", zap.Error(err))
		return nil, "", err
	}

	// 只保留与导出周期有交集的条目
	entries := make([]model.OvertimeEntry, 0, len(all))
	for _, e := range all {
		if !e.PeriodEnd.Before(periodStart) && !e.PeriodStart.After(periodEnd) {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Overtime"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Employee", "Code", "Period Start", "Period End",
		"Regular Hours", "Overtime Hours", "Overtime Amount", "Rule", "Locked",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}

	for row, e := range entries {
		name, code := "", ""
		if e.Employee != nil {
			name = e.Employee.Name
			code = e.Employee.EmployeeCode
		}
		ruleName := ""
		if e.RuleName != nil {
			ruleName = *e.RuleName
		}
		locked := "no"
		if e.IsLocked {
			locked = "yes"
		}

		values := []interface{}{
			name, code,
			e.PeriodStart.Format("2006-01-02"), e.PeriodEnd.Format("2006-01-02"),
			e.HoursRegular, e.HoursOvertime, e.OvertimeAmount, ruleName, locked,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("overtime_%s_%s.xlsx",
		periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"))

	return buf, filename, nil
}
