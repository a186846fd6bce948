//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pkgerrors "github.com/ricky-kyaw/optitrack-backend/pkg/errors"

	"github.com/ricky-kyaw/optitrack-backend/internal/model"
	"github.com/ricky-kyaw/optitrack-backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=optitrack password=optitrack_password dbname=optitrack_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.Employee{},
		&model.WorkSession{},
		&model.OvertimeRule{},
		&model.OvertimeEntry{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	// "至多一个进行中会话"由部分唯一索引兜底（AutoMigrate 不会生成）
	testDB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_work_sessions_open
		ON work_sessions (employee_id) WHERE clock_out_at IS NULL`)

	code := m.Run()
	os.Exit(code)
}

// setupTestEmployee 创建测试员工并返回清理函数
func setupTestEmployee(t *testing.T) (*model.Employee, func()) {
	t.Helper()
	ctx := context.Background()

	employee := &model.Employee{
		Name:             "测试员工",
		Email:            fmt.Sprintf("test%d@example.com", time.Now().UnixNano()),
		EmployeeCode:     fmt.Sprintf("EMP%d", time.Now().UnixNano()),
		Department:       "Engineering",
		Role:             "Backend",
		EmploymentStatus: model.EmploymentActive,
		PasswordHash:     "$2a$10$placeholder",
		HourlyRate:       50,
	}
	if err := testDB.WithContext(ctx).Create(employee).Error; err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	cleanup := func() {
		testDB.Exec("DELETE FROM overtime_entries WHERE employee_id = ?", employee.ID)
		testDB.Exec("DELETE FROM work_sessions WHERE employee_id = ?", employee.ID)
		testDB.Exec("DELETE FROM employees WHERE id = ?", employee.ID)
	}
	return employee, cleanup
}

// ═══════════════════════════════════════════════════════════
// WorkSession Tests
// ═══════════════════════════════════════════════════════════

func TestWorkSession_OpenSessionUniqueIndex(t *testing.T) {
	employee, cleanup := setupTestEmployee(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewWorkSessionRepo(testDB)

	now := time.Now().UTC()
	first := &model.WorkSession{
		EmployeeID: employee.ID, WorkDate: now.Truncate(24 * time.Hour),
		ClockInAt: now, Source: model.SessionSourceWeb,
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("创建第一个进行中会话失败: %v", err)
	}

	// 数据库层兜底：同一员工第二个进行中会话必须被唯一索引拒绝
	second := &model.WorkSession{
		EmployeeID: employee.ID, WorkDate: now.Truncate(24 * time.Hour),
		ClockInAt: now.Add(time.Minute), Source: model.SessionSourceWeb,
	}
	if err := repo.Create(ctx, second); err == nil {
		t.Error("期望唯一索引拒绝第二个进行中会话")
	}

	// 关闭后则允许再次打卡
	out := now.Add(8 * time.Hour)
	first.ClockOutAt = &out
	first.DurationHours = 8
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("关闭会话失败: %v", err)
	}
	third := &model.WorkSession{
		EmployeeID: employee.ID, WorkDate: now.Truncate(24 * time.Hour),
		ClockInAt: out.Add(time.Hour), Source: model.SessionSourceWeb,
	}
	if err := repo.Create(ctx, third); err != nil {
		t.Errorf("关闭旧会话后应允许新会话: %v", err)
	}
}

func TestWorkSession_GetOpenByEmployee(t *testing.T) {
	employee, cleanup := setupTestEmployee(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewWorkSessionRepo(testDB)

	if _, err := repo.GetOpenByEmployee(ctx, employee.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("无会话时期望 ErrRecordNotFound，实际: %v", err)
	}

	now := time.Now().UTC()
	session := &model.WorkSession{
		EmployeeID: employee.ID, WorkDate: now.Truncate(24 * time.Hour),
		ClockInAt: now, Source: model.SessionSourceWeb,
	}
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("创建会话失败: %v", err)
	}

	open, err := repo.GetOpenByEmployee(ctx, employee.ID)
	if err != nil {
		t.Fatalf("查询进行中会话失败: %v", err)
	}
	if open.ID != session.ID {
		t.Errorf("期望会话ID=%d，实际=%d", session.ID, open.ID)
	}
}

func TestWorkSession_ListClosedInPeriod(t *testing.T) {
	employee, cleanup := setupTestEmployee(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewWorkSessionRepo(testDB)

	base := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	for day := 0; day < 3; day++ {
		clockIn := base.AddDate(0, 0, day)
		out := clockIn.Add(8 * time.Hour)
		s := &model.WorkSession{
			EmployeeID: employee.ID, WorkDate: clockIn.Truncate(24 * time.Hour),
			ClockInAt: clockIn, ClockOutAt: &out, DurationHours: 8,
			Source: model.SessionSourceWeb,
		}
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("创建会话失败: %v", err)
		}
	}

	// 周期只覆盖前两天
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)
	sessions, err := repo.ListClosedInPeriod(ctx, employee.ID, start, end)
	if err != nil {
		t.Fatalf("查询周期会话失败: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("期望2条会话，实际=%d", len(sessions))
	}
}

// ═══════════════════════════════════════════════════════════
// OvertimeEntry Tests
// ═══════════════════════════════════════════════════════════

func TestOvertimeEntry_OptimisticLock_ConflictDetected(t *testing.T) {
	employee, cleanup := setupTestEmployee(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewOvertimeEntryRepo(testDB)

	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC)
	entry := &model.OvertimeEntry{
		EmployeeID: employee.ID, PeriodStart: start, PeriodEnd: end,
		HoursRegular: 40, HoursOvertime: 2,
	}
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("创建条目失败: %v", err)
	}

	// 模拟两个并发读取
	first, _ := repo.GetByEmployeeAndPeriod(ctx, employee.ID, start, end)
	second, _ := repo.GetByEmployeeAndPeriod(ctx, employee.ID, start, end)

	first.HoursOvertime = 3
	if err := repo.UpdateChecked(ctx, first); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}

	second.HoursOvertime = 4
	if err := repo.UpdateChecked(ctx, second); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
}

func TestOvertimeEntry_LockedEntryRejectsUpdate(t *testing.T) {
	employee, cleanup := setupTestEmployee(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewOvertimeEntryRepo(testDB)

	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC)
	entry := &model.OvertimeEntry{
		EmployeeID: employee.ID, PeriodStart: start, PeriodEnd: end, IsLocked: true,
	}
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("创建条目失败: %v", err)
	}

	entry.HoursOvertime = 10
	if err := repo.UpdateChecked(ctx, entry); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("锁定条目的更新应被拒绝，实际: %v", err)
	}
}

func TestOvertimeEntry_VersionIncrement(t *testing.T) {
	employee, cleanup := setupTestEmployee(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewOvertimeEntryRepo(testDB)

	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC)
	entry := &model.OvertimeEntry{
		EmployeeID: employee.ID, PeriodStart: start, PeriodEnd: end,
	}
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("创建条目失败: %v", err)
	}

	initial := entry.Version
	entry.HoursOvertime = 1
	if err := repo.UpdateChecked(ctx, entry); err != nil {
		t.Fatalf("更新失败: %v", err)
	}

	fresh, _ := repo.GetByEmployeeAndPeriod(ctx, employee.ID, start, end)
	if fresh.Version != initial+1 {
		t.Errorf("期望version=%d，实际=%d", initial+1, fresh.Version)
	}
}

func TestOvertimeEntry_GetLatestCovering(t *testing.T) {
	employee, cleanup := setupTestEmployee(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewOvertimeEntryRepo(testDB)

	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC)
	entry := &model.OvertimeEntry{
		EmployeeID: employee.ID, PeriodStart: start, PeriodEnd: end, HoursOvertime: 5,
	}
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("创建条目失败: %v", err)
	}

	mid := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	covering, err := repo.GetLatestCovering(ctx, employee.ID, mid)
	if err != nil {
		t.Fatalf("查询覆盖条目失败: %v", err)
	}
	if covering.HoursOvertime != 5 {
		t.Errorf("期望加班工时=5，实际=%v", covering.HoursOvertime)
	}

	outside := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	if _, err := repo.GetLatestCovering(ctx, employee.ID, outside); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("周期外日期期望 ErrRecordNotFound，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Employee Tests
// ═══════════════════════════════════════════════════════════

func TestEmployee_ListActiveExcludesTerminated(t *testing.T) {
	employee, cleanup := setupTestEmployee(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewEmployeeRepo(testDB)

	terminated := &model.Employee{
		Name:             "离职员工",
		Email:            fmt.Sprintf("gone%d@example.com", time.Now().UnixNano()),
		EmployeeCode:     fmt.Sprintf("GONE%d", time.Now().UnixNano()),
		EmploymentStatus: model.EmploymentTerminated,
		PasswordHash:     "$2a$10$placeholder",
	}
	if err := repo.Create(ctx, terminated); err != nil {
		t.Fatalf("创建离职员工失败: %v", err)
	}
	defer testDB.Exec("DELETE FROM employees WHERE id = ?", terminated.ID)

	active, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("查询在职员工失败: %v", err)
	}
	for _, e := range active {
		if e.ID == terminated.ID {
			t.Error("在职列表不应包含离职员工")
		}
		if e.ID == employee.ID && !e.IsActive() {
			t.Error("在职员工状态异常")
		}
	}
}
