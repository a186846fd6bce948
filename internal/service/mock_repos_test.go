package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/ricky-kyaw/optitrack-backend/pkg/errors"

	"github.com/ricky-kyaw/optitrack-backend/config"
	"github.com/ricky-kyaw/optitrack-backend/internal/model"
	"github.com/ricky-kyaw/optitrack-backend/internal/repository"
)

// ── 测试公共辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-0123456789",
			AccessTokenTTL:  30 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Attendance: config.AttendanceConfig{
			Timezone:          "UTC",
			LiveCountCacheTTL: 5 * time.Second,
			RecalcWorkers:     4,
			RecalcTimeout:     30 * time.Second,
		},
	}
}

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		Employee:      newMockEmployeeRepo(),
		WorkSession:   newMockWorkSessionRepo(),
		OvertimeRule:  newMockOvertimeRuleRepo(),
		OvertimeEntry: newMockOvertimeEntryRepo(),
	}
}

// ── Mock Repositories ──

type mockEmployeeRepo struct {
	employees map[uint]*model.Employee
	nextID    uint
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[uint]*model.Employee), nextID: 1}
}

func (m *mockEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	if employee.ID == 0 {
		employee.ID = m.nextID
		m.nextID++
	}
	m.employees[employee.ID] = employee
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id uint) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByCode(_ context.Context, code string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context) ([]model.Employee, error) {
	return m.collect(func(*model.Employee) bool { return true }), nil
}

func (m *mockEmployeeRepo) ListActive(_ context.Context) ([]model.Employee, error) {
	return m.collect(func(e *model.Employee) bool { return e.IsActive() }), nil
}

func (m *mockEmployeeRepo) collect(match func(*model.Employee) bool) []model.Employee {
	var result []model.Employee
	for _, e := range m.employees {
		if match(e) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ────────────────────────────────────────

type mockWorkSessionRepo struct {
	sessions map[uint]*model.WorkSession
	nextID   uint

	// 错误注入：非 nil 时对应方法直接返回该错误
	createErr error
	listErr   error
}

func newMockWorkSessionRepo() *mockWorkSessionRepo {
	return &mockWorkSessionRepo{sessions: make(map[uint]*model.WorkSession), nextID: 1}
}

func (m *mockWorkSessionRepo) Create(_ context.Context, session *model.WorkSession) error {
	if m.createErr != nil {
		return m.createErr
	}
	if session.ID == 0 {
		session.ID = m.nextID
		m.nextID++
	}
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *mockWorkSessionRepo) Update(_ context.Context, session *model.WorkSession) error {
	if _, ok := m.sessions[session.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *mockWorkSessionRepo) GetOpenByEmployee(_ context.Context, employeeID uint) (*model.WorkSession, error) {
	for _, s := range m.sessions {
		if s.EmployeeID == employeeID && s.IsOpen() {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkSessionRepo) ListByEmployee(_ context.Context, employeeID uint) ([]model.WorkSession, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := m.collect(func(s *model.WorkSession) bool { return s.EmployeeID == employeeID })
	sort.Slice(result, func(i, j int) bool { return result[i].ClockInAt.After(result[j].ClockInAt) })
	return result, nil
}

func (m *mockWorkSessionRepo) ListClosedInPeriod(_ context.Context, employeeID uint, start, end time.Time) ([]model.WorkSession, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := m.collect(func(s *model.WorkSession) bool {
		return s.EmployeeID == employeeID && !s.IsOpen() &&
			!s.WorkDate.Before(start) && !s.WorkDate.After(end)
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ClockInAt.Before(result[j].ClockInAt) })
	return result, nil
}

func (m *mockWorkSessionRepo) ListRecentClosed(_ context.Context, employeeID uint, limit int) ([]model.WorkSession, error) {
	result := m.collect(func(s *model.WorkSession) bool {
		return s.EmployeeID == employeeID && !s.IsOpen()
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ClockInAt.After(result[j].ClockInAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockWorkSessionRepo) CountOpen(_ context.Context) (int64, error) {
	var count int64
	for _, s := range m.sessions {
		if s.IsOpen() {
			count++
		}
	}
	return count, nil
}

func (m *mockWorkSessionRepo) collect(match func(*model.WorkSession) bool) []model.WorkSession {
	var result []model.WorkSession
	for _, s := range m.sessions {
		if match(s) {
			result = append(result, *s)
		}
	}
	return result
}

// ────────────────────────────────────────

type mockOvertimeRuleRepo struct {
	rules  map[uint]*model.OvertimeRule
	nextID uint
}

func newMockOvertimeRuleRepo() *mockOvertimeRuleRepo {
	return &mockOvertimeRuleRepo{rules: make(map[uint]*model.OvertimeRule), nextID: 1}
}

func (m *mockOvertimeRuleRepo) Create(_ context.Context, rule *model.OvertimeRule) error {
	if rule.ID == 0 {
		rule.ID = m.nextID
		m.nextID++
	}
	cp := *rule
	m.rules[rule.ID] = &cp
	return nil
}

func (m *mockOvertimeRuleRepo) Update(_ context.Context, rule *model.OvertimeRule) error {
	if _, ok := m.rules[rule.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *rule
	m.rules[rule.ID] = &cp
	return nil
}

func (m *mockOvertimeRuleRepo) GetByID(_ context.Context, id uint) (*model.OvertimeRule, error) {
	if r, ok := m.rules[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOvertimeRuleRepo) List(_ context.Context) ([]model.OvertimeRule, error) {
	return m.collect(func(*model.OvertimeRule) bool { return true }), nil
}

func (m *mockOvertimeRuleRepo) ListActive(_ context.Context) ([]model.OvertimeRule, error) {
	return m.collect(func(r *model.OvertimeRule) bool { return r.IsActive }), nil
}

func (m *mockOvertimeRuleRepo) collect(match func(*model.OvertimeRule) bool) []model.OvertimeRule {
	var result []model.OvertimeRule
	for _, r := range m.rules {
		if match(r) {
			result = append(result, *r)
		}
	}
	// 与真实仓库一致：按 id 升序，保证同特异性时取创建顺序最早的规则
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ────────────────────────────────────────

type mockOvertimeEntryRepo struct {
	entries map[uint]*model.OvertimeEntry
	nextID  uint

	// 错误注入
	createErr      error
	updateErr      error
	conflictOnce   bool // 第一次 UpdateChecked 返回乐观锁冲突
	lockOnConflict bool // 冲突时顺带把条目置为锁定（模拟并发锁定）
}

func newMockOvertimeEntryRepo() *mockOvertimeEntryRepo {
	return &mockOvertimeEntryRepo{entries: make(map[uint]*model.OvertimeEntry), nextID: 1}
}

func (m *mockOvertimeEntryRepo) Create(_ context.Context, entry *model.OvertimeEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	if entry.ID == 0 {
		entry.ID = m.nextID
		m.nextID++
	}
	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *mockOvertimeEntryRepo) UpdateChecked(_ context.Context, entry *model.OvertimeEntry) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.entries[entry.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if m.conflictOnce {
		m.conflictOnce = false
		if m.lockOnConflict {
			stored.IsLocked = true
		}
		return pkgerrors.ErrOptimisticLock
	}
	if stored.IsLocked || stored.Version != entry.Version {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version++
	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *mockOvertimeEntryRepo) GetByEmployeeAndPeriod(_ context.Context, employeeID uint, start, end time.Time) (*model.OvertimeEntry, error) {
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && e.PeriodStart.Equal(start) && e.PeriodEnd.Equal(end) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOvertimeEntryRepo) ListByEmployee(_ context.Context, employeeID uint) ([]model.OvertimeEntry, error) {
	return m.collect(func(e *model.OvertimeEntry) bool { return e.EmployeeID == employeeID }), nil
}

func (m *mockOvertimeEntryRepo) ListAll(_ context.Context) ([]model.OvertimeEntry, error) {
	return m.collect(func(*model.OvertimeEntry) bool { return true }), nil
}

func (m *mockOvertimeEntryRepo) GetLatestCovering(_ context.Context, employeeID uint, date time.Time) (*model.OvertimeEntry, error) {
	var latest *model.OvertimeEntry
	for _, e := range m.entries {
		if e.EmployeeID != employeeID {
			continue
		}
		if date.Before(e.PeriodStart) || date.After(e.PeriodEnd) {
			continue
		}
		if latest == nil || e.ID > latest.ID {
			latest = e
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *mockOvertimeEntryRepo) collect(match func(*model.OvertimeEntry) bool) []model.OvertimeEntry {
	var result []model.OvertimeEntry
	for _, e := range m.entries {
		if match(e) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
