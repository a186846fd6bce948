package service

import (
	"testing"
	"time"

	"github.com/ricky-kyaw/optitrack-backend/internal/model"
)

// ── 测试辅助 ──

func strPtr(s string) *string { return &s }

// closedSession 构造某日已关闭的会话
func closedSession(day string, hours float64) model.WorkSession {
	date, _ := time.Parse("2006-01-02", day)
	clockIn := date.Add(9 * time.Hour)
	clockOut := clockIn.Add(time.Duration(hours * float64(time.Hour)))
	return model.WorkSession{
		EmployeeID:    1,
		WorkDate:      date,
		ClockInAt:     clockIn,
		ClockOutAt:    &clockOut,
		DurationHours: hours,
		Source:        model.SessionSourceWeb,
	}
}

func dailyRule(id uint, threshold, multiplier float64) *model.OvertimeRule {
	return &model.OvertimeRule{
		ID: id, Name: "日加班规则", Scope: model.RuleScopeDaily,
		ThresholdHours: threshold, Multiplier: multiplier, IsActive: true,
	}
}

func weeklyRule(id uint, threshold, multiplier float64) *model.OvertimeRule {
	return &model.OvertimeRule{
		ID: id, Name: "周加班规则", Scope: model.RuleScopeWeekly,
		ThresholdHours: threshold, Multiplier: multiplier, IsActive: true,
	}
}

// ── computeAccrual 测试 ──

func TestComputeAccrual_NoSessions(t *testing.T) {
	result := computeAccrual(nil, ruleSet{daily: dailyRule(1, 8, 1.5)}, 20)

	if result.HoursRegular != 0 || result.HoursOvertime != 0 || result.OvertimeAmount != 0 {
		t.Errorf("无会话时应全为零，实际: %+v", result)
	}
	if result.RuleID != nil || result.RuleName != nil {
		t.Error("无会话时不应归属任何规则")
	}
}

func TestComputeAccrual_DailyOvertime(t *testing.T) {
	sessions := []model.WorkSession{closedSession("2026-08-03", 10)}
	rs := ruleSet{daily: dailyRule(1, 8, 1.5)}

	result := computeAccrual(sessions, rs, 20)

	if result.HoursRegular != 8 {
		t.Errorf("期望常规工时=8，实际=%v", result.HoursRegular)
	}
	if result.HoursOvertime != 2 {
		t.Errorf("期望加班工时=2，实际=%v", result.HoursOvertime)
	}
	// 2h × 1.5 × 20 = 60
	if result.OvertimeAmount != 60 {
		t.Errorf("期望加班金额=60，实际=%v", result.OvertimeAmount)
	}
	if result.RuleID == nil || *result.RuleID != 1 {
		t.Errorf("期望归属规则1，实际=%v", result.RuleID)
	}
}

func TestComputeAccrual_WeeklyOvertime(t *testing.T) {
	// 一周 5 天，每天 9 小时，共 45 小时；周阈值 40
	sessions := []model.WorkSession{
		closedSession("2026-08-03", 9),
		closedSession("2026-08-04", 9),
		closedSession("2026-08-05", 9),
		closedSession("2026-08-06", 9),
		closedSession("2026-08-07", 9),
	}
	rs := ruleSet{weekly: weeklyRule(2, 40, 1.5)}

	result := computeAccrual(sessions, rs, 10)

	if result.HoursRegular != 40 {
		t.Errorf("期望常规工时=40，实际=%v", result.HoursRegular)
	}
	if result.HoursOvertime != 5 {
		t.Errorf("期望加班工时=5，实际=%v", result.HoursOvertime)
	}
	// 5h × 1.5 × 10 = 75
	if result.OvertimeAmount != 75 {
		t.Errorf("期望加班金额=75，实际=%v", result.OvertimeAmount)
	}
}

func TestComputeAccrual_DailyThenWeekly(t *testing.T) {
	// 6 天，每天 10 小时，共 60 小时
	// 日阈值 8：日加班 = 6 × 2 = 12
	// 周规则基数 = 60 - 12 = 48，周阈值 40：周加班 = 8
	// 总加班 = 20，常规 = 40
	sessions := []model.WorkSession{
		closedSession("2026-08-03", 10),
		closedSession("2026-08-04", 10),
		closedSession("2026-08-05", 10),
		closedSession("2026-08-06", 10),
		closedSession("2026-08-07", 10),
		closedSession("2026-08-08", 10),
	}
	rs := ruleSet{daily: dailyRule(1, 8, 2.0), weekly: weeklyRule(2, 40, 1.5)}

	result := computeAccrual(sessions, rs, 10)

	if result.HoursOvertime != 20 {
		t.Errorf("期望加班工时=20，实际=%v", result.HoursOvertime)
	}
	if result.HoursRegular != 40 {
		t.Errorf("期望常规工时=40，实际=%v", result.HoursRegular)
	}
	// 12 × 2.0 × 10 + 8 × 1.5 × 10 = 240 + 120 = 360
	if result.OvertimeAmount != 360 {
		t.Errorf("期望加班金额=360，实际=%v", result.OvertimeAmount)
	}
	// 日加班分量更大（12 > 8），归属日规则
	if result.RuleID == nil || *result.RuleID != 1 {
		t.Errorf("期望归属日规则1，实际=%v", result.RuleID)
	}
}

func TestComputeAccrual_AttributionWeeklyWins(t *testing.T) {
	// 日加班很小、周加班很大时归属周规则
	// 5 天 × 8.5h = 42.5；日阈值 8 → 日加班 2.5；基数 40，周阈值 30 → 周加班 10
	sessions := []model.WorkSession{
		closedSession("2026-08-03", 8.5),
		closedSession("2026-08-04", 8.5),
		closedSession("2026-08-05", 8.5),
		closedSession("2026-08-06", 8.5),
		closedSession("2026-08-07", 8.5),
	}
	rs := ruleSet{daily: dailyRule(1, 8, 1.5), weekly: weeklyRule(2, 30, 1.5)}

	result := computeAccrual(sessions, rs, 10)

	if result.RuleID == nil || *result.RuleID != 2 {
		t.Errorf("期望归属周规则2，实际=%v", result.RuleID)
	}
}

func TestComputeAccrual_Conservation(t *testing.T) {
	// 守恒律：常规 + 加班 = 总工时，对任意规则组合成立
	sessions := []model.WorkSession{
		closedSession("2026-08-03", 12),
		closedSession("2026-08-04", 7.25),
		closedSession("2026-08-05", 10.5),
	}
	total := 12 + 7.25 + 10.5

	cases := []ruleSet{
		{},
		{daily: dailyRule(1, 8, 1.5)},
		{weekly: weeklyRule(2, 20, 2.0)},
		{daily: dailyRule(1, 0, 3.0), weekly: weeklyRule(2, 0, 1.5)},
		{daily: dailyRule(1, 8, 1.5), weekly: weeklyRule(2, 20, 2.0)},
	}

	for i, rs := range cases {
		result := computeAccrual(sessions, rs, 15)
		if got := result.HoursRegular + result.HoursOvertime; got != total {
			t.Errorf("用例%d 违反守恒律：常规+加班=%v，总工时=%v", i, got, total)
		}
		if result.HoursOvertime > total {
			t.Errorf("用例%d 加班工时超过总工时：%v > %v", i, result.HoursOvertime, total)
		}
	}
}

func TestComputeAccrual_NoRules(t *testing.T) {
	sessions := []model.WorkSession{closedSession("2026-08-03", 12)}

	result := computeAccrual(sessions, ruleSet{}, 20)

	if result.HoursRegular != 12 || result.HoursOvertime != 0 {
		t.Errorf("无规则时全部计为常规工时，实际: %+v", result)
	}
	if result.RuleID != nil {
		t.Error("无规则时不应归属规则")
	}
}

func TestComputeAccrual_OpenSessionsExcluded(t *testing.T) {
	open := closedSession("2026-08-03", 5)
	open.ClockOutAt = nil // 进行中
	sessions := []model.WorkSession{open, closedSession("2026-08-04", 10)}

	result := computeAccrual(sessions, ruleSet{daily: dailyRule(1, 8, 1.5)}, 10)

	if result.HoursRegular+result.HoursOvertime != 10 {
		t.Errorf("进行中会话不应参与核算，总工时应为10，实际=%v",
			result.HoursRegular+result.HoursOvertime)
	}
}

// ── resolveRuleSet 测试 ──

func TestResolveRuleSet_Specificity(t *testing.T) {
	employee := &model.Employee{ID: 1, Department: "Engineering", Role: "Backend"}
	generic := dailyRule(1, 8, 1.5)
	deptOnly := dailyRule(2, 8, 1.75)
	deptOnly.Department = strPtr("Engineering")
	deptAndRole := dailyRule(3, 8, 2.0)
	deptAndRole.Department = strPtr("Engineering")
	deptAndRole.Role = strPtr("Backend")

	rs := resolveRuleSet(employee, []model.OvertimeRule{*generic, *deptOnly, *deptAndRole})

	if rs.daily == nil || rs.daily.ID != 3 {
		t.Errorf("期望选中特异性最高的规则3，实际=%+v", rs.daily)
	}
}

func TestResolveRuleSet_TiePicksEarliest(t *testing.T) {
	employee := &model.Employee{ID: 1, Department: "Sales"}
	first := dailyRule(1, 8, 1.5)
	second := dailyRule(2, 9, 2.0)

	rs := resolveRuleSet(employee, []model.OvertimeRule{*first, *second})

	if rs.daily == nil || rs.daily.ID != 1 {
		t.Errorf("同特异性时期望选中创建最早的规则1，实际=%+v", rs.daily)
	}
}

func TestResolveRuleSet_NonMatchingExcluded(t *testing.T) {
	employee := &model.Employee{ID: 1, Department: "Sales", Role: "Manager"}
	wrongDept := dailyRule(1, 8, 1.5)
	wrongDept.Department = strPtr("Engineering")
	inactive := dailyRule(2, 8, 1.5)
	inactive.IsActive = false

	rs := resolveRuleSet(employee, []model.OvertimeRule{*wrongDept, *inactive})

	if rs.daily != nil {
		t.Errorf("不匹配或停用的规则不应被选中，实际=%+v", rs.daily)
	}
}

func TestResolveRuleSet_BothScopesCoexist(t *testing.T) {
	employee := &model.Employee{ID: 1}
	rules := []model.OvertimeRule{*dailyRule(1, 8, 1.5), *weeklyRule(2, 40, 1.5)}

	rs := resolveRuleSet(employee, rules)

	if rs.daily == nil || rs.weekly == nil {
		t.Error("日规则与周规则应同时生效")
	}
}
