package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ricky-kyaw/optitrack-backend/internal/model"
)

// 加班核算：对一个周期内的会话套用解析后的规则集，纯函数、可重放。
// 日规则先行，周规则作用于扣除日加班后的常规工时基数。

// ruleSet 解析后的规则集：每个作用域至多一条生效规则
type ruleSet struct {
	daily  *model.OvertimeRule
	weekly *model.OvertimeRule
}

// resolveRuleSet 从启用规则中为员工挑选适用规则
// 选择算法：先按部门/岗位过滤（未限定视为命中），再按特异性取最高
// （部门+岗位均命中 > 命中其一 > 均未限定）；同特异性取创建顺序最早的一条。
// 日规则与周规则可同时生效。rules 要求按 id 升序传入。
func resolveRuleSet(employee *model.Employee, rules []model.OvertimeRule) ruleSet {
	var rs ruleSet
	pick := func(slot **model.OvertimeRule, candidate *model.OvertimeRule) {
		if *slot == nil || candidate.Specificity() > (*slot).Specificity() {
			*slot = candidate
		}
	}

	for i := range rules {
		rule := &rules[i]
		if !rule.IsActive || !rule.Matches(employee) {
			continue
		}
		switch rule.Scope {
		case model.RuleScopeDaily:
			pick(&rs.daily, rule)
		case model.RuleScopeWeekly:
			pick(&rs.weekly, rule)
		}
	}
	return rs
}

// accrualResult 核算结果
type accrualResult struct {
	HoursRegular   float64
	HoursOvertime  float64
	OvertimeAmount float64
	RuleID         *uint
	RuleName       *string
}

// computeAccrual 核算一个周期的常规/加班工时与加班金额
//
// 不变式：HoursRegular + HoursOvertime == 周期内总工时（守恒律）。
// 金额 = Σ 各加班分量 × 对应规则倍率 × 员工时薪，使用 decimal 计算避免浮点误差。
// 周期内无会话时返回全零结果且不归属任何规则。
func computeAccrual(sessions []model.WorkSession, rs ruleSet, hourlyRate float64) accrualResult {
	// 1. 按自然日聚合工时
	dailyTotals := make(map[string]float64)
	totalWorked := 0.0
	for i := range sessions {
		s := &sessions[i]
		if s.IsOpen() {
			continue // 进行中会话无固化时长，不参与核算
		}
		key := s.WorkDate.Format("2006-01-02")
		dailyTotals[key] += s.DurationHours
		totalWorked += s.DurationHours
	}

	if totalWorked == 0 {
		return accrualResult{}
	}

	// 2. 日规则：逐日超出阈值部分计为日加班
	dailyOvertime := 0.0
	if rs.daily != nil {
		for _, hours := range dailyTotals {
			if hours > rs.daily.ThresholdHours {
				dailyOvertime += hours - rs.daily.ThresholdHours
			}
		}
	}

	// 3. 周规则：基数为扣除日加班后的常规工时
	weeklyOvertime := 0.0
	if rs.weekly != nil {
		regularBase := totalWorked - dailyOvertime
		if regularBase > rs.weekly.ThresholdHours {
			weeklyOvertime = regularBase - rs.weekly.ThresholdHours
		}
	}

	// 4. 汇总；总工时是加班上限（守恒律）
	overtime := dailyOvertime + weeklyOvertime
	if overtime > totalWorked {
		overtime = totalWorked
	}
	regular := totalWorked - overtime

	// 5. 金额 = Σ 分量 × 倍率 × 时薪
	rate := decimal.NewFromFloat(hourlyRate)
	amount := decimal.Zero
	if rs.daily != nil && dailyOvertime > 0 {
		amount = amount.Add(decimal.NewFromFloat(dailyOvertime).
			Mul(decimal.NewFromFloat(rs.daily.Multiplier)).
			Mul(rate))
	}
	if rs.weekly != nil && weeklyOvertime > 0 {
		amount = amount.Add(decimal.NewFromFloat(weeklyOvertime).
			Mul(decimal.NewFromFloat(rs.weekly.Multiplier)).
			Mul(rate))
	}

	result := accrualResult{
		HoursRegular:   roundHours(regular),
		HoursOvertime:  roundHours(overtime),
		OvertimeAmount: amount.Round(2).InexactFloat64(),
	}

	// 6. 展示归属：加班分量最大的规则；相等时日规则优先
	if overtime > 0 {
		attributed := rs.daily
		if rs.daily == nil || (rs.weekly != nil && weeklyOvertime > dailyOvertime) {
			attributed = rs.weekly
		}
		if attributed != nil {
			id := attributed.ID
			name := attributed.Name
			result.RuleID = &id
			result.RuleName = &name
		}
	}

	return result
}

// dailyTotalFor 统计某员工一组会话中指定日期的已固化工时
// 供个人摘要的"今日工时"复用核算第 1 步的口径
func dailyTotalFor(sessions []model.WorkSession, date time.Time) float64 {
	key := date.Format("2006-01-02")
	total := 0.0
	for i := range sessions {
		s := &sessions[i]
		if s.IsOpen() {
			continue
		}
		if s.WorkDate.Format("2006-01-02") == key {
			total += s.DurationHours
		}
	}
	return roundHours(total)
}
