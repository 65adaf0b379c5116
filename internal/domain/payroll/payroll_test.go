package payroll

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var jan2025 = period.Period{Year: 2025, Month: time.January}

func TestCompute_AllMissingIsZero(t *testing.T) {
	b := Compute(Sources{EmployeeID: "emp-1", Period: jan2025})
	assert.True(t, b.NetSalary.IsZero())
	assert.True(t, b.TotalEarnings.IsZero())
	assert.True(t, b.TotalDeductions.IsZero())
	assert.Equal(t, "emp-1", b.EmployeeID)
	assert.Equal(t, jan2025, b.Period)
}

func TestCompute_FullFormula(t *testing.T) {
	b := Compute(Sources{
		EmployeeID: "emp-1",
		Period:     jan2025,
		Salary:     &SalaryComponent{Gross: d("50000"), PF: d("1800"), ESI: d("375")},
		Compensation: &MonthlyCompensation{
			LossOfPay:                  d("1000"),
			LeaveCashback:              d("2000"),
			LastYearLeaveCashback:      d("500"),
			AttendanceSpecialAllowance: d("750"),
			OtherSpecialAllowance:      d("250"),
			Overtime:                   d("1200"),
		},
		Incentive:        &Incentive{Allowance: d("3000"), Increment: d("2500"), Bonus: d("4000")},
		LeaveLossOfPay:   d("600"),
		LoanDeduction:    d("300"),
		AdvanceDeduction: d("5000"),
	})

	assert.True(t, b.TotalEarnings.Equal(d("64200")), "earnings %s", b.TotalEarnings)
	assert.True(t, b.LossOfPay.Equal(d("1600")), "loss of pay %s", b.LossOfPay)
	assert.True(t, b.TotalDeductions.Equal(d("9075")), "deductions %s", b.TotalDeductions)
	assert.True(t, b.NetSalary.Equal(d("55125")), "net %s", b.NetSalary)
}

func TestNextSalary(t *testing.T) {
	next := jan2025.Next()
	sc := NextSalary(&SalaryComponent{Gross: d("40000"), PF: d("1800"), ESI: d("300")}, &Incentive{Increment: d("2000")}, "emp-1", next)
	assert.True(t, sc.Gross.Equal(d("42000")))
	assert.True(t, sc.PF.Equal(d("1800")))
	assert.True(t, sc.ESI.Equal(d("300")))
	assert.Equal(t, next, sc.Period)

	empty := NextSalary(nil, nil, "emp-2", next)
	assert.True(t, empty.Gross.IsZero())
	assert.True(t, empty.PF.IsZero())
}

func TestNewBreakdownResponse_Redaction(t *testing.T) {
	b := Compute(Sources{
		EmployeeID:   "emp-1",
		Period:       jan2025,
		Salary:       &SalaryComponent{Gross: d("1000")},
		Compensation: &MonthlyCompensation{OtherSpecialAllowance: d("50")},
	})

	cases := []struct {
		name   string
		viewer user.Actor
		redact bool
	}{
		{"self employee", user.Actor{EmployeeID: "emp-1", Roles: []user.Role{user.RoleEmployee}}, false},
		{"hr other", user.Actor{EmployeeID: "hr-1", Roles: []user.Role{user.RoleHR}}, true},
		{"hr self", user.Actor{EmployeeID: "emp-1", Roles: []user.Role{user.RoleHR}}, false},
		{"md", user.Actor{EmployeeID: "md-1", Roles: []user.Role{user.RoleMD}}, false},
		{"hr and md", user.Actor{EmployeeID: "x", Roles: []user.Role{user.RoleHR, user.RoleMD}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp := NewBreakdownResponse(b, c.viewer)
			raw, err := json.Marshal(resp)
			require.NoError(t, err)
			var m map[string]any
			require.NoError(t, json.Unmarshal(raw, &m))

			for _, field := range []string{"net_salary", "gross_salary", "other_special_allowance"} {
				_, present := m[field]
				assert.Equal(t, !c.redact, present, field)
			}
			assert.Contains(t, m, "pf")
			assert.Equal(t, c.redact, resp.Redacted)
		})
	}
}

func TestPostRequests_Validate(t *testing.T) {
	ok := PostSalaryComponentRequest{EmployeeID: "emp-1", Period: jan2025, Gross: d("100")}
	assert.NoError(t, ok.Validate())

	bad := PostCompensationRequest{Overtime: d("-1")}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, bad.Validate(), &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "employee_id")
	assert.Contains(t, m, "period")
	assert.Contains(t, m, "overtime")

	inc := PostIncentiveRequest{EmployeeID: "emp-1", Period: jan2025, Bonus: d("-5")}
	require.ErrorAs(t, inc.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "bonus")
}

func TestBreakdown_Add(t *testing.T) {
	a := Compute(Sources{Salary: &SalaryComponent{Gross: d("100"), PF: d("10")}})
	b := Compute(Sources{Salary: &SalaryComponent{Gross: d("200"), PF: d("20")}})
	sum := a.Add(b)
	assert.True(t, sum.Gross.Equal(d("300")))
	assert.True(t, sum.NetSalary.Equal(d("270")))
}
