package request

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/loan"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int {
	return &i
}

func TestSubmitRequest_BuildLeave(t *testing.T) {
	in := SubmitRequest{Kind: KindLeave, EmployeeID: "emp-1", StartDate: "2024-12-30", EndDate: "2025-01-02", Category: "casual"}
	req, err := in.Build()
	require.NoError(t, err)
	require.NotNil(t, req.Leave)
	assert.Equal(t, 4, req.Leave.Days)
	assert.True(t, req.Leave.LossOfPay.IsZero())
}

func TestSubmitRequest_BuildLeaveInvalid(t *testing.T) {
	in := SubmitRequest{Kind: KindLeave, StartDate: "2025-01-05", EndDate: "2025-01-02", Category: "holiday"}
	_, err := in.Build()

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "end_date")
	assert.Contains(t, fields, "category")
}

func TestSubmitRequest_BuildPermission(t *testing.T) {
	in := SubmitRequest{Kind: KindPermission, Date: "2025-01-10", StartTime: "09:00", EndTime: "11:30"}
	req, err := in.Build()
	require.NoError(t, err)
	assert.True(t, req.Permission.Hours.Equal(decimal.RequireFromString("2.5")))

	in.EndTime = "08:00"
	_, err = in.Build()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "end_time")
}

func TestSubmitRequest_BuildLoan(t *testing.T) {
	in := SubmitRequest{Kind: KindLoan, Amount: decPtr("1000"), EMI: decPtr("300")}
	req, err := in.Build()
	require.NoError(t, err)
	assert.Equal(t, 4, req.Loan.Tenure)
	assert.Equal(t, loan.Terms{Amount: req.Loan.Amount, EMI: req.Loan.EMI, Tenure: 4}, req.Loan.Terms())

	in = SubmitRequest{Kind: KindLoan, Amount: decPtr("1000"), EMI: decPtr("300"), Tenure: intPtr(4)}
	_, err = in.Build()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "emi")
}

func TestSubmitRequest_BuildLoanBounds(t *testing.T) {
	cases := []struct {
		name  string
		in    SubmitRequest
		field string
	}{
		{"tenure over cap", SubmitRequest{Kind: KindLoan, Amount: decPtr("1000"), Tenure: intPtr(loan.MaxTenure + 1)}, "tenure"},
		{"sub-cent emi", SubmitRequest{Kind: KindLoan, Amount: decPtr("1000000000"), EMI: decPtr("0.0000001")}, "emi"},
		{"emi too small for cap", SubmitRequest{Kind: KindLoan, Amount: decPtr("1000"), EMI: decPtr("5")}, "emi"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.in.Build()
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), c.field)
		})
	}

	// passes field checks but would leave empty installments
	in := SubmitRequest{Kind: KindLoan, Amount: decPtr("0.10"), Tenure: intPtr(6)}
	_, err := in.Build()
	assert.ErrorIs(t, err, loan.ErrInvalidTerms)
}

func TestSubmitRequest_BuildSalaryAdvance(t *testing.T) {
	in := SubmitRequest{Kind: KindSalaryAdvance, Amount: decPtr("500"), Period: "2025-02"}
	req, err := in.Build()
	require.NoError(t, err)
	assert.Equal(t, period.Period{Year: 2025, Month: time.February}, req.SalaryAdvance.Period)

	in.Period = "Feb"
	_, err = in.Build()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "period")
}

func TestSubmitRequest_InvalidKind(t *testing.T) {
	in := SubmitRequest{Kind: "overtime"}
	_, err := in.Build()
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestRequest_PayloadMissing(t *testing.T) {
	r := Request{Kind: KindLoan}
	_, err := r.Payload()
	assert.ErrorIs(t, err, ErrPayloadMissing)
}

func TestRequest_LoanView(t *testing.T) {
	now := time.Now()
	r := Request{
		ID:              "loan-1",
		EmployeeID:      "emp-1",
		Kind:            KindLoan,
		Status:          StatusApproved,
		RespondedAt:     &now,
		Loan:            &Loan{Amount: decimal.NewFromInt(1200), EMI: decimal.NewFromInt(300), Tenure: 4},
		ScheduleBuiltAt: &now,
	}
	l, ok := r.LoanView()
	require.True(t, ok)
	assert.True(t, l.Approved)
	assert.True(t, l.ScheduleBuilt)
	assert.Equal(t, 4, l.Terms.Tenure)

	_, ok = Request{Kind: KindLeave, Leave: &Leave{}}.LoanView()
	assert.False(t, ok)
}

func TestRespondRequest_Validate(t *testing.T) {
	ok := RespondRequest{RequestID: "r1", Decision: StatusApproved}
	assert.NoError(t, ok.Validate())

	bad := RespondRequest{Decision: StatusPending, LossOfPay: decPtr("-1")}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, bad.Validate(), &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "request_id")
	assert.Contains(t, m, "decision")
	assert.Contains(t, m, "loss_of_pay")
}
