package loan

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(i int) *int {
	return &i
}

func amounts(entries []ScheduleEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Amount.String()
	}
	return out
}

func TestDerive_EMIGiven(t *testing.T) {
	terms, err := Derive(dec("1000"), decPtr("300"), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, terms.Tenure)
	assert.True(t, terms.EMI.Equal(dec("300")))
}

func TestDerive_TenureGiven(t *testing.T) {
	terms, err := Derive(dec("1200"), nil, intPtr(4))
	require.NoError(t, err)
	assert.Equal(t, 4, terms.Tenure)
	assert.True(t, terms.EMI.Equal(dec("300")))
}

func TestDerive_TenureGivenNonIntegral(t *testing.T) {
	terms, err := Derive(dec("1000"), nil, intPtr(3))
	require.NoError(t, err)
	assert.True(t, terms.EMI.Equal(dec("333.34")), "got %s", terms.EMI)
}

func TestDerive_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		emi    *decimal.Decimal
		tenure *int
	}{
		{"both given", "1000", decPtr("300"), intPtr(4)},
		{"neither given", "1000", nil, nil},
		{"zero amount", "0", decPtr("300"), nil},
		{"negative emi", "1000", decPtr("-1"), nil},
		{"zero tenure", "1000", nil, intPtr(0)},
		{"sub-cent emi", "1000000000", decPtr("0.0000001"), nil},
		{"emi needs too many months", "1000", decPtr("8"), nil},
		{"tenure over cap", "1000", nil, intPtr(MaxTenure + 1)},
		{"tenure leaves empty installments", "0.10", nil, intPtr(6)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Derive(dec(c.amount), c.emi, c.tenure)
			assert.ErrorIs(t, err, ErrInvalidTerms)
		})
	}
}

func TestDerive_Bounds(t *testing.T) {
	terms, err := Derive(dec("1200"), nil, intPtr(MaxTenure))
	require.NoError(t, err)
	assert.True(t, terms.EMI.Equal(dec("10")))

	terms, err = Derive(dec("1200"), decPtr("10"), nil)
	require.NoError(t, err)
	assert.Equal(t, MaxTenure, terms.Tenure)

	terms, err = Derive(dec("0.05"), decPtr("0.01"), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, terms.Tenure)
}

func TestTerms_Validate(t *testing.T) {
	assert.NoError(t, Terms{Amount: dec("1000"), EMI: dec("300"), Tenure: 4}.Validate())
	assert.NoError(t, Terms{Amount: dec("100"), EMI: dec("1000"), Tenure: 1}.Validate())

	for name, terms := range map[string]Terms{
		"zero amount":       {Amount: dec("0"), EMI: dec("300"), Tenure: 4},
		"zero emi":          {Amount: dec("1000"), EMI: dec("0"), Tenure: 4},
		"zero tenure":       {Amount: dec("1000"), EMI: dec("300"), Tenure: 0},
		"huge tenure":       {Amount: dec("1000"), EMI: dec("0.01"), Tenure: 100000},
		"zero last payment": {Amount: dec("0.10"), EMI: dec("0.02"), Tenure: 6},
	} {
		assert.ErrorIs(t, terms.Validate(), ErrInvalidTerms, name)
	}
}

func TestBuildSchedule_NoZeroInstallments(t *testing.T) {
	start := period.Period{Year: 2025, Month: time.January}
	for _, tenure := range []int{1, 2, 3, 7, 12, 60, MaxTenure} {
		for _, amount := range []string{"1.20", "99.99", "1000", "123456.78"} {
			terms, err := Derive(dec(amount), nil, intPtr(tenure))
			if err != nil {
				assert.ErrorIs(t, err, ErrInvalidTerms)
				continue
			}
			for _, e := range BuildSchedule("loan", "emp", terms, start) {
				assert.True(t, e.Amount.IsPositive(), "amount %s tenure %d: installment %d is %s", amount, tenure, e.Installment, e.Amount)
			}
		}
	}
}

func TestBuildSchedule_Examples(t *testing.T) {
	start := period.Period{Year: 2024, Month: time.November}

	terms, err := Derive(dec("1000"), decPtr("300"), nil)
	require.NoError(t, err)
	entries := BuildSchedule("loan-1", "emp-1", terms, start)
	assert.Equal(t, []string{"300", "300", "300", "100"}, amounts(entries))

	terms, err = Derive(dec("1200"), nil, intPtr(4))
	require.NoError(t, err)
	entries = BuildSchedule("loan-2", "emp-1", terms, start)
	assert.Equal(t, []string{"300", "300", "300", "300"}, amounts(entries))
}

func TestBuildSchedule_ConsecutivePeriods(t *testing.T) {
	start := period.Period{Year: 2024, Month: time.November}
	terms, err := Derive(dec("1000"), decPtr("300"), nil)
	require.NoError(t, err)

	entries := BuildSchedule("loan-1", "emp-1", terms, start)
	want := []period.Period{
		{Year: 2024, Month: time.November},
		{Year: 2024, Month: time.December},
		{Year: 2025, Month: time.January},
		{Year: 2025, Month: time.February},
	}
	for i, e := range entries {
		assert.Equal(t, want[i], e.Period)
		assert.Equal(t, i+1, e.Installment)
		assert.Equal(t, "loan-1", e.LoanID)
		assert.Equal(t, "emp-1", e.EmployeeID)
		assert.NotEmpty(t, e.ID)
	}
}

func TestBuildSchedule_SumEqualsAmount(t *testing.T) {
	start := period.Period{Year: 2025, Month: time.January}
	cases := []struct {
		amount string
		emi    *decimal.Decimal
		tenure *int
	}{
		{"1000", decPtr("300"), nil},
		{"1000", nil, intPtr(3)},
		{"999.99", decPtr("100"), nil},
		{"10000", nil, intPtr(7)},
		{"1", nil, intPtr(3)},
		{"250.50", decPtr("250.50"), nil},
		{"100", decPtr("1000"), nil},
		{"12345.67", nil, intPtr(11)},
	}
	for _, c := range cases {
		terms, err := Derive(dec(c.amount), c.emi, c.tenure)
		require.NoError(t, err)

		entries := BuildSchedule("loan", "emp", terms, start)
		assert.Len(t, entries, terms.Tenure)
		assert.True(t, Total(entries).Equal(dec(c.amount)), "amount %s: sum %s", c.amount, Total(entries))
		last := entries[len(entries)-1]
		assert.True(t, last.Amount.LessThanOrEqual(terms.EMI), "amount %s: last %s > emi %s", c.amount, last.Amount, terms.EMI)
	}
}

func TestApplyChange(t *testing.T) {
	stored := Terms{Amount: dec("1200"), EMI: dec("300"), Tenure: 4}

	cases := []struct {
		name       string
		change     *Change
		wantErr    error
		wantAmount string
		wantEMI    string
		wantTenure int
	}{
		{name: "nil change", change: nil, wantAmount: "1200", wantEMI: "300", wantTenure: 4},
		{name: "same values", change: &Change{Amount: decPtr("1200"), Tenure: intPtr(4)}, wantAmount: "1200", wantEMI: "300", wantTenure: 4},
		{name: "tenure only", change: &Change{Tenure: intPtr(6)}, wantAmount: "1200", wantEMI: "200", wantTenure: 6},
		{name: "emi only", change: &Change{EMI: decPtr("500")}, wantAmount: "1200", wantEMI: "500", wantTenure: 3},
		{name: "amount and tenure", change: &Change{Amount: decPtr("1500"), Tenure: intPtr(5)}, wantAmount: "1500", wantEMI: "300", wantTenure: 5},
		{name: "amount and emi", change: &Change{Amount: decPtr("1500"), EMI: decPtr("400")}, wantAmount: "1500", wantEMI: "400", wantTenure: 4},
		{name: "amount alone", change: &Change{Amount: decPtr("1500")}, wantErr: ErrImmutableAmount},
		{name: "amount and shorter tenure", change: &Change{Amount: decPtr("1500"), Tenure: intPtr(6)}, wantAmount: "1500", wantEMI: "250", wantTenure: 6},
		{name: "tenure and emi", change: &Change{Tenure: intPtr(6), EMI: decPtr("200")}, wantErr: ErrConflictingPair},
		{name: "tenure changed with emi unchanged", change: &Change{Tenure: intPtr(6), EMI: decPtr("300")}, wantErr: ErrConflictingPair},
		{name: "tenure and emi both unchanged", change: &Change{Tenure: intPtr(4), EMI: decPtr("300")}, wantErr: ErrConflictingPair},
		{name: "tenure over cap", change: &Change{Tenure: intPtr(MaxTenure + 1)}, wantErr: ErrInvalidTerms},
		{name: "all three", change: &Change{Amount: decPtr("1500"), Tenure: intPtr(6), EMI: decPtr("250")}, wantErr: ErrConflictingChange},
		{name: "invalid tenure", change: &Change{Tenure: intPtr(-1)}, wantErr: ErrInvalidTerms},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ApplyChange(stored, c.change)
			if c.wantErr != nil {
				assert.ErrorIs(t, err, c.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Amount.Equal(dec(c.wantAmount)), "amount %s", got.Amount)
			assert.True(t, got.EMI.Equal(dec(c.wantEMI)), "emi %s", got.EMI)
			assert.Equal(t, c.wantTenure, got.Tenure)
		})
	}
}

func TestSummarize(t *testing.T) {
	l := Loan{ID: "loan-1", Terms: Terms{Amount: dec("1000"), EMI: dec("300"), Tenure: 4}}
	entries := BuildSchedule(l.ID, "emp", l.Terms, period.Period{Year: 2025, Month: time.January})
	entries[0].Deducted = true
	entries[1].Deducted = true

	s := Summarize(l, entries)
	assert.True(t, s.Paid.Equal(dec("600")))
	assert.True(t, s.Outstanding.Equal(dec("400")))
}
