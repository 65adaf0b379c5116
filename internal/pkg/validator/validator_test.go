package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty(" \t "))
	assert.False(t, IsEmpty(" abc "))
}

func TestIsValidDate(t *testing.T) {
	for _, s := range []string{"2023-01-01", "2000-12-31", " 2024-02-29 "} {
		_, ok := IsValidDate(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"2023-13-01", "2023-01-32", "2023/01/01", "2023-02-29", ""} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestIsValidClock(t *testing.T) {
	for _, s := range []string{"00:00", "09:30", "23:59"} {
		_, ok := IsValidClock(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"24:00", "9:30am", "12:60", ""} {
		_, ok := IsValidClock(s)
		assert.False(t, ok, s)
	}

	start, _ := IsValidClock("09:00")
	end, _ := IsValidClock("10:30")
	assert.Equal(t, 90.0, end.Sub(start).Minutes())
}

func TestNonNegative(t *testing.T) {
	assert.True(t, NonNegative())
	assert.True(t, NonNegative(decimal.Zero, decimal.NewFromInt(5)))
	assert.False(t, NonNegative(decimal.NewFromInt(5), decimal.NewFromFloat(-0.01)))
}

func TestValidationErrors_Collect(t *testing.T) {
	var errs ValidationErrors
	require.NoError(t, errs.Err())

	errs.Check(true, "amount", "ignored")
	errs.Check(false, "amount", "invalid")
	errs.Add("tenure", "required")
	errs.Add("tenure", "must be positive")

	err := errs.Err()
	require.Error(t, err)
	assert.Equal(t, "amount: invalid; tenure: required; tenure: must be positive", err.Error())
	assert.Equal(t, map[string]string{"amount": "invalid", "tenure": "must be positive"}, errs.ToMap())
}
