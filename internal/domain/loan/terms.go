package loan

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Terms are the reconciled amortization parameters of a loan.
type Terms struct {
	Amount decimal.Decimal
	EMI    decimal.Decimal
	Tenure int
}

// MaxTenure caps the number of monthly installments of one loan.
const MaxTenure = 120

// MinEMI is the smallest installment, one cent.
var MinEMI = decimal.New(1, -2)

// Validate checks that the terms amortize into MaxTenure or fewer non-zero
// installments of at least MinEMI.
func (t Terms) Validate() error {
	switch {
	case !t.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTerms)
	case t.EMI.LessThan(MinEMI):
		return fmt.Errorf("%w: emi must be at least %s", ErrInvalidTerms, MinEMI)
	case t.Tenure < 1 || t.Tenure > MaxTenure:
		return fmt.Errorf("%w: tenure must be between 1 and %d", ErrInvalidTerms, MaxTenure)
	case t.EMI.Mul(decimal.NewFromInt(int64(t.Tenure - 1))).GreaterThanOrEqual(t.Amount):
		return fmt.Errorf("%w: amount %s does not cover %d installments of %s", ErrInvalidTerms, t.Amount, t.Tenure, t.EMI)
	}
	return nil
}

// Derive reconciles a principal with exactly one of emi or tenure.
//
// EMI given: tenure = ceil(amount / emi); the EMI is kept and the last
// installment absorbs the remainder.
// Tenure given: emi = amount / tenure rounded up to cents, so every installment
// but the last equals the EMI and the last is never larger.
//
// The result always passes Validate.
func Derive(amount decimal.Decimal, emi *decimal.Decimal, tenure *int) (Terms, error) {
	if !amount.IsPositive() {
		return Terms{}, ErrInvalidTerms
	}
	var t Terms
	switch {
	case emi != nil && tenure != nil, emi == nil && tenure == nil:
		return Terms{}, ErrInvalidTerms
	case emi != nil:
		if emi.LessThan(MinEMI) {
			return Terms{}, fmt.Errorf("%w: emi must be at least %s", ErrInvalidTerms, MinEMI)
		}
		n, ok := tenureFor(amount, *emi)
		if !ok {
			return Terms{}, fmt.Errorf("%w: emi %s needs more than %d installments", ErrInvalidTerms, *emi, MaxTenure)
		}
		t = Terms{Amount: amount, EMI: *emi, Tenure: n}
	default:
		if *tenure < 1 || *tenure > MaxTenure {
			return Terms{}, fmt.Errorf("%w: tenure must be between 1 and %d", ErrInvalidTerms, MaxTenure)
		}
		t = Terms{Amount: amount, EMI: emiFor(amount, *tenure), Tenure: *tenure}
	}
	return t, t.Validate()
}

// tenureFor reports false when the installment count exceeds MaxTenure.
func tenureFor(amount, emi decimal.Decimal) (int, bool) {
	n := amount.Div(emi).Ceil()
	if n.GreaterThan(decimal.NewFromInt(MaxTenure)) {
		return 0, false
	}
	return int(n.IntPart()), true
}

func emiFor(amount decimal.Decimal, tenure int) decimal.Decimal {
	return amount.Div(decimal.NewFromInt(int64(tenure))).RoundUp(2)
}

// Change is an optional data change supplied alongside a loan decision.
type Change struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Tenure *int             `json:"tenure,omitempty"`
	EMI    *decimal.Decimal `json:"emi,omitempty"`
}

func (c *Change) IsEmpty() bool {
	return c == nil || (c.Amount == nil && c.Tenure == nil && c.EMI == nil)
}

// ApplyChange applies c to stored and recomputes the dependent field.
//
//   - amount, tenure and emi all changed: ErrConflictingChange
//   - tenure and emi both supplied, even unchanged: ErrConflictingPair
//   - amount changed alone: ErrImmutableAmount
//   - tenure changed: emi = amount / tenure
//   - emi changed: tenure = ceil(amount / emi)
//
// A field counts as changed when it is supplied and differs from stored.
// amount is the new amount when it changed together with tenure or emi.
func ApplyChange(stored Terms, c *Change) (Terms, error) {
	if c.IsEmpty() {
		return stored, nil
	}

	amountChanged := c.Amount != nil && !c.Amount.Equal(stored.Amount)
	tenureChanged := c.Tenure != nil && *c.Tenure != stored.Tenure
	emiChanged := c.EMI != nil && !c.EMI.Equal(stored.EMI)

	switch {
	case amountChanged && tenureChanged && emiChanged:
		return Terms{}, ErrConflictingChange
	case c.Tenure != nil && c.EMI != nil:
		return Terms{}, ErrConflictingPair
	case amountChanged && !tenureChanged && !emiChanged:
		return Terms{}, ErrImmutableAmount
	}

	amount := stored.Amount
	if amountChanged {
		amount = *c.Amount
	}

	switch {
	case tenureChanged:
		t := *c.Tenure
		return Derive(amount, nil, &t)
	case emiChanged:
		e := *c.EMI
		return Derive(amount, &e, nil)
	}
	return stored, nil
}
