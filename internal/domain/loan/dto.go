package loan

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/shopspring/decimal"
)

type ScheduleEntryResponse struct {
	ID          string          `json:"id"`
	Period      period.Period   `json:"period"`
	Installment int             `json:"installment"`
	Amount      decimal.Decimal `json:"amount"`
	Deducted    bool            `json:"deducted"`
	DeductedAt  *time.Time      `json:"deducted_at,omitempty"`
}

type SummaryResponse struct {
	LoanID      string                  `json:"loan_id"`
	Amount      decimal.Decimal         `json:"amount"`
	EMI         decimal.Decimal         `json:"emi"`
	Tenure      int                     `json:"tenure"`
	Paid        decimal.Decimal         `json:"paid"`
	Outstanding decimal.Decimal         `json:"outstanding"`
	Entries     []ScheduleEntryResponse `json:"entries"`
}

func NewScheduleEntryResponses(entries []ScheduleEntry) []ScheduleEntryResponse {
	out := make([]ScheduleEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ScheduleEntryResponse{
			ID:          e.ID,
			Period:      e.Period,
			Installment: e.Installment,
			Amount:      e.Amount,
			Deducted:    e.Deducted,
			DeductedAt:  e.DeductedAt,
		})
	}
	return out
}

func NewSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		LoanID:      s.LoanID,
		Amount:      s.Amount,
		EMI:         s.EMI,
		Tenure:      s.Tenure,
		Paid:        s.Paid,
		Outstanding: s.Outstanding,
		Entries:     NewScheduleEntryResponses(s.Entries),
	}
}
