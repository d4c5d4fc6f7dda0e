package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pasch/receivables-engine/pkg/utils"
)

// Charges applied to overdue titles. These are contract terms, not tunables.
var (
	// PenaltyRate is a flat 2% charged once on the title's full face value.
	PenaltyRate = decimal.NewFromFloat(0.02)
	// MonthlyInterestRate is a notional 1% per month, accrued daily.
	MonthlyInterestRate = decimal.NewFromFloat(0.01)
	// InterestBaseDays amortizes the monthly rate into a daily one.
	InterestBaseDays = decimal.NewFromInt(30)
)

// CalculationResult carries the updated amounts for one title as of a
// reference date. Monetary fields are rounded to 2 decimal places.
type CalculationResult struct {
	OriginalAmount decimal.Decimal
	Penalty        decimal.Decimal
	TotalInterest  decimal.Decimal
	UpdatedAmount  decimal.Decimal
	MaxDaysLate    int
}

// Calculate computes the updated amounts owed on a title as of referenceDate.
// It is a pure function and never fails for a title built through NewTitle.
//
// Rules:
//   - originalAmount sums every installment, paid or not.
//   - penalty is 2% of originalAmount, charged once if any installment is
//     overdue, never per installment.
//   - interest accrues per overdue installment at (1%/30) per day on that
//     installment's own amount and lateness.
//   - rounding (half away from zero, 2 decimals) happens once per field after
//     full-precision summation, never per installment.
func Calculate(title *Title, referenceDate time.Time) CalculationResult {
	var originalAmount decimal.Decimal
	for _, installment := range title.Installments {
		originalAmount = originalAmount.Add(installment.Amount)
	}

	// Largest lateness across all installments; paid and not-yet-due ones
	// contribute 0, so a title with no overdue installments reports 0.
	maxDaysLate := 0
	for _, installment := range title.Installments {
		if days := installment.DaysLate(referenceDate); days > maxDaysLate {
			maxDaysLate = days
		}
	}

	penalty := decimal.Zero
	if title.IsOverdue(referenceDate) {
		penalty = originalAmount.Mul(PenaltyRate)
	}

	dailyRate := MonthlyInterestRate.Div(InterestBaseDays)
	totalInterest := decimal.Zero
	for _, installment := range title.Installments {
		days := installment.DaysLate(referenceDate)
		if days <= 0 {
			continue
		}
		totalInterest = totalInterest.Add(installment.Amount.Mul(dailyRate).Mul(decimal.NewFromInt(int64(days))))
	}

	updatedAmount := originalAmount.Add(penalty).Add(totalInterest)

	return CalculationResult{
		OriginalAmount: utils.Round2(originalAmount),
		Penalty:        utils.Round2(penalty),
		TotalInterest:  utils.Round2(totalInterest),
		UpdatedAmount:  utils.Round2(updatedAmount),
		MaxDaysLate:    maxDaysLate,
	}
}
