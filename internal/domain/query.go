package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/pasch/receivables-engine/pkg/errors"
)

// Sort keys accepted by the overdue listing.
const (
	SortByUpdatedAmount  = "updatedamount"
	SortByDaysLate       = "dayslate"
	SortByDebtorName     = "debtorname"
	SortByIdentifier     = "identifier"
	SortByOriginalAmount = "originalamount"

	SortDirAsc  = "asc"
	SortDirDesc = "desc"
)

// ListOverdueQuery is the options bag for the overdue titles listing. Every
// field is optional; nil pointers mean "no filter".
type ListOverdueQuery struct {
	Identifier       string
	DebtorName       string
	MinUpdatedAmount *decimal.Decimal
	MaxUpdatedAmount *decimal.Decimal
	MinDaysLate      *int
	MaxDaysLate      *int
	ReferenceDate    *time.Time
	SortBy           string
	SortDir          string `validate:"omitempty,oneofci=asc desc"`
}

// Validate rejects self-contradictory queries before any computation runs.
// An unrecognized SortBy is not an error; it falls back to the default key.
func (q *ListOverdueQuery) Validate() error {
	if q.MinUpdatedAmount != nil && q.MaxUpdatedAmount != nil && q.MinUpdatedAmount.GreaterThan(*q.MaxUpdatedAmount) {
		return customError.WrapInvalidRange("minUpdatedAmount", "maxUpdatedAmount")
	}

	if q.MinDaysLate != nil && q.MaxDaysLate != nil && *q.MinDaysLate > *q.MaxDaysLate {
		return customError.WrapInvalidRange("minDaysLate", "maxDaysLate")
	}

	if q.SortDir != "" {
		dir := strings.ToLower(strings.TrimSpace(q.SortDir))
		if dir != SortDirAsc && dir != SortDirDesc {
			return customError.WrapInvalidSortDir(q.SortDir)
		}
	}

	return nil
}

// SortDescending reports whether the query asked for descending order.
func (q *ListOverdueQuery) SortDescending() bool {
	return strings.EqualFold(strings.TrimSpace(q.SortDir), SortDirDesc)
}

// NormalizedSortBy returns the lowercased sort key, defaulting to days late.
func (q *ListOverdueQuery) NormalizedSortBy() string {
	key := strings.ToLower(strings.TrimSpace(q.SortBy))
	if key == "" {
		return SortByDaysLate
	}
	return key
}

// OverdueTitleResult is one row of the overdue listing, produced fresh on
// every query and never persisted.
type OverdueTitleResult struct {
	Identifier       string          `json:"identifier"`
	DebtorName       string          `json:"debtorName"`
	InstallmentCount int             `json:"installmentCount"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	DaysLate         int             `json:"daysLate"`
	UpdatedAmount    decimal.Decimal `json:"updatedAmount"`
	Penalty          decimal.Decimal `json:"penalty"`
	TotalInterest    decimal.Decimal `json:"totalInterest"`
}
