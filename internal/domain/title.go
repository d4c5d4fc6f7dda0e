package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pasch/receivables-engine/pkg/utils"
)

// Installment is one scheduled payment within a title. Instances are built
// through NewInstallment so the invariants hold for the lifetime of the value;
// nothing in this read-only system mutates them afterwards.
type Installment struct {
	SequenceNumber int             `json:"sequenceNumber" db:"sequence_number"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	DueDate        time.Time       `json:"dueDate" db:"due_date"`
	Paid           bool            `json:"paid" db:"paid"`
}

// NewInstallment validates and builds an installment. The due date is
// normalized to midnight UTC so day arithmetic never sees a time component.
func NewInstallment(sequenceNumber int, amount decimal.Decimal, dueDate time.Time, paid bool) (Installment, error) {
	if sequenceNumber <= 0 {
		return Installment{}, fmt.Errorf("installment sequence number must be positive, got %d", sequenceNumber)
	}
	if !amount.IsPositive() {
		return Installment{}, fmt.Errorf("installment %d amount must be positive, got %s", sequenceNumber, amount)
	}

	return Installment{
		SequenceNumber: sequenceNumber,
		Amount:         amount,
		DueDate:        utils.TruncateToDay(dueDate),
		Paid:           paid,
	}, nil
}

// IsOverdue reports whether the installment is unpaid and strictly past its
// due date. An installment due exactly on the reference date is not overdue.
func (i Installment) IsOverdue(referenceDate time.Time) bool {
	return !i.Paid && i.DueDate.Before(utils.TruncateToDay(referenceDate))
}

// DaysLate returns the whole calendar days the installment is overdue, 0 when
// it is paid or not yet due.
func (i Installment) DaysLate(referenceDate time.Time) int {
	if !i.IsOverdue(referenceDate) {
		return 0
	}
	return utils.DaysBetween(i.DueDate, referenceDate)
}

// Title is a financial obligation composed of one or more installments. A
// title exclusively owns its installments.
type Title struct {
	Identifier   string        `json:"identifier" db:"identifier"`
	DebtorName   string        `json:"debtorName" db:"debtor_name"`
	Installments []Installment `json:"installments"`
}

// NewTitle validates and builds a title.
func NewTitle(identifier, debtorName string, installments []Installment) (*Title, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, fmt.Errorf("title identifier must not be empty")
	}
	if strings.TrimSpace(debtorName) == "" {
		return nil, fmt.Errorf("title %s debtor name must not be empty", identifier)
	}
	if len(installments) == 0 {
		return nil, fmt.Errorf("title %s must have at least one installment", identifier)
	}

	owned := make([]Installment, len(installments))
	copy(owned, installments)

	return &Title{
		Identifier:   identifier,
		DebtorName:   debtorName,
		Installments: owned,
	}, nil
}

// IsOverdue reports whether any installment of the title is overdue.
func (t *Title) IsOverdue(referenceDate time.Time) bool {
	for _, installment := range t.Installments {
		if installment.IsOverdue(referenceDate) {
			return true
		}
	}
	return false
}
