package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustInstallment(t *testing.T, seq int, amount float64, dueDate time.Time, paid bool) Installment {
	t.Helper()
	installment, err := NewInstallment(seq, decimal.NewFromFloat(amount), dueDate, paid)
	require.NoError(t, err)
	return installment
}

func mustTitle(t *testing.T, identifier, debtor string, installments ...Installment) *Title {
	t.Helper()
	title, err := NewTitle(identifier, debtor, installments)
	require.NoError(t, err)
	return title
}

func TestNewInstallment_Validation(t *testing.T) {
	dueDate := date(2025, time.June, 10)

	_, err := NewInstallment(0, decimal.NewFromInt(100), dueDate, false)
	assert.ErrorContains(t, err, "sequence number must be positive")

	_, err = NewInstallment(-3, decimal.NewFromInt(100), dueDate, false)
	assert.ErrorContains(t, err, "sequence number must be positive")

	_, err = NewInstallment(1, decimal.Zero, dueDate, false)
	assert.ErrorContains(t, err, "amount must be positive")

	_, err = NewInstallment(1, decimal.NewFromInt(-50), dueDate, false)
	assert.ErrorContains(t, err, "amount must be positive")
}

func TestNewInstallment_NormalizesDueDateToMidnightUTC(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	dueDate := time.Date(2025, time.June, 10, 18, 45, 12, 0, loc)

	installment, err := NewInstallment(1, decimal.NewFromInt(100), dueDate, false)
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.June, 10), installment.DueDate)
}

func TestNewTitle_Validation(t *testing.T) {
	installment := Installment{SequenceNumber: 1, Amount: decimal.NewFromInt(100), DueDate: date(2025, time.June, 10)}

	_, err := NewTitle("", "Joao", []Installment{installment})
	assert.ErrorContains(t, err, "identifier must not be empty")

	_, err = NewTitle("   ", "Joao", []Installment{installment})
	assert.ErrorContains(t, err, "identifier must not be empty")

	_, err = NewTitle("TIT-1", "  ", []Installment{installment})
	assert.ErrorContains(t, err, "debtor name must not be empty")

	_, err = NewTitle("TIT-1", "Joao", nil)
	assert.ErrorContains(t, err, "at least one installment")
}

func TestInstallment_IsOverdue(t *testing.T) {
	reference := date(2025, time.June, 15)

	tests := []struct {
		name    string
		dueDate time.Time
		paid    bool
		overdue bool
	}{
		{"unpaid and past due", date(2025, time.June, 10), false, true},
		{"unpaid due exactly on reference date", date(2025, time.June, 15), false, false},
		{"unpaid due after reference date", date(2025, time.June, 20), false, false},
		{"paid and past due", date(2025, time.June, 10), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installment := mustInstallment(t, 1, 100, tt.dueDate, tt.paid)
			assert.Equal(t, tt.overdue, installment.IsOverdue(reference))
		})
	}
}

func TestInstallment_DaysLate(t *testing.T) {
	reference := date(2025, time.June, 15)

	tests := []struct {
		name     string
		dueDate  time.Time
		paid     bool
		daysLate int
	}{
		{"ten days late", date(2025, time.June, 5), false, 10},
		{"one day late", date(2025, time.June, 14), false, 1},
		{"due on reference date", date(2025, time.June, 15), false, 0},
		{"not yet due", date(2025, time.July, 1), false, 0},
		{"paid past due contributes nothing", date(2025, time.May, 1), true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installment := mustInstallment(t, 1, 100, tt.dueDate, tt.paid)
			assert.Equal(t, tt.daysLate, installment.DaysLate(reference))
		})
	}
}

func TestTitle_IsOverdue(t *testing.T) {
	reference := date(2025, time.June, 15)

	overdueTitle := mustTitle(t, "TIT-1", "Joao",
		mustInstallment(t, 1, 100, date(2025, time.May, 1), true),
		mustInstallment(t, 2, 100, date(2025, time.June, 1), false),
	)
	assert.True(t, overdueTitle.IsOverdue(reference))

	allPaidTitle := mustTitle(t, "TIT-2", "Maria",
		mustInstallment(t, 1, 100, date(2025, time.May, 1), true),
		mustInstallment(t, 2, 100, date(2025, time.June, 1), true),
	)
	assert.False(t, allPaidTitle.IsOverdue(reference))

	notYetDueTitle := mustTitle(t, "TIT-3", "Carlos",
		mustInstallment(t, 1, 100, date(2025, time.July, 1), false),
	)
	assert.False(t, notYetDueTitle.IsOverdue(reference))
}
