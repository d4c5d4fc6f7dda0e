package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pasch/receivables-engine/internal/domain"
	customError "github.com/pasch/receivables-engine/pkg/errors"
	"github.com/pasch/receivables-engine/tests/mocks"
)

var referenceDate = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func newTitle(t *testing.T, identifier, debtor string, installments ...domain.Installment) *domain.Title {
	t.Helper()
	title, err := domain.NewTitle(identifier, debtor, installments)
	require.NoError(t, err)
	return title
}

func newInstallment(t *testing.T, seq int, amount float64, dueDate time.Time, paid bool) domain.Installment {
	t.Helper()
	installment, err := domain.NewInstallment(seq, decimal.NewFromFloat(amount), dueDate, paid)
	require.NoError(t, err)
	return installment
}

// fixtureTitles returns, relative to the 2025-06-15 reference date:
//   - TIT-100 (Joao da Silva): 10 days late, updated 102.33
//   - TIT-200 (Maria Oliveira): 5 days late, updated 204.33
//   - TIT-300 (Carlos Pereira): not yet due
//   - TIT-400 (Ana Souza): past due but fully paid
func fixtureTitles(t *testing.T) []*domain.Title {
	t.Helper()
	return []*domain.Title{
		newTitle(t, "TIT-100", "Joao da Silva",
			newInstallment(t, 1, 100, time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC), false)),
		newTitle(t, "TIT-200", "Maria Oliveira",
			newInstallment(t, 1, 200, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), false)),
		newTitle(t, "TIT-300", "Carlos Pereira",
			newInstallment(t, 1, 300, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), false)),
		newTitle(t, "TIT-400", "Ana Souza",
			newInstallment(t, 1, 400, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), true)),
	}
}

func newServiceWithFixtures(t *testing.T) (*TitleService, *mocks.MockTitleRepository) {
	t.Helper()
	mockRepo := &mocks.MockTitleRepository{}
	mockRepo.On("ListTitles", mock.Anything).Return(fixtureTitles(t), nil)
	return NewTitleService(mockRepo, mocks.FixedClock{Date: referenceDate}), mockRepo
}

func identifiers(results []*domain.OverdueTitleResult) []string {
	ids := make([]string, 0, len(results))
	for _, result := range results {
		ids = append(ids, result.Identifier)
	}
	return ids
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int {
	return &i
}

func TestListOverdue_ReturnsOnlyOverdueTitles(t *testing.T) {
	service, mockRepo := newServiceWithFixtures(t)

	results, err := service.ListOverdue(context.Background(), &domain.ListOverdueQuery{})

	require.NoError(t, err)
	// Default sort is days late ascending.
	assert.Equal(t, []string{"TIT-200", "TIT-100"}, identifiers(results))

	maria := results[0]
	assert.Equal(t, "Maria Oliveira", maria.DebtorName)
	assert.Equal(t, 1, maria.InstallmentCount)
	assert.Equal(t, 5, maria.DaysLate)
	assert.True(t, maria.OriginalAmount.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, maria.Penalty.Equal(decimal.RequireFromString("4.00")))
	assert.True(t, maria.TotalInterest.Equal(decimal.RequireFromString("0.33")))
	assert.True(t, maria.UpdatedAmount.Equal(decimal.RequireFromString("204.33")))

	mockRepo.AssertExpectations(t)
}

func TestListOverdue_TextFilters(t *testing.T) {
	tests := []struct {
		name     string
		query    domain.ListOverdueQuery
		expected []string
	}{
		{
			name:     "identifier substring match is case-insensitive",
			query:    domain.ListOverdueQuery{Identifier: "it-1"},
			expected: []string{"TIT-100"},
		},
		{
			name:     "debtor substring match is case-insensitive",
			query:    domain.ListOverdueQuery{DebtorName: "OLIVEIRA"},
			expected: []string{"TIT-200"},
		},
		{
			name:     "filter terms are trimmed",
			query:    domain.ListOverdueQuery{DebtorName: "  Joao  "},
			expected: []string{"TIT-100"},
		},
		{
			name:     "both filters combine with AND",
			query:    domain.ListOverdueQuery{Identifier: "TIT-1", DebtorName: "Oliveira"},
			expected: []string{},
		},
		{
			name:     "filter matching a non-overdue title yields empty list",
			query:    domain.ListOverdueQuery{DebtorName: "Carlos"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newServiceWithFixtures(t)

			results, err := service.ListOverdue(context.Background(), &tt.query)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, identifiers(results))
		})
	}
}

func TestListOverdue_RangeFiltersAreInclusive(t *testing.T) {
	tests := []struct {
		name     string
		query    domain.ListOverdueQuery
		expected []string
	}{
		{
			name:     "min updated amount keeps equal value",
			query:    domain.ListOverdueQuery{MinUpdatedAmount: decimalPtr("204.33")},
			expected: []string{"TIT-200"},
		},
		{
			name:     "max updated amount keeps equal value",
			query:    domain.ListOverdueQuery{MaxUpdatedAmount: decimalPtr("102.33")},
			expected: []string{"TIT-100"},
		},
		{
			name:     "min days late",
			query:    domain.ListOverdueQuery{MinDaysLate: intPtr(6)},
			expected: []string{"TIT-100"},
		},
		{
			name:     "max days late keeps equal value",
			query:    domain.ListOverdueQuery{MaxDaysLate: intPtr(5)},
			expected: []string{"TIT-200"},
		},
		{
			name:     "range excluding everything yields empty list",
			query:    domain.ListOverdueQuery{MinUpdatedAmount: decimalPtr("10000")},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newServiceWithFixtures(t)

			results, err := service.ListOverdue(context.Background(), &tt.query)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, identifiers(results))
		})
	}
}

func TestListOverdue_Sorting(t *testing.T) {
	tests := []struct {
		name     string
		query    domain.ListOverdueQuery
		expected []string
	}{
		{
			name:     "default sort is days late ascending",
			query:    domain.ListOverdueQuery{},
			expected: []string{"TIT-200", "TIT-100"},
		},
		{
			name:     "days late descending",
			query:    domain.ListOverdueQuery{SortBy: "daysLate", SortDir: "desc"},
			expected: []string{"TIT-100", "TIT-200"},
		},
		{
			name:     "updated amount ascending",
			query:    domain.ListOverdueQuery{SortBy: "updatedAmount"},
			expected: []string{"TIT-100", "TIT-200"},
		},
		{
			name:     "original amount descending",
			query:    domain.ListOverdueQuery{SortBy: "originalAmount", SortDir: "DESC"},
			expected: []string{"TIT-200", "TIT-100"},
		},
		{
			name:     "debtor name ascending",
			query:    domain.ListOverdueQuery{SortBy: "debtorName"},
			expected: []string{"TIT-100", "TIT-200"},
		},
		{
			name:     "identifier descending",
			query:    domain.ListOverdueQuery{SortBy: "identifier", SortDir: "desc"},
			expected: []string{"TIT-200", "TIT-100"},
		},
		{
			name:     "unknown sort key falls back to days late, direction honored",
			query:    domain.ListOverdueQuery{SortBy: "somethingElse", SortDir: "desc"},
			expected: []string{"TIT-100", "TIT-200"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newServiceWithFixtures(t)

			results, err := service.ListOverdue(context.Background(), &tt.query)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, identifiers(results))
		})
	}
}

func TestListOverdue_SortIsStable(t *testing.T) {
	// Two titles with identical lateness keep their source order.
	titles := []*domain.Title{
		newTitle(t, "TIT-B", "Bruno",
			newInstallment(t, 1, 100, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), false)),
		newTitle(t, "TIT-A", "Alice",
			newInstallment(t, 1, 200, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), false)),
	}

	mockRepo := &mocks.MockTitleRepository{}
	mockRepo.On("ListTitles", mock.Anything).Return(titles, nil)
	service := NewTitleService(mockRepo, mocks.FixedClock{Date: referenceDate})

	results, err := service.ListOverdue(context.Background(), &domain.ListOverdueQuery{})

	require.NoError(t, err)
	assert.Equal(t, []string{"TIT-B", "TIT-A"}, identifiers(results))
}

func TestListOverdue_ReferenceDateOverride(t *testing.T) {
	service, _ := newServiceWithFixtures(t)

	// On June 8 only TIT-100 (due June 5) is overdue, by 3 days.
	override := time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC)
	results, err := service.ListOverdue(context.Background(), &domain.ListOverdueQuery{ReferenceDate: &override})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "TIT-100", results[0].Identifier)
	assert.Equal(t, 3, results[0].DaysLate)
}

func TestListOverdue_ValidationFailureSkipsRepository(t *testing.T) {
	mockRepo := &mocks.MockTitleRepository{}
	service := NewTitleService(mockRepo, mocks.FixedClock{Date: referenceDate})

	query := &domain.ListOverdueQuery{
		MinDaysLate: intPtr(10),
		MaxDaysLate: intPtr(5),
	}

	results, err := service.ListOverdue(context.Background(), query)

	assert.Nil(t, results)
	assert.True(t, customError.IsValidation(err))
	mockRepo.AssertNotCalled(t, "ListTitles", mock.Anything)
}

func TestListOverdue_DataSourceErrorPropagates(t *testing.T) {
	mockRepo := &mocks.MockTitleRepository{}
	mockRepo.On("ListTitles", mock.Anything).
		Return(nil, customError.WrapDataSourceError(assert.AnError))
	service := NewTitleService(mockRepo, mocks.FixedClock{Date: referenceDate})

	results, err := service.ListOverdue(context.Background(), &domain.ListOverdueQuery{})

	assert.Nil(t, results)
	require.Error(t, err)
	var businessErr *customError.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeDataSourceError, businessErr.Code)
}
