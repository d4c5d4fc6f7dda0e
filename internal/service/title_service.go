package service

import (
	"context"
	"sort"
	"strings"

	"github.com/pasch/receivables-engine/internal/domain"
	"github.com/pasch/receivables-engine/internal/repository"
	"github.com/pasch/receivables-engine/pkg/utils"
)

// TitleService answers the overdue titles listing. It holds no mutable state
// between calls, so concurrent requests can share one instance.
type TitleService struct {
	titleRepo repository.TitleRepository
	clock     repository.Clock
}

func NewTitleService(titleRepo repository.TitleRepository, clock repository.Clock) *TitleService {
	return &TitleService{
		titleRepo: titleRepo,
		clock:     clock,
	}
}

// ListOverdue returns the overdue titles with their updated amounts, filtered
// and sorted per the query. An empty list is a valid result, distinct from a
// data-source failure.
func (s *TitleService) ListOverdue(ctx context.Context, query *domain.ListOverdueQuery) ([]*domain.OverdueTitleResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	referenceDate := s.clock.Today()
	if query.ReferenceDate != nil {
		referenceDate = utils.TruncateToDay(*query.ReferenceDate)
	}

	titles, err := s.titleRepo.ListTitles(ctx)
	if err != nil {
		return nil, err
	}

	// 1. Text filters run before any calculation to shrink the working set.
	identifierTerm := strings.TrimSpace(query.Identifier)
	debtorTerm := strings.TrimSpace(query.DebtorName)

	filtered := make([]*domain.Title, 0, len(titles))
	for _, title := range titles {
		if identifierTerm != "" && !containsFold(title.Identifier, identifierTerm) {
			continue
		}
		if debtorTerm != "" && !containsFold(title.DebtorName, debtorTerm) {
			continue
		}
		if !title.IsOverdue(referenceDate) {
			continue
		}
		filtered = append(filtered, title)
	}

	// 2. Calculate updated amounts per retained title.
	results := make([]*domain.OverdueTitleResult, 0, len(filtered))
	for _, title := range filtered {
		calc := domain.Calculate(title, referenceDate)
		results = append(results, &domain.OverdueTitleResult{
			Identifier:       title.Identifier,
			DebtorName:       title.DebtorName,
			InstallmentCount: len(title.Installments),
			OriginalAmount:   calc.OriginalAmount,
			DaysLate:         calc.MaxDaysLate,
			UpdatedAmount:    calc.UpdatedAmount,
			Penalty:          calc.Penalty,
			TotalInterest:    calc.TotalInterest,
		})
	}

	// 3. Range filters apply to the computed values, so they must run after
	// the calculation stage.
	results = applyRangeFilters(results, query)

	sortResults(results, query)

	return results, nil
}

func applyRangeFilters(results []*domain.OverdueTitleResult, query *domain.ListOverdueQuery) []*domain.OverdueTitleResult {
	kept := results[:0]
	for _, result := range results {
		if query.MinUpdatedAmount != nil && result.UpdatedAmount.LessThan(*query.MinUpdatedAmount) {
			continue
		}
		if query.MaxUpdatedAmount != nil && result.UpdatedAmount.GreaterThan(*query.MaxUpdatedAmount) {
			continue
		}
		if query.MinDaysLate != nil && result.DaysLate < *query.MinDaysLate {
			continue
		}
		if query.MaxDaysLate != nil && result.DaysLate > *query.MaxDaysLate {
			continue
		}
		kept = append(kept, result)
	}
	return kept
}

// sortResults orders the listing by the requested key. String keys compare
// ordinally so the order is reproducible across environments. An unknown key
// degrades to the days-late default with the direction still honored.
func sortResults(results []*domain.OverdueTitleResult, query *domain.ListOverdueQuery) {
	desc := query.SortDescending()

	var less func(a, b *domain.OverdueTitleResult) bool
	switch query.NormalizedSortBy() {
	case domain.SortByUpdatedAmount:
		less = func(a, b *domain.OverdueTitleResult) bool { return a.UpdatedAmount.LessThan(b.UpdatedAmount) }
	case domain.SortByDebtorName:
		less = func(a, b *domain.OverdueTitleResult) bool { return a.DebtorName < b.DebtorName }
	case domain.SortByIdentifier:
		less = func(a, b *domain.OverdueTitleResult) bool { return a.Identifier < b.Identifier }
	case domain.SortByOriginalAmount:
		less = func(a, b *domain.OverdueTitleResult) bool { return a.OriginalAmount.LessThan(b.OriginalAmount) }
	default:
		less = func(a, b *domain.OverdueTitleResult) bool { return a.DaysLate < b.DaysLate }
	}

	sort.SliceStable(results, func(i, j int) bool {
		if desc {
			return less(results[j], results[i])
		}
		return less(results[i], results[j])
	})
}

// containsFold is a case-insensitive substring match.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
