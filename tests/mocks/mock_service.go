package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pasch/receivables-engine/internal/domain"
)

type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) ListOverdue(ctx context.Context, query *domain.ListOverdueQuery) ([]*domain.OverdueTitleResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OverdueTitleResult), args.Error(1)
}

// NewMockTitleService creates a new mock title service instance
func NewMockTitleService() *MockTitleService {
	return &MockTitleService{}
}
