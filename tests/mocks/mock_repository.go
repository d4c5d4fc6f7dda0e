package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pasch/receivables-engine/internal/domain"
)

type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) ListTitles(ctx context.Context) ([]*domain.Title, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Title), args.Error(1)
}

// FixedClock pins the reference date for deterministic tests.
type FixedClock struct {
	Date time.Time
}

func (c FixedClock) Today() time.Time {
	return c.Date
}
