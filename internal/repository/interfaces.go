package repository

import (
	"context"
	"time"

	"github.com/pasch/receivables-engine/internal/domain"
	"github.com/pasch/receivables-engine/pkg/utils"
)

// TitleRepository defines the interface for title data operations. The source
// is read-only; implementations return the complete set of titles.
type TitleRepository interface {
	// ListTitles retrieves every title from the underlying source.
	ListTitles(ctx context.Context) ([]*domain.Title, error)
}

// Clock supplies the reference "today" date. The core never reads wall-clock
// time directly, so tests can substitute a fixed date.
type Clock interface {
	Today() time.Time
}

// SystemClock returns the current civil date at midnight UTC.
type SystemClock struct{}

func (SystemClock) Today() time.Time {
	return utils.TruncateToDay(time.Now().UTC())
}
