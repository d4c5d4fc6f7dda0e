package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/pasch/receivables-engine/internal/domain"
	customError "github.com/pasch/receivables-engine/pkg/errors"
	"github.com/pasch/receivables-engine/pkg/utils"
)

// Wire models for the titles JSON file. Dates travel as YYYY-MM-DD strings
// and amounts as JSON numbers, decoded into decimals without a float detour.
type installmentJSON struct {
	SequenceNumber int             `json:"sequenceNumber"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        string          `json:"dueDate"`
	Paid           bool            `json:"paid"`
}

type titleJSON struct {
	Identifier   string            `json:"identifier"`
	DebtorName   string            `json:"debtorName"`
	Installments []installmentJSON `json:"installments"`
}

type jsonTitleRepository struct {
	path string
}

// NewJSONTitleRepository returns a repository backed by a titles JSON file.
// The file is re-read on every call so each request sees a consistent
// snapshot without the process caching stale data.
func NewJSONTitleRepository(path string) TitleRepository {
	return &jsonTitleRepository{path: path}
}

func (r *jsonTitleRepository) ListTitles(ctx context.Context) ([]*domain.Title, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, customError.WrapDataSourceError(fmt.Errorf("reading %s: %w", r.path, err))
	}

	var records []titleJSON
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, customError.WrapDataSourceError(fmt.Errorf("decoding %s: %w", r.path, err))
	}

	titles := make([]*domain.Title, 0, len(records))
	for _, record := range records {
		title, err := buildTitle(record)
		if err != nil {
			return nil, customError.WrapInvalidTitleRecord(record.Identifier, err)
		}
		titles = append(titles, title)
	}

	return titles, nil
}

func buildTitle(record titleJSON) (*domain.Title, error) {
	installments := make([]domain.Installment, 0, len(record.Installments))
	for _, raw := range record.Installments {
		dueDate, err := utils.ParseDate(raw.DueDate)
		if err != nil {
			return nil, fmt.Errorf("installment %d due date %q: %w", raw.SequenceNumber, raw.DueDate, err)
		}

		installment, err := domain.NewInstallment(raw.SequenceNumber, raw.Amount, dueDate, raw.Paid)
		if err != nil {
			return nil, err
		}
		installments = append(installments, installment)
	}

	return domain.NewTitle(record.Identifier, record.DebtorName, installments)
}
