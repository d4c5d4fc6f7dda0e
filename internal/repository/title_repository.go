package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/pasch/receivables-engine/internal/domain"
	customError "github.com/pasch/receivables-engine/pkg/errors"
)

type titleRepository struct {
	db *sqlx.DB
}

// NewTitleRepository returns a Postgres-backed title source reading from the
// titles and installments tables.
func NewTitleRepository(db *sqlx.DB) TitleRepository {
	return &titleRepository{db: db}
}

type titleRow struct {
	Identifier string `db:"identifier"`
	DebtorName string `db:"debtor_name"`
}

type installmentRow struct {
	TitleIdentifier string          `db:"title_identifier"`
	SequenceNumber  int             `db:"sequence_number"`
	Amount          decimal.Decimal `db:"amount"`
	DueDate         time.Time       `db:"due_date"`
	Paid            bool            `db:"paid"`
}

func (r *titleRepository) ListTitles(ctx context.Context) ([]*domain.Title, error) {
	titlesQuery := `
		SELECT identifier, debtor_name
		FROM titles
		ORDER BY identifier
	`

	var titleRows []titleRow
	if err := r.db.SelectContext(ctx, &titleRows, titlesQuery); err != nil {
		return nil, customError.WrapDataSourceError(err)
	}

	installmentsQuery := `
		SELECT title_identifier, sequence_number, amount, due_date, paid
		FROM installments
		ORDER BY title_identifier, sequence_number
	`

	var installmentRows []installmentRow
	if err := r.db.SelectContext(ctx, &installmentRows, installmentsQuery); err != nil {
		return nil, customError.WrapDataSourceError(err)
	}

	installmentsByTitle := make(map[string][]domain.Installment, len(titleRows))
	for _, row := range installmentRows {
		installment, err := domain.NewInstallment(row.SequenceNumber, row.Amount, row.DueDate, row.Paid)
		if err != nil {
			return nil, customError.WrapInvalidTitleRecord(row.TitleIdentifier, err)
		}
		installmentsByTitle[row.TitleIdentifier] = append(installmentsByTitle[row.TitleIdentifier], installment)
	}

	titles := make([]*domain.Title, 0, len(titleRows))
	for _, row := range titleRows {
		title, err := domain.NewTitle(row.Identifier, row.DebtorName, installmentsByTitle[row.Identifier])
		if err != nil {
			return nil, customError.WrapInvalidTitleRecord(row.Identifier, err)
		}
		titles = append(titles, title)
	}

	return titles, nil
}
