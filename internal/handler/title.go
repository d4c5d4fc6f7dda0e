package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/pasch/receivables-engine/internal/domain"
	customError "github.com/pasch/receivables-engine/pkg/errors"
	"github.com/pasch/receivables-engine/pkg/response"
	"github.com/pasch/receivables-engine/pkg/utils"
)

// OverdueTitleLister is the service surface the handler depends on.
type OverdueTitleLister interface {
	ListOverdue(ctx context.Context, query *domain.ListOverdueQuery) ([]*domain.OverdueTitleResult, error)
}

type TitleHandler struct {
	service   OverdueTitleLister
	validator *validator.Validate
}

func NewTitleHandler(service OverdueTitleLister) *TitleHandler {
	return &TitleHandler{
		service:   service,
		validator: validator.New(),
	}
}

// ListOverdue handles GET /api/v1/titles/overdue.
func (h *TitleHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	query, err := parseListOverdueQuery(r.URL.Query())
	if err != nil {
		response.BadRequest(w, "invalid query parameters", err)
		return
	}

	if err := h.validator.Struct(query); err != nil {
		response.BadRequest(w, "invalid query parameters", customError.WrapInvalidSortDir(query.SortDir))
		return
	}

	results, err := h.service.ListOverdue(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, results)
}

func writeServiceError(w http.ResponseWriter, err error) {
	if customError.IsValidation(err) {
		response.BadRequest(w, "invalid query parameters", err)
		return
	}

	var businessErr *customError.BusinessError
	if errors.As(err, &businessErr) && businessErr.Code == customError.ErrCodeDataSourceError {
		response.ServiceUnavailable(w, "title data source unavailable", err)
		return
	}

	response.InternalServerError(w, "failed to list overdue titles", err)
}

func parseListOverdueQuery(values url.Values) (*domain.ListOverdueQuery, error) {
	query := &domain.ListOverdueQuery{
		Identifier: values.Get("identifier"),
		DebtorName: values.Get("debtor"),
		SortBy:     values.Get("sortBy"),
		SortDir:    strings.TrimSpace(values.Get("sortDir")),
	}

	var err error
	if query.MinUpdatedAmount, err = parseDecimalParam(values, "minUpdatedAmount"); err != nil {
		return nil, err
	}
	if query.MaxUpdatedAmount, err = parseDecimalParam(values, "maxUpdatedAmount"); err != nil {
		return nil, err
	}
	if query.MinDaysLate, err = parseIntParam(values, "minDaysLate"); err != nil {
		return nil, err
	}
	if query.MaxDaysLate, err = parseIntParam(values, "maxDaysLate"); err != nil {
		return nil, err
	}

	if raw := strings.TrimSpace(values.Get("referenceDate")); raw != "" {
		date, parseErr := utils.ParseDate(raw)
		if parseErr != nil {
			return nil, customError.WrapInvalidQueryParam("referenceDate", parseErr)
		}
		query.ReferenceDate = &date
	}

	return query, nil
}

func parseDecimalParam(values url.Values, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}

	value, err := utils.DecimalFromString(raw)
	if err != nil {
		return nil, customError.WrapInvalidQueryParam(name, err)
	}
	return &value, nil
}

func parseIntParam(values url.Values, name string) (*int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, customError.WrapInvalidQueryParam(name, err)
	}
	return &value, nil
}
