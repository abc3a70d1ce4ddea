package service

import (
	"strconv"
	"time"

	"github.com/expensio/expensio/internal/repo"
	"github.com/expensio/expensio/internal/transport"
	"github.com/expensio/expensio/internal/util"
)

var sortColumns = map[string]string{
	"date":     "date",
	"amount":   "amount",
	"category": "category",
}

// parseDate accepts the wire formats clients actually send: RFC 3339
// timestamps and plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseListQuery validates the raw query values and normalizes them into a
// repo query. It fails with a ValidationError carrying one entry per bad
// field, before any data access.
func parseListQuery(raw transport.ListExpensesQuery) (repo.ExpenseQuery, int, int, error) {
	var fields []transport.FieldError

	page := util.DefaultPage
	if raw.Page != "" {
		n, err := strconv.Atoi(raw.Page)
		if err != nil || n < 1 {
			fields = append(fields, transport.FieldError{Field: "page", Message: "must be a positive integer"})
		} else {
			page = n
		}
	}

	limit := util.DefaultPageSize
	if raw.Limit != "" {
		n, err := strconv.Atoi(raw.Limit)
		if err != nil || n < 1 {
			fields = append(fields, transport.FieldError{Field: "limit", Message: "must be a positive integer"})
		} else {
			limit = n
		}
	}

	var from, to *time.Time
	switch {
	case raw.StartDate != "" && raw.EndDate == "":
		fields = append(fields, transport.FieldError{Field: "endDate", Message: "must be provided together with startDate"})
	case raw.StartDate == "" && raw.EndDate != "":
		fields = append(fields, transport.FieldError{Field: "startDate", Message: "must be provided together with endDate"})
	case raw.StartDate != "":
		if t, err := parseDate(raw.StartDate); err != nil {
			fields = append(fields, transport.FieldError{Field: "startDate", Message: "must be a valid date"})
		} else {
			from = &t
		}
		if t, err := parseDate(raw.EndDate); err != nil {
			fields = append(fields, transport.FieldError{Field: "endDate", Message: "must be a valid date"})
		} else {
			to = &t
		}
	}

	sort := "date"
	if raw.Sort != "" {
		if _, ok := sortColumns[raw.Sort]; !ok {
			fields = append(fields, transport.FieldError{Field: "sort", Message: "must be one of date, amount, category"})
		} else {
			sort = raw.Sort
		}
	}

	desc := true
	switch raw.Order {
	case "", "desc":
	case "asc":
		desc = false
	default:
		fields = append(fields, transport.FieldError{Field: "order", Message: "must be asc or desc"})
	}

	if len(fields) > 0 {
		return repo.ExpenseQuery{}, 0, 0, newValidationError(fields)
	}

	return repo.ExpenseQuery{
		From:       from,
		To:         to,
		Category:   raw.Category,
		Search:     raw.Search,
		SortColumn: sortColumns[sort],
		Desc:       desc,
		Offset:     util.Offset(page, limit),
		Limit:      limit,
	}, page, limit, nil
}
