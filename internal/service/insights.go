package service

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/expensio/expensio/internal/logging"
)

type CategoryShare struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage string  `json:"percentage"`
}

type Insights struct {
	TotalByCategory map[string]float64 `json:"totalByCategory"`
	Distribution    []CategoryShare    `json:"distribution"`
}

// Insights rolls every expense of the account up by category. It scans the
// whole account, not a page. Distribution order is first-seen category order.
func (s *ExpenseService) Insights(ctx context.Context, ownerID uuid.UUID) (*Insights, error) {
	l := logging.FromContext(ctx).With("svc", "expense.insights", "user_id", ownerID)

	expenses, err := s.Repo.AllExpenses(ctx, ownerID)
	if err != nil {
		l.Error("insights_error", "error", err)
		return nil, err
	}

	totals := make(map[string]float64, len(expenses))
	var order []string
	var grandTotal float64
	for _, e := range expenses {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount
		grandTotal += e.Amount
	}

	distribution := make([]CategoryShare, 0, len(order))
	for _, category := range order {
		amount := totals[category]
		percentage := "0.00"
		if grandTotal != 0 {
			percentage = strconv.FormatFloat(amount/grandTotal*100, 'f', 2, 64)
		}
		distribution = append(distribution, CategoryShare{
			Category:   category,
			Amount:     amount,
			Percentage: percentage,
		})
	}

	return &Insights{
		TotalByCategory: totals,
		Distribution:    distribution,
	}, nil
}
