package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/expensio/expensio/internal/es"
	"github.com/expensio/expensio/internal/events"
	"github.com/expensio/expensio/internal/logging"
	"github.com/expensio/expensio/internal/models"
	"github.com/expensio/expensio/internal/repo"
	"github.com/expensio/expensio/internal/transport"
	"github.com/expensio/expensio/internal/util"
)

type ExpenseService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
	Index  *es.Indexer
}

type ExpenseList struct {
	Items []models.Expense
	Total int64
	Page  int
	Limit int
	Pages int
}

func (s *ExpenseService) Create(ctx context.Context, ownerID uuid.UUID, req transport.CreateExpenseRequest) (*models.Expense, error) {
	l := logging.FromContext(ctx).With("svc", "expense.create", "user_id", ownerID)

	var fields []transport.FieldError
	if req.Amount <= 0 {
		fields = append(fields, transport.FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	if req.Category == "" {
		fields = append(fields, transport.FieldError{Field: "category", Message: "must not be empty"})
	}
	date, err := parseDate(req.Date)
	if err != nil {
		fields = append(fields, transport.FieldError{Field: "date", Message: "must be a valid date"})
	}
	if len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	e := &models.Expense{
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
		Description: req.Description,
		UserID:      ownerID,
	}
	if _, err := s.Repo.CreateExpense(ctx, e); err != nil {
		l.Error("create_expense_error", "error", err)
		return nil, err
	}

	s.afterWrite(ctx, l, "expense_created", e)

	l.Info("create_expense_success", "expense_id", e.ID)
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context, ownerID uuid.UUID, raw transport.ListExpensesQuery) (*ExpenseList, error) {
	l := logging.FromContext(ctx).With("svc", "expense.list", "user_id", ownerID)

	q, page, limit, err := parseListQuery(raw)
	if err != nil {
		return nil, err
	}

	total, items, err := s.Repo.ListExpenses(ctx, ownerID, q)
	if err != nil {
		l.Error("list_expenses_error", "error", err)
		return nil, err
	}

	return &ExpenseList{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: util.Pages(total, limit),
	}, nil
}

// Update is a partial patch: only the fields present in the request change,
// and each present field is validated on its own.
func (s *ExpenseService) Update(ctx context.Context, ownerID, id uuid.UUID, req transport.UpdateExpenseRequest) (*models.Expense, error) {
	l := logging.FromContext(ctx).With("svc", "expense.update", "user_id", ownerID, "expense_id", id)

	var fields []transport.FieldError
	patch := repo.ExpensePatch{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Amount != nil && *req.Amount <= 0 {
		fields = append(fields, transport.FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	if req.Category != nil && *req.Category == "" {
		fields = append(fields, transport.FieldError{Field: "category", Message: "must not be empty"})
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			fields = append(fields, transport.FieldError{Field: "date", Message: "must be a valid date"})
		} else {
			patch.Date = &date
		}
	}
	if len(fields) > 0 {
		return nil, newValidationError(fields)
	}

	e, err := s.Repo.PatchExpense(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("expense not found: %w", ErrNotFound)
		}
		l.Error("update_expense_error", "error", err)
		return nil, err
	}

	s.afterWrite(ctx, l, "expense_updated", e)

	l.Info("update_expense_success")
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "expense.delete", "user_id", ownerID, "expense_id", id)

	if err := s.Repo.DeleteExpense(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("expense not found: %w", ErrNotFound)
		}
		l.Error("delete_expense_error", "error", err)
		return err
	}

	if err := s.Events.Publish(ctx, events.TopicExpenseEvents, ownerID.String(), map[string]any{
		"type":       "expense_deleted",
		"expense_id": id,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}
	if err := s.Index.DeleteExpense(ctx, id); err != nil {
		l.Warn("index_delete_failed", "error", err)
	}

	l.Info("delete_expense_success")
	return nil
}

// afterWrite publishes the event and refreshes the search index. Both are
// best-effort: the write already committed.
func (s *ExpenseService) afterWrite(ctx context.Context, l *slog.Logger, eventType string, e *models.Expense) {
	if err := s.Events.Publish(ctx, events.TopicExpenseEvents, e.UserID.String(), map[string]any{
		"type":       eventType,
		"expense_id": e.ID,
		"amount":     e.Amount,
		"category":   e.Category,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}
	if err := s.Index.IndexExpense(ctx, e); err != nil {
		l.Warn("index_write_failed", "error", err)
	}
}
