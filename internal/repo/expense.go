package repo

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/expensio/expensio/internal/models"
)

// ExpenseQuery carries validated filter, sort and page parameters. SortColumn
// and Desc come from the service layer's whitelist, never from raw input.
type ExpenseQuery struct {
	From     *time.Time
	To       *time.Time
	Category string
	Search   string

	SortColumn string
	Desc       bool

	Offset int
	Limit  int
}

// filters returns one independent predicate per optional filter. They are
// combined with AND on top of the owner scope; nothing in here can widen the
// result beyond the owner's rows.
func (q ExpenseQuery) filters() []func(*gorm.DB) *gorm.DB {
	var scopes []func(*gorm.DB) *gorm.DB

	if q.From != nil && q.To != nil {
		from, to := *q.From, *q.To
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("date >= ? AND date <= ?", from, to)
		})
	}

	if q.Category != "" {
		category := q.Category
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("category = ?", category)
		})
	}

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		amount, numErr := strconv.ParseFloat(q.Search, 64)
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			if numErr == nil {
				return db.Where("(lower(description) LIKE ? OR lower(category) LIKE ? OR amount = ?)",
					pattern, pattern, amount)
			}
			return db.Where("(lower(description) LIKE ? OR lower(category) LIKE ?)", pattern, pattern)
		})
	}

	return scopes
}

func (q ExpenseQuery) order() string {
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	return q.SortColumn + " " + dir
}

// expensesOf is the only way expense queries start, which keeps the owner
// predicate unskippable.
func (r *GormRepo) expensesOf(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.Expense{}).Where("user_id = ?", ownerID)
}

func (r *GormRepo) ListExpenses(ctx context.Context, ownerID uuid.UUID, q ExpenseQuery) (int64, []models.Expense, error) {
	var total int64
	if err := r.expensesOf(ctx, ownerID).Scopes(q.filters()...).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Expense, 0, q.Limit)
	if err := r.expensesOf(ctx, ownerID).Scopes(q.filters()...).
		Order(q.order()).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

// AllExpenses returns every expense of the owner in insertion order, for the
// insights roll-up.
func (r *GormRepo) AllExpenses(ctx context.Context, ownerID uuid.UUID) ([]models.Expense, error) {
	var items []models.Expense
	if err := r.expensesOf(ctx, ownerID).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateExpense(ctx context.Context, e *models.Expense) (*models.Expense, error) {
	if err := r.DB.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func (r *GormRepo) GetExpense(ctx context.Context, ownerID, id uuid.UUID) (*models.Expense, error) {
	var e models.Expense
	if err := r.expensesOf(ctx, ownerID).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ExpensePatch holds the fields an update may change; nil means keep.
type ExpensePatch struct {
	Amount      *float64
	Category    *string
	Date        *time.Time
	Description *string
}

func (r *GormRepo) PatchExpense(ctx context.Context, ownerID, id uuid.UUID, patch ExpensePatch) (*models.Expense, error) {
	e, err := r.GetExpense(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}

	if err := r.DB.WithContext(ctx).Save(e).Error; err != nil {
		return nil, err
	}

	return e, nil
}

func (r *GormRepo) DeleteExpense(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.expensesOf(ctx, ownerID).Where("id = ?", id).Delete(&models.Expense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
