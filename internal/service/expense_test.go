package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expensio/expensio/internal/models"
	"github.com/expensio/expensio/internal/transport"
)

func seedExpense(t *testing.T, svc *ExpenseService, owner uuid.UUID, amount float64, category, date, description string) *models.Expense {
	t.Helper()

	e, err := svc.Create(context.Background(), owner, transport.CreateExpenseRequest{
		Amount:      amount,
		Category:    category,
		Date:        date,
		Description: description,
	})
	require.NoError(t, err)
	return e
}

func TestExpenseService_Create_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestExpenseService(t)
	owner := uuid.New()

	tests := []struct {
		name      string
		req       transport.CreateExpenseRequest
		badFields []string
	}{
		{
			name:      "zero amount",
			req:       transport.CreateExpenseRequest{Amount: 0, Category: "food", Date: "2024-01-01"},
			badFields: []string{"amount"},
		},
		{
			name:      "negative amount",
			req:       transport.CreateExpenseRequest{Amount: -5, Category: "food", Date: "2024-01-01"},
			badFields: []string{"amount"},
		},
		{
			name:      "empty category",
			req:       transport.CreateExpenseRequest{Amount: 10, Date: "2024-01-01"},
			badFields: []string{"category"},
		},
		{
			name:      "bad date",
			req:       transport.CreateExpenseRequest{Amount: 10, Category: "food", Date: "yesterday"},
			badFields: []string{"date"},
		},
		{
			name:      "everything wrong",
			req:       transport.CreateExpenseRequest{},
			badFields: []string{"amount", "category", "date"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Create(context.Background(), owner, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.ElementsMatch(t, tt.badFields, fields)
		})
	}
}

func TestExpenseService_List_ScopedToOwner(t *testing.T) {
	t.Parallel()

	svc := newTestExpenseService(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	seedExpense(t, svc, alice, 50, "food", "2024-01-01", "groceries")
	seedExpense(t, svc, alice, 20, "travel", "2024-01-02", "bus")
	seedExpense(t, svc, bob, 99, "food", "2024-01-01", "restaurant")

	list, err := svc.List(ctx, alice, transport.ListExpensesQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
	for _, e := range list.Items {
		assert.Equal(t, alice, e.UserID)
	}
}

func TestExpenseService_List_PaginationAndSort(t *testing.T) {
	t.Parallel()

	svc := newTestExpenseService(t)
	ctx := context.Background()
	owner := uuid.New()

	seedExpense(t, svc, owner, 50, "food", "2024-01-01", "")
	seedExpense(t, svc, owner, 30, "food", "2024-01-02", "")

	list, err := svc.List(ctx, owner, transport.ListExpensesQuery{
		Page:  "1",
		Limit: "1",
		Sort:  "amount",
		Order: "desc",
	})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, float64(50), list.Items[0].Amount)
	assert.EqualValues(t, 2, list.Total)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 1, list.Limit)
	assert.Equal(t, 2, list.Pages)

	list, err = svc.List(ctx, owner, transport.ListExpensesQuery{Sort: "amount", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, float64(30), list.Items[0].Amount)
}

func TestExpenseService_List_DefaultSortIsDateDesc(t *testing.T) {
	t.Parallel()

	svc := newTestExpenseService(t)
	ctx := context.Background()
	owner := uuid.New()

	seedExpense(t, svc, owner, 10, "food", "2024-01-01", "")
	seedExpense(t, svc, owner, 20, "food", "2024-03-01", "")
	seedExpense(t, svc, owner, 30, "food", "2024-02-01", "")

	list, err := svc.List(ctx, owner, transport.ListExpensesQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, float64(20), list.Items[0].Amount)
	assert.Equal(t, float64(30), list.Items[1].Amount)
	assert.Equal(t, float64(10), list.Items[2].Amount)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 10, list.Limit)
}

func TestExpenseService_List_Filters(t *testing.T) {
	t.Parallel()

	svc := newTestExpenseService(t)
	ctx := context.Background()
	owner := uuid.New()

	seedExpense(t, svc, owner, 50, "food", "2024-01-01", "Groceries at the market")
	seedExpense(t, svc, owner, 30, "travel", "2024-02-15", "train ticket")
	seedExpense(t, svc, owner, 12.5, "food", "2024-03-20", "lunch")

	t.Run("category exact match", func(t *testing.T) {
		list, err := svc.List(ctx, owner, transport.ListExpensesQuery{Category: "food"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, list.Total)
	})

	t.Run("date range inclusive", func(t *testing.T) {
		list, err := svc.List(ctx, owner, transport.ListExpensesQuery{
			StartDate: "2024-01-01",
			EndDate:   "2024-02-15",
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, list.Total)
	})

	t.Run("search matches description case-insensitively", func(t *testing.T) {
		list, err := svc.List(ctx, owner, transport.ListExpensesQuery{Search: "GROCERIES"})
		require.NoError(t, err)
		require.EqualValues(t, 1, list.Total)
		assert.Equal(t, float64(50), list.Items[0].Amount)
	})

	t.Run("search matches category substring", func(t *testing.T) {
		list, err := svc.List(ctx, owner, transport.ListExpensesQuery{Search: "trav"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, list.Total)
	})

	t.Run("numeric search also matches amount", func(t *testing.T) {
		list, err := svc.List(ctx, owner, transport.ListExpensesQuery{Search: "12.5"})
		require.NoError(t, err)
		require.EqualValues(t, 1, list.Total)
		assert.Equal(t, 12.5, list.Items[0].Amount)
	})

	t.Run("search combines with category filter", func(t *testing.T) {
		list, err := svc.List(ctx, owner, transport.ListExpensesQuery{Category: "travel", Search: "lunch"})
		require.NoError(t, err)
		assert.EqualValues(t, 0, list.Total)
	})
}

func TestExpenseService_List_QueryValidation(t *testing.T) {
	t.Parallel()

	svc := newTestExpenseService(t)
	ctx := context.Background()
	owner := uuid.New()

	tests := []struct {
		name      string
		query     transport.ListExpensesQuery
		badFields []string
	}{
		{name: "page not a number", query: transport.ListExpensesQuery{Page: "abc"}, badFields: []string{"page"}},
		{name: "page zero", query: transport.ListExpensesQuery{Page: "0"}, badFields: []string{"page"}},
		{name: "limit negative", query: transport.ListExpensesQuery{Limit: "-1"}, badFields: []string{"limit"}},
		{name: "unknown sort field", query: transport.ListExpensesQuery{Sort: "owner"}, badFields: []string{"sort"}},
		{name: "unknown order", query: transport.ListExpensesQuery{Order: "sideways"}, badFields: []string{"order"}},
		{name: "start date alone", query: transport.ListExpensesQuery{StartDate: "2024-01-01"}, badFields: []string{"endDate"}},
		{name: "end date alone", query: transport.ListExpensesQuery{EndDate: "2024-01-01"}, badFields: []string{"startDate"}},
		{name: "unparseable dates", query: transport.ListExpensesQuery{StartDate: "soon", EndDate: "later"}, badFields: []string{"startDate", "endDate"}},
		{
			name:      "several fields at once",
			query:     transport.ListExpensesQuery{Page: "x", Limit: "y", Sort: "z"},
			badFields: []string{"page", "limit", "sort"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.List(ctx, owner, tt.query)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.ElementsMatch(t, tt.badFields, fields)
		})
	}
}

func TestExpenseService_Update_PartialPatch(t *testing.T) {
	t.Parallel()

	svc := newTestExpenseService(t)
	ctx := context.Background()
	owner := uuid.New()

	e := seedExpense(t, svc, owner, 50, "food", "2024-01-01", "groceries")

	newAmount := 75.5
	updated, err := svc.Update(ctx, owner, e.ID, transport.UpdateExpenseRequest{Amount: &newAmount})
	require.NoError(t, err)
	assert.Equal(t, 75.5, updated.Amount)
	assert.Equal(t, "food", updated.Category)
	assert.Equal(t, "groceries", updated.Description)
}

func TestExpenseService_Update_ValidatesProvidedFields(t *testing.T) {
	t.Parallel()

	svc := newTestExpenseService(t)
	ctx := context.Background()
	owner := uuid.New()

	e := seedExpense(t, svc, owner, 50, "food", "2024-01-01", "")

	badAmount := -1.0
	emptyCategory := ""
	_, err := svc.Update(ctx, owner, e.ID, transport.UpdateExpenseRequest{
		Amount:   &badAmount,
		Category: &emptyCategory,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestExpenseService_UpdateDelete_CrossAccountIsNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestExpenseService(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	e := seedExpense(t, svc, alice, 50, "food", "2024-01-01", "")

	amount := 10.0
	_, err := svc.Update(ctx, bob, e.ID, transport.UpdateExpenseRequest{Amount: &amount})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, bob, e.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	// Alice's expense is untouched.
	list, err := svc.List(ctx, alice, transport.ListExpensesQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, float64(50), list.Items[0].Amount)
}

func TestExpenseService_Delete(t *testing.T) {
	t.Parallel()

	svc := newTestExpenseService(t)
	ctx := context.Background()
	owner := uuid.New()

	e := seedExpense(t, svc, owner, 50, "food", "2024-01-01", "")

	require.NoError(t, svc.Delete(ctx, owner, e.ID))

	err := svc.Delete(ctx, owner, e.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
