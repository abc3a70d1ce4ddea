package httpserver

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/expensio/expensio/internal/logging"
	mw "github.com/expensio/expensio/internal/middleware"
	"github.com/expensio/expensio/internal/service"
	"github.com/expensio/expensio/internal/service/search"
	"github.com/expensio/expensio/internal/transport"
	"github.com/expensio/expensio/internal/util"
)

type ExpenseHTTP struct {
	Svc *service.ExpenseService

	// ES is nil when full-text search is not configured.
	ES      *elasticsearch.Client
	ESIndex string
}

// identity reads the guard-resolved caller; requests can only get here
// through RequireAuth, so a missing identity is a wiring error.
func identity(c echo.Context) (mw.Identity, error) {
	ident, ok := mw.IdentityFrom(c)
	if !ok {
		return mw.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
	}
	return ident, nil
}

func (h *ExpenseHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense_create")

	ident, err := identity(c)
	if err != nil {
		return err
	}

	var req transport.CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("expense_create_error", "status", 400, "error", err)
		return badRequest(c, "invalid body")
	}

	expense, err := h.Svc.Create(ctx, ident.UserID, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense_list")

	ident, err := identity(c)
	if err != nil {
		return err
	}

	var raw transport.ListExpensesQuery
	if err := c.Bind(&raw); err != nil {
		l.Warn("expense_list_error", "status", 400, "error", err)
		return badRequest(c, "invalid query")
	}

	list, err := h.Svc.List(ctx, ident.UserID, raw)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"expenses": list.Items,
		"pagination": transport.Pagination{
			Total: list.Total,
			Page:  list.Page,
			Limit: list.Limit,
			Pages: list.Pages,
		},
	})
}

func (h *ExpenseHTTP) Insights(c echo.Context) error {
	ctx := c.Request().Context()

	ident, err := identity(c)
	if err != nil {
		return err
	}

	insights, err := h.Svc.Insights(ctx, ident.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, insights)
}

func (h *ExpenseHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense_patch")

	ident, err := identity(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("expense_patch_error", "status", 400, "reason", "id not a uuid")
		return badRequest(c, "id must be a uuid")
	}

	var req transport.UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("expense_patch_error", "status", 400, "error", err)
		return badRequest(c, "invalid body")
	}

	expense, err := h.Svc.Update(ctx, ident.UserID, id, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense_delete")

	ident, err := identity(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("expense_delete_error", "status", 400, "reason", "id not a uuid")
		return badRequest(c, "id must be a uuid")
	}

	if err := h.Svc.Delete(ctx, ident.UserID, id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Expense deleted successfully"})
}

func (h *ExpenseHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense_search")

	ident, err := identity(c)
	if err != nil {
		return err
	}

	q := c.QueryParam("q")
	if q == "" {
		return badRequest(c, "q is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = util.DefaultPage
	}
	size, _ := strconv.Atoi(c.QueryParam("limit"))
	if size < 1 {
		size = util.DefaultPageSize
	}

	total, items, err := search.Search(ctx, h.ES, h.ESIndex, ident.UserID, q, util.Offset(page, size), size)
	if err != nil {
		l.Error("expense_search_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Message: "Search failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "expenses": items})
}
