package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/expensio/expensio/internal/middleware"
)

type Deps struct {
	Auth     *AuthHTTP
	Expenses *ExpenseHTTP
	Guard    *mw.AuthGuard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/api/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.LogOut)

	expenses := e.Group("/api/expenses")
	expenses.Use(d.Guard.RequireAuth)
	expenses.POST("", d.Expenses.Create)
	expenses.GET("", d.Expenses.List)
	expenses.GET("/insights", d.Expenses.Insights)
	if d.Expenses.ES != nil {
		expenses.GET("/search", d.Expenses.Search)
	}
	expenses.PATCH("/:id", d.Expenses.Patch)
	expenses.DELETE("/:id", d.Expenses.Delete)
}
