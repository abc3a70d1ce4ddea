package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/expensio/expensio/internal/service"
	"github.com/expensio/expensio/internal/transport"
)

// respondServiceError maps the service error taxonomy onto the wire shape
// {message, code?, details?}.
func respondServiceError(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{
			Message: "Validation failed",
			Details: verr.Fields,
		})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "Email already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "Invalid credentials"})
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Message: "Invalid refresh token"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, transport.ErrorResponse{Message: "Expense not found"})
	default:
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Message: "Internal server error"})
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: message})
}
