package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/expensio/expensio/internal/cookies"
	"github.com/expensio/expensio/internal/service"
	"github.com/expensio/expensio/internal/transport"
)

// Identity is the authenticated caller, resolved once per request by the
// auth guard and read back by handlers through IdentityFrom.
type Identity struct {
	UserID uuid.UUID
}

const identityKey = "auth.identity"

func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

type AuthGuard struct {
	Tokens *service.TokenService
}

func NewAuthGuard(t *service.TokenService) *AuthGuard {
	return &AuthGuard{Tokens: t}
}

// RequireAuth is a strict two-state gate: the request continues with a
// resolved identity or is rejected, never anything in between. An expired or
// forged token gets a machine-readable code so clients know to refresh
// instead of re-prompting for credentials.
func (m *AuthGuard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie(cookies.AccessToken)
		if err != nil || accessCookie.Value == "" {
			return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{
				Message: "No token provided",
			})
		}

		userID, err := m.Tokens.VerifyAccess(accessCookie.Value)
		if err != nil {
			c.SetCookie(cookies.Delete(cookies.AccessToken, "/"))
			return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{
				Message: "Invalid or expired token",
				Code:    "TOKEN_EXPIRED",
			})
		}

		c.Set(identityKey, Identity{UserID: userID})
		return next(c)
	}
}
