package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/expensio/expensio/internal/cookies"
	"github.com/expensio/expensio/internal/logging"
	"github.com/expensio/expensio/internal/service"
	"github.com/expensio/expensio/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) setSessionCookies(c echo.Context, pair *service.TokenPair) {
	c.SetCookie(cookies.Create(cookies.AccessToken, pair.AccessToken, "/", pair.AccessExp, http.SameSiteStrictMode))
	c.SetCookie(cookies.Create(cookies.RefreshToken, pair.RefreshToken, cookies.RefreshPath, pair.RefreshExp, http.SameSiteStrictMode))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return badRequest(c, "invalid body")
	}

	user, pair, err := h.Svc.Register(ctx, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Only the access cookie here; the refresh credential is handed out on
	// login.
	c.SetCookie(cookies.Create(cookies.AccessToken, pair.AccessToken, "/", pair.AccessExp, http.SameSiteLaxMode))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user": echo.Map{
			"id":        user.ID,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"email":     user.Email,
		},
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return badRequest(c, "invalid body")
	}

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	h.setSessionCookies(c, pair)

	return c.JSON(http.StatusOK, echo.Map{"message": "Logged in successfully"})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	refreshCookie, err := c.Cookie(cookies.RefreshToken)
	if err != nil || refreshCookie.Value == "" {
		l.Warn("refresh_error", "status", 401, "reason", "no refresh cookie")
		return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Message: "Refresh token required"})
	}

	pair, err := h.Svc.Refresh(ctx, refreshCookie.Value)
	if err != nil {
		return respondServiceError(c, err)
	}

	h.setSessionCookies(c, pair)

	return c.JSON(http.StatusOK, echo.Map{"message": "Token refreshed successfully"})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if refreshCookie, err := c.Cookie(cookies.RefreshToken); err == nil {
		if err := h.Svc.Logout(ctx, refreshCookie.Value); err != nil {
			c.SetCookie(cookies.Delete(cookies.AccessToken, "/"))
			c.SetCookie(cookies.Delete(cookies.RefreshToken, cookies.RefreshPath))
			l.Error("logout_error", "status", 500, "error", err)
			return respondServiceError(c, err)
		}
	}

	c.SetCookie(cookies.Delete(cookies.AccessToken, "/"))
	c.SetCookie(cookies.Delete(cookies.RefreshToken, cookies.RefreshPath))

	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}
