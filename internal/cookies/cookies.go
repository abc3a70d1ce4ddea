package cookies

import (
	"net/http"
	"time"
)

// Cookie names used by the auth flow. The refresh cookie is only ever sent
// back to the refresh endpoint, so a stolen access cookie cannot be traded
// for a new pair.
const (
	AccessToken  = "token"
	RefreshToken = "refreshToken"

	RefreshPath = "/api/auth/refresh"
)

func Create(name, value, path string, expires time.Time, sameSite http.SameSite) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: sameSite,
	}
}

func Delete(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
