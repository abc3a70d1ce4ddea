package tokens

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshClaims is the payload of a long-lived refresh token. The JTI makes
// every issued token unique, so the stored-credential comparison in the
// session store can tell two tokens for the same user apart.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

func RefreshClaimsFromToken(tokenStr string, refreshSecret []byte) (*RefreshClaims, error) {
	var claims RefreshClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return refreshSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return &claims, nil
}
