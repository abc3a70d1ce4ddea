package tokens

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the payload of a short-lived access token. Subject carries
// the user id.
type AccessClaims struct {
	jwt.RegisteredClaims
}

func AccessClaimsFromToken(tokenStr string, accessSecret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return accessSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return &claims, nil
}
