// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package access

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenLifetime is the fixed lifetime of an access token. There is no
// refresh flow, expiry requires a new login.
const TokenLifetime = 480 * time.Minute

// TokenClaims are the claims encoded into an access token: the user's
// email as subject plus their domain.
type TokenClaims struct {
	Domain string `json:"domain"`
	jwt.RegisteredClaims
}

// CreateToken issues a signed HS256 bearer token for the given identity.
func CreateToken(secret, email, domain string) (string, error) {
	claims := TokenClaims{
		Domain: domain,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry of a bearer token and returns
// its claims. Malformed, forged and expired tokens all fail the same way.
func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
