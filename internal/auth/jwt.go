package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "fritz-tickets"

// ClientClaims identify an API consumer such as a smart-home hub.
type ClientClaims struct {
	Client string `json:"client"`
	jwt.RegisteredClaims
}

// GenerateJWT signs a token for client. A zero ttl yields a token without
// expiry, which is what long-lived home automation integrations use.
func GenerateJWT(client, tokenID string, ttl time.Duration, secret string) (string, error) {
	now := time.Now()

	claims := &ClientClaims{
		Client: client,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       tokenID,
			Subject:  client,
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   issuer,
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func VerifyJWT(tokenString, secret string) (*ClientClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ClientClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ClientClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
