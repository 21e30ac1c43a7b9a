package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid unless the
// caller asks for something else.
const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for any token that fails validation:
// bad signature, malformed, or expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// AppClaims is the self-contained claim bundle carried by every token.
// The user id travels in the registered Subject claim; email and role are
// duplicated into custom claims so the auth middleware can fall back to an
// email lookup when the subject id no longer resolves.
type AppClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT creates a signed HS256 token for the given user. A ttl of
// zero (or negative) falls back to DefaultTokenTTL.
func GenerateJWT(userID, email, role, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	claims := &AppClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	// HS256 keeps the token tamper-evident without any key distribution
	// beyond the shared secret.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT parses and validates a token string, returning its claims.
// Every failure mode collapses into ErrInvalidToken; callers don't get to
// distinguish a forged token from an expired one.
func ValidateJWT(tokenString, secret string) (*AppClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AppClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject any token that names a different signing method.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AppClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
