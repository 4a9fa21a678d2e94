package utils

import (
	"errors"
	"time"

	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrExpiredToken   = errors.New("token expired")
	ErrMalformedToken = errors.New("token malformed")
	ErrBadSignature   = errors.New("token signature invalid")
)

// TokenTTL is how long an identity token stays valid.
const TokenTTL = time.Hour

type Claims struct {
	UserID uuid.UUID   `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(user *models.User, secretKey string, expiresIn time.Duration) (string, error) {
	return GenerateTokenAt(user, secretKey, expiresIn, time.Now())
}

func GenerateTokenAt(user *models.User, secretKey string, expiresIn time.Duration, now time.Time) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

func ValidateToken(tokenString, secretKey string) (*Claims, error) {
	return ValidateTokenAt(tokenString, secretKey, time.Now())
}

// ValidateTokenAt verifies the token as of now. Only HS256 is accepted
// whatever the header claims.
func ValidateTokenAt(tokenString, secretKey string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformedToken
		}
	}

	// The library accepts now == exp; a token is dead from its expiry second on.
	if !now.Before(claims.ExpiresAt.Time) {
		return nil, ErrExpiredToken
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrMalformedToken
	}

	return claims, nil
}
