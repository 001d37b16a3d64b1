package auth

import (
	"fmt"
	"time"

	"bookly/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes. Reset and verification tokens are single-purpose so a
// bearer token can never be replayed as a password-reset credential.
const (
	PurposeAccess = "access"
	PurposeReset  = "reset"
	PurposeVerify = "verify"
)

// Claims are the JWT claims carried by every token this service mints.
type Claims struct {
	UserID  uuid.UUID  `json:"uid"`
	Role    model.Role `json:"role"`
	Purpose string     `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and parses HS256 tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a token issuer with the given signing secret and
// access-token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue mints an access token for the user.
func (t *TokenIssuer) Issue(user *model.User) (string, error) {
	return t.issue(user, PurposeAccess, t.ttl)
}

// IssueReset mints a short-lived password-reset token.
func (t *TokenIssuer) IssueReset(user *model.User) (string, error) {
	return t.issue(user, PurposeReset, time.Hour)
}

// IssueVerify mints an email-verification token.
func (t *TokenIssuer) IssueVerify(user *model.User) (string, error) {
	return t.issue(user, PurposeVerify, 24*time.Hour)
}

func (t *TokenIssuer) issue(user *model.User, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  user.ID,
		Role:    user.Role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Parse validates a token and checks it was minted for the expected purpose.
func (t *TokenIssuer) Parse(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.Purpose != purpose {
		return nil, fmt.Errorf("token purpose mismatch")
	}

	return claims, nil
}
