package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Caller is the identity attached to a request. The zero value is an
// anonymous guest.
type Caller struct {
	UserID string
	Role   string
}

func (c Caller) IsStaff() bool     { return c.Role == RoleStaff }
func (c Caller) IsAnonymous() bool { return c.UserID == "" }

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and parses HS256 caller tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) Issue(userID, role string) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})
	return tok.SignedString(t.secret)
}

func (t *Tokens) Parse(raw string) (Caller, error) {
	c := &claims{}
	tok, err := jwt.ParseWithClaims(raw, c, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return Caller{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return Caller{}, ErrInvalidToken
	}
	return Caller{UserID: c.Subject, Role: c.Role}, nil
}
