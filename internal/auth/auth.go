// Package auth verifies the bearer tokens issued by the identity provider and carries the
// resulting session through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNoSession    = errors.New("no session")
	ErrInvalidToken = errors.New("invalid token")
)

type Session struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
	Token     string
}

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens whose subject is the user id.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

func (v *Verifier) Verify(token string) (*Session, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}

	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var c claims

	if _, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	return &Session{
		UserID:    userID,
		Email:     c.Email,
		ExpiresAt: c.ExpiresAt.Time,
		Token:     token,
	}, nil
}

// Sign issues a token the Verifier accepts. Used by tooling and tests; production tokens come
// from the identity provider.
func (v *Verifier) Sign(userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// StaticSource restores a session from a fixed token, as the TUI does from its environment.
type StaticSource struct {
	Verifier *Verifier
	Token    string
}

func (s StaticSource) Session(context.Context) (*Session, error) {
	if s.Token == "" {
		return nil, ErrNoSession
	}

	return s.Verifier.Verify(s.Token)
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// UserID returns the authenticated user, or uuid.Nil outside an authenticated request.
func UserID(ctx context.Context) uuid.UUID {
	if s, ok := SessionFrom(ctx); ok {
		return s.UserID
	}

	return uuid.Nil
}
