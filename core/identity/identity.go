// Package identity describes end users as vouched for by the hosted auth provider.
package identity

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is an authenticated end user.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verifier resolves a bearer token to the Identity it was issued to.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type ctxKey struct{}

func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
