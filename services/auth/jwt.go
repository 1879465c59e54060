// Package authsvc verifies end-user tokens issued by the hosted auth provider (Supabase GoTrue).
package authsvc

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v4"

	"github.com/trezcool/watas/core/identity"
)

// Claims are the parts of a Supabase access token we read.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// JWTVerifier checks HS256 access tokens locally with the project's JWT secret.
type JWTVerifier struct {
	secret []byte
}

var _ identity.Verifier = (*JWTVerifier)(nil)

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Configured() bool { return len(v.secret) > 0 }

func (v *JWTVerifier) Verify(_ context.Context, token string) (identity.Identity, error) {
	if !v.Configured() || token == "" {
		return identity.Identity{}, identity.ErrInvalidToken
	}

	claims := new(Claims)
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !tok.Valid || claims.Subject == "" {
		return identity.Identity{}, identity.ErrInvalidToken
	}
	if claims.Role != "" && claims.Role != "authenticated" {
		return identity.Identity{}, identity.ErrInvalidToken
	}
	return identity.Identity{ID: claims.Subject, Email: claims.Email}, nil
}

// NewVerifier checks bearer tokens locally when jwtSecret is set, then against the auth server.
// It returns nil when neither is configured.
func NewVerifier(jwtSecret string, gotrue *GoTrueClient) identity.Verifier {
	var chain ChainVerifier
	if jwtVerifier := NewJWTVerifier(jwtSecret); jwtVerifier.Configured() {
		chain = append(chain, jwtVerifier)
	}
	if gotrue != nil && gotrue.Configured() {
		chain = append(chain, gotrue)
	}
	if len(chain) == 0 {
		return nil
	}
	return chain
}

// ChainVerifier tries each configured verifier in turn.
type ChainVerifier []identity.Verifier

var _ identity.Verifier = ChainVerifier(nil)

func (c ChainVerifier) Verify(ctx context.Context, token string) (identity.Identity, error) {
	for _, v := range c {
		if id, err := v.Verify(ctx, token); err == nil {
			return id, nil
		}
	}
	return identity.Identity{}, identity.ErrInvalidToken
}
