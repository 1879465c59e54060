package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/admin"
	"github.com/trezcool/watas/core/identity"
)

const contextIdentityKey = "identity"

func bearerToken(ctx echo.Context) string {
	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// identityMiddleware resolves the bearer token to the caller's identity.
// When required, a missing or invalid token is rejected; otherwise the request goes on anonymously.
func identityMiddleware(verifier identity.Verifier, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := bearerToken(ctx)
			if token == "" {
				if required {
					return errUnauthorized
				}
				return next(ctx)
			}
			if verifier == nil {
				if required {
					return core.NotConfigured("Auth provider not configured")
				}
				return next(ctx)
			}

			id, err := verifier.Verify(ctx.Request().Context(), token)
			if err != nil {
				if required {
					return errUnauthorized
				}
				return next(ctx)
			}
			ctx.Set(contextIdentityKey, id)
			ctx.SetRequest(ctx.Request().WithContext(identity.NewContext(ctx.Request().Context(), id)))
			return next(ctx)
		}
	}
}

func getContextIdentity(ctx echo.Context) (identity.Identity, bool) {
	id, ok := ctx.Get(contextIdentityKey).(identity.Identity)
	return id, ok && id.ID != ""
}

// adminMiddleware only lets requests carrying a valid admin session cookie through.
func adminMiddleware(sessions *admin.Sessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if isAdminRequest(ctx, sessions) {
				return next(ctx)
			}
			return errUnauthorized
		}
	}
}

func isAdminRequest(ctx echo.Context, sessions *admin.Sessions) bool {
	if sessions == nil {
		return false
	}
	cookie, err := ctx.Cookie(admin.CookieName)
	if err != nil {
		return false
	}
	return sessions.Validate(cookie.Value)
}

func newAdminCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     admin.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
