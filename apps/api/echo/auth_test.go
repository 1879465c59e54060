package echoapi_test

import (
	"net/http"
	"testing"

	echoapi "github.com/trezcool/watas/apps/api/echo"
)

func Test_identityMiddleware_notConfigured(t *testing.T) {
	env := newTestEnv(t, func(opts *echoapi.Options) { opts.Verifier = nil })

	env.run(t, []httpTest{
		{
			name:     "no token",
			path:     "/api/me/profile",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errUnauthorized),
		},
		{
			name:     "token without auth provider",
			path:     "/api/me/profile",
			token:    studentToken,
			wantCode: http.StatusServiceUnavailable,
			wantData: marchallObj(t, httpErr{Error: "Auth provider not configured"}),
		},
		{
			name:     "completions without auth provider",
			path:     "/api/me/completions",
			token:    studentToken,
			wantCode: http.StatusServiceUnavailable,
			wantData: marchallObj(t, httpErr{Error: "Auth provider not configured"}),
		},
		{
			name: "public route still served",
			path: "/api/groups",
		},
	})
}
