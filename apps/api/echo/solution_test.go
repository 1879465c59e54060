package echoapi_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_solutionApi_document(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/solutions/document"

	env.run(t, []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: path, body: []byte(`{"title":"Lab 3","summary":"x"}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized),
		},
		{
			name: "summary required", method: http.MethodPost, path: path, token: studentToken, body: []byte(`{"title":"Lab 3"}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"summary":"this field is required"}`),
		},
	})

	body := []byte(`{"title":"Lab 3: Stacks","course_code":"CSM 281","name":"Kofi Mensah","summary":"## Approach\n\nUse **two** stacks."}`)

	t.Run("inline", func(t *testing.T) {
		rec := env.serve(t, httpTest{method: http.MethodPost, path: path, token: studentToken, body: body})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML))
		assert.Empty(t, rec.Header().Get(echo.HeaderContentDisposition))
		assert.Contains(t, rec.Body.String(), "<strong>two</strong>")
		assert.Contains(t, rec.Body.String(), "Kofi Mensah")
	})

	t.Run("download", func(t *testing.T) {
		dl := []byte(strings.Replace(string(body), "{", `{"download":true,`, 1))
		rec := env.serve(t, httpTest{method: http.MethodPost, path: path, token: studentToken, body: dl})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, `attachment; filename="Lab_3__Stacks_solution.html"`, rec.Header().Get(echo.HeaderContentDisposition))
	})
}
