package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/watas/core/payment"
	"github.com/trezcool/watas/testutil"
)

func Test_paymentApi_initialize(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/paystack/initialize"

	env.run(t, []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: path, body: []byte(`{}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized),
		},
		{
			name: "invalid token", method: http.MethodPost, path: path, token: "forged", body: []byte(`{}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized),
		},
	})

	t.Run("configured app url", func(t *testing.T) {
		rec := env.serve(t, httpTest{method: http.MethodPost, path: path, token: studentToken, body: []byte(`{}`)})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res payment.InitResult
		decode(t, rec, &res)
		assert.Equal(t, "https://checkout.paystack.test/abc", res.AuthorizationURL)

		require.Len(t, env.gateway.inits, 1)
		req := env.gateway.inits[0]
		assert.Equal(t, res.Reference, req.Reference)
		assert.True(t, strings.HasPrefix(req.Reference, "pro_6f1c2a9e3b7d4c559a2e0d4b8f1e7c31_"), req.Reference)
		assert.Equal(t, student.Email, req.Email)
		assert.Equal(t, "5000", req.Amount)
		assert.Equal(t, "https://watas.test/pro?reference="+req.Reference, req.CallbackURL)
		assert.Equal(t, map[string]string{"user_id": student.ID}, req.Metadata)
	})

	t.Run("callback base override", func(t *testing.T) {
		rec := env.serve(t, httpTest{
			method: http.MethodPost, path: path, token: studentToken,
			body: []byte(`{"callbackBaseUrl":"http://localhost:5173/"}`),
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		req := env.gateway.inits[len(env.gateway.inits)-1]
		assert.Equal(t, "http://localhost:5173/pro?reference="+req.Reference, req.CallbackURL)
	})

	t.Run("gateway rejection", func(t *testing.T) {
		env.gateway.err = &payment.GatewayError{StatusCode: http.StatusBadRequest, Message: "Invalid key"}
		defer func() { env.gateway.err = nil }()
		rec := env.serve(t, httpTest{method: http.MethodPost, path: path, token: studentToken, body: []byte(`{}`)})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid key"}`, rec.Body.String())
	})

	t.Run("not configured", func(t *testing.T) {
		env.gateway.configured = false
		defer func() { env.gateway.configured = true }()
		rec := env.serve(t, httpTest{method: http.MethodPost, path: path, token: studentToken, body: []byte(`{}`)})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"error":"Paystack is not configured"}`, rec.Body.String())
	})

	t.Run("no callback url", func(t *testing.T) {
		env.conf.AppURL = ""
		defer func() { env.conf.AppURL = "https://watas.test" }()
		rec := env.serve(t, httpTest{method: http.MethodPost, path: path, token: studentToken, body: []byte(`{}`)})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Callback URL not configured. Set APP_URL or pass callbackBaseUrl."}`, rec.Body.String())
	})
}

func Test_paymentApi_verify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	metadata := json.RawMessage(`{"user_id":"` + student.ID + `"}`)

	testutil.CreateProfile(t, env.profileRepo, student.ID, "Kofi Mensah", false)

	setTx := func(status string, meta json.RawMessage) {
		env.gateway.tx = payment.Transaction{Status: status, Metadata: meta}
	}

	t.Run("missing reference", func(t *testing.T) {
		rec := env.serve(t, httpTest{path: "/api/paystack/verify"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Missing reference"}`, rec.Body.String())
	})

	t.Run("not successful", func(t *testing.T) {
		setTx("abandoned", metadata)
		rec := env.serve(t, httpTest{path: "/api/paystack/verify?reference=pro_x_1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Payment was not successful"}`, rec.Body.String())
	})

	t.Run("no user in metadata", func(t *testing.T) {
		setTx(payment.StatusSuccess, json.RawMessage(`{}`))
		rec := env.serve(t, httpTest{path: "/api/paystack/verify?reference=pro_x_1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid transaction metadata"}`, rec.Body.String())
	})

	t.Run("gateway rejection", func(t *testing.T) {
		env.gateway.err = &payment.GatewayError{StatusCode: http.StatusNotFound, Message: "Transaction reference not found"}
		defer func() { env.gateway.err = nil }()
		rec := env.serve(t, httpTest{path: "/api/paystack/verify?reference=pro_x_1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Transaction reference not found"}`, rec.Body.String())
	})

	t.Run("unknown profile", func(t *testing.T) {
		setTx(payment.StatusSuccess, json.RawMessage(`{"user_id":"00000000-0000-0000-0000-000000000000"}`))
		rec := env.serve(t, httpTest{path: "/api/paystack/verify?reference=pro_x_1"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to activate PRO"}`, rec.Body.String())
	})

	t.Run("activates PRO", func(t *testing.T) {
		// metadata double encoded as a string
		encoded, _ := json.Marshal(string(metadata))
		setTx(payment.StatusSuccess, encoded)
		rec := env.serve(t, httpTest{path: "/api/paystack/verify?reference=pro_x_1"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())

		p, err := env.profiles.Get(ctx, student.ID)
		require.NoError(t, err)
		assert.True(t, p.IsPro)
	})
}
