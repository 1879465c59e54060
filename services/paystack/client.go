// Package paystacksvc is a minimal client of the Paystack transaction API.
package paystacksvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/payment"
)

const defaultBaseURL = "https://api.paystack.co"

type Client struct {
	baseURL string
	secret  string
	http    *http.Client
}

var _ payment.Gateway = (*Client)(nil)

func NewClient(conf core.PaystackConfig) *Client {
	base := strings.TrimRight(conf.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL: base,
		secret:  conf.SecretKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Configured() bool { return c.secret != "" }

// envelope is the shape of every Paystack response.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initBody struct {
	Email       string            `json:"email"`
	Amount      string            `json:"amount"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (c *Client) Initialize(ctx context.Context, req payment.InitRequest) (payment.InitResult, error) {
	body, err := json.Marshal(initBody{
		Email:       req.Email,
		Amount:      req.Amount,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return payment.InitResult{}, errors.Wrap(err, "encoding initialize body")
	}

	env, err := c.do(ctx, http.MethodPost, "/transaction/initialize", body)
	if err != nil {
		return payment.InitResult{}, err
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}
	if len(env.Data) > 0 {
		_ = json.Unmarshal(env.Data, &data)
	}
	return payment.InitResult{AuthorizationURL: data.AuthorizationURL, Reference: data.Reference}, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (payment.Transaction, error) {
	env, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return payment.Transaction{}, err
	}

	var data struct {
		Reference string          `json:"reference"`
		Status    string          `json:"status"`
		Metadata  json.RawMessage `json:"metadata"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return payment.Transaction{}, errors.Wrap(err, "decoding transaction")
		}
	}
	return payment.Transaction{Reference: data.Reference, Status: data.Status, Metadata: data.Metadata}, nil
}

// do sends an authenticated request. A non-2xx code or a false `status` is a *payment.GatewayError.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (envelope, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return envelope{}, errors.Wrap(err, "building request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return envelope{}, errors.Wrap(err, "calling paystack")
	}
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return envelope{}, errors.Wrap(err, "reading paystack response")
	}
	_ = json.Unmarshal(raw, &env) // a non-JSON body is treated like a failed envelope

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		return envelope{}, &payment.GatewayError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return env, nil
}
