package authsvc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/identity"
	"github.com/trezcool/watas/core/profile"
)

const usersPerPage = 1000

// GoTrueClient talks to the hosted auth REST API.
type GoTrueClient struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	http           *http.Client
}

var (
	_ identity.Verifier      = (*GoTrueClient)(nil)
	_ profile.EmailDirectory = (*GoTrueClient)(nil)
)

func NewGoTrueClient(conf core.AuthConfig) *GoTrueClient {
	return &GoTrueClient{
		baseURL:        conf.SupabaseURL,
		anonKey:        conf.AnonKey,
		serviceRoleKey: conf.ServiceRoleKey,
		http:           &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *GoTrueClient) Configured() bool { return c.baseURL != "" && c.anonKey != "" }

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verify asks the provider who the token belongs to.
func (c *GoTrueClient) Verify(ctx context.Context, token string) (identity.Identity, error) {
	if !c.Configured() || token == "" {
		return identity.Identity{}, identity.ErrInvalidToken
	}

	var usr authUser
	code, err := c.get(ctx, "/auth/v1/user", c.anonKey, token, &usr)
	if err != nil {
		return identity.Identity{}, err
	}
	if code != http.StatusOK || usr.ID == "" {
		return identity.Identity{}, identity.ErrInvalidToken
	}
	return identity.Identity{ID: usr.ID, Email: usr.Email}, nil
}

// ListUsers pages through every auth user. It needs the service role key.
func (c *GoTrueClient) ListUsers(ctx context.Context) ([]identity.Identity, error) {
	if c.baseURL == "" || c.serviceRoleKey == "" {
		return nil, core.NotConfigured("Supabase service role key not configured")
	}

	var ids []identity.Identity
	for page := 1; ; page++ {
		var res struct {
			Users []authUser `json:"users"`
		}
		q := url.Values{"page": {strconv.Itoa(page)}, "per_page": {strconv.Itoa(usersPerPage)}}
		code, err := c.get(ctx, "/auth/v1/admin/users?"+q.Encode(), c.serviceRoleKey, c.serviceRoleKey, &res)
		if err != nil {
			return nil, err
		}
		if code != http.StatusOK {
			return nil, errors.Errorf("listing auth users: status %d", code)
		}
		for _, u := range res.Users {
			ids = append(ids, identity.Identity{ID: u.ID, Email: u.Email})
		}
		if len(res.Users) < usersPerPage {
			return ids, nil
		}
	}
}

// Emails maps identity ids to e-mail addresses.
func (c *GoTrueClient) Emails(ctx context.Context) (map[string]string, error) {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	emails := make(map[string]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}
	return emails, nil
}

func (c *GoTrueClient) get(ctx context.Context, path, apiKey, bearer string, dst interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, errors.Wrap(err, "building request")
	}
	req.Header.Set("apikey", apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "calling auth provider")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return resp.StatusCode, errors.Wrap(err, "decoding auth response")
	}
	return resp.StatusCode, nil
}
