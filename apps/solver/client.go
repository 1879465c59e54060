package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/watas/core/assignment"
	"github.com/trezcool/watas/core/solution"
	"github.com/trezcool/watas/core/tutor"
)

// apiError is a non-2xx answer of the WATAs API.
type apiError struct {
	Code    int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// apiClient calls the WATAs API on behalf of a signed-in student.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ solution.Backend = (*apiClient)(nil)

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}
	if res.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) != nil || e.Error == "" {
			e.Error = http.StatusText(res.StatusCode)
		}
		return nil, &apiError{Code: res.StatusCode, Message: e.Error}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, errors.Wrap(err, "decoding response")
		}
	}
	return data, nil
}

func (c *apiClient) Dashboard(ctx context.Context, filter assignment.QueryFilter) (assignment.Dashboard, error) {
	q := make(url.Values)
	if filter.Group != "" {
		q.Set("group", filter.Group)
	}
	if filter.Course != "" {
		q.Set("course", filter.Course)
	}
	path := "/api/assignments"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var dash assignment.Dashboard
	_, err := c.do(ctx, http.MethodGet, path, nil, &dash)
	return dash, err
}

func (c *apiClient) Chat(ctx context.Context, messages []tutor.Message, assignmentContext string) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	req := tutor.ChatRequest{Messages: messages, AssignmentContext: assignmentContext}
	if _, err := c.do(ctx, http.MethodPost, "/api/ai/chat", req, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *apiClient) Summarize(ctx context.Context, messages []tutor.Message) (string, error) {
	var res struct {
		Summary string `json:"summary"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/ai/summarize", tutor.SummarizeRequest{Messages: messages}, &res); err != nil {
		return "", err
	}
	return res.Summary, nil
}

// Document fetches the rendered solution page.
func (c *apiClient) Document(ctx context.Context, doc solution.Document) ([]byte, error) {
	doc.Download = true
	return c.do(ctx, http.MethodPost, "/api/solutions/document", doc, nil)
}
