package analytics

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/watas/core"
)

const (
	EndpointChat      = "chat"
	EndpointSummarize = "summarize"

	recentVisitsLimit = 10
)

type PageVisit struct {
	ID        string    `json:"id"`
	PagePath  string    `json:"page_path"`
	UserAgent *string   `json:"user_agent"`
	Referrer  *string   `json:"referrer"`
	VisitedAt time.Time `json:"visited_at"` // UTC
}

type NewVisit struct {
	PagePath  string  `json:"page_path" validate:"required,max=2048"`
	UserAgent *string `json:"user_agent"`
	Referrer  *string `json:"referrer"`
}

func (nv *NewVisit) Validate(validate *validator.Validate) error {
	nv.PagePath = core.CleanString(nv.PagePath)
	nv.UserAgent = core.CleanStringPtr(nv.UserAgent)
	nv.Referrer = core.CleanStringPtr(nv.Referrer)
	return validate.Struct(nv)
}

type PageCount struct {
	Page  string `json:"page"`
	Count int    `json:"count"`
}

type RecentVisit struct {
	Page      string    `json:"page"`
	VisitedAt time.Time `json:"visited_at"`
	UserAgent *string   `json:"user_agent,omitempty"`
}

type VisitStats struct {
	Total     int           `json:"total"`
	Today     int           `json:"today"`
	ThisWeek  int           `json:"thisWeek"`
	ThisMonth int           `json:"thisMonth"`
	ByPage    []PageCount   `json:"byPage"`
	Recent    []RecentVisit `json:"recent"`
}

// UsageRecord is the token accounting of one AI call.
type UsageRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Endpoint     string    `json:"endpoint"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

type UsageOverall struct {
	TotalRequests     int `json:"totalRequests"`
	TotalInputTokens  int `json:"totalInputTokens"`
	TotalOutputTokens int `json:"totalOutputTokens"`
}

type UserUsage struct {
	UserID        string `json:"user_id"`
	FullName      string `json:"full_name"`
	TotalRequests int    `json:"totalRequests"`
	InputTokens   int    `json:"inputTokens"`
	OutputTokens  int    `json:"outputTokens"`
}

type UsageSummary struct {
	Overall UsageOverall `json:"overall"`
	PerUser []UserUsage  `json:"perUser"`
}
