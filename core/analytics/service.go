package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// NowFunc is the clock for visit statistics windows.
var NowFunc = time.Now

type (
	VisitRepository interface {
		CreateVisit(ctx context.Context, v PageVisit) (PageVisit, error)
		// CountVisits counts visits at or after `since`. The zero time counts them all.
		CountVisits(ctx context.Context, since time.Time) (int, error)
		CountByPage(ctx context.Context) ([]PageCount, error)
		// RecentVisits returns the `limit` latest visits, newest first.
		RecentVisits(ctx context.Context, limit int) ([]PageVisit, error)
	}

	UsageRepository interface {
		CreateUsage(ctx context.Context, u UsageRecord) error
		// QueryUsage returns every record, newest first.
		QueryUsage(ctx context.Context) ([]UsageRecord, error)
	}

	// NameResolver maps user ids to display names (profiles' full names).
	NameResolver interface {
		FullNames(ctx context.Context) (map[string]string, error)
	}

	Service interface {
		RecordVisit(ctx context.Context, nv NewVisit) (PageVisit, error)
		VisitStats(ctx context.Context) (VisitStats, error)
		RecordUsage(ctx context.Context, userID, endpoint string, inputTokens, outputTokens int) error
		UsageSummary(ctx context.Context) (UsageSummary, error)
	}

	service struct {
		visits VisitRepository
		usage  UsageRepository
		names  NameResolver
	}
)

var _ Service = (*service)(nil)

func NewService(visits VisitRepository, usage UsageRepository, names NameResolver) Service {
	return &service{visits: visits, usage: usage, names: names}
}

func (svc *service) RecordVisit(ctx context.Context, nv NewVisit) (PageVisit, error) {
	return svc.visits.CreateVisit(ctx, PageVisit{
		PagePath:  nv.PagePath,
		UserAgent: nv.UserAgent,
		Referrer:  nv.Referrer,
		VisitedAt: time.Now().UTC(),
	})
}

// VisitStats counts visits since local midnight, since a week before it & since a month before it.
func (svc *service) VisitStats(ctx context.Context) (VisitStats, error) {
	now := NowFunc()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windows := []time.Time{
		{}, // all time
		today,
		today.AddDate(0, 0, -7),
		today.AddDate(0, -1, 0),
	}

	counts := make([]int, len(windows))
	for i, since := range windows {
		count, err := svc.visits.CountVisits(ctx, since.UTC())
		if err != nil {
			return VisitStats{}, errors.Wrap(err, "counting visits")
		}
		counts[i] = count
	}

	byPage, err := svc.visits.CountByPage(ctx)
	if err != nil {
		return VisitStats{}, errors.Wrap(err, "counting visits by page")
	}
	sort.SliceStable(byPage, func(i, j int) bool { return byPage[i].Count > byPage[j].Count })

	recent, err := svc.visits.RecentVisits(ctx, recentVisitsLimit)
	if err != nil {
		return VisitStats{}, errors.Wrap(err, "querying recent visits")
	}

	stats := VisitStats{
		Total:     counts[0],
		Today:     counts[1],
		ThisWeek:  counts[2],
		ThisMonth: counts[3],
		ByPage:    append([]PageCount{}, byPage...),
		Recent:    make([]RecentVisit, 0, len(recent)),
	}
	for _, v := range recent {
		stats.Recent = append(stats.Recent, RecentVisit{Page: v.PagePath, VisitedAt: v.VisitedAt, UserAgent: v.UserAgent})
	}
	return stats, nil
}

func (svc *service) RecordUsage(ctx context.Context, userID, endpoint string, inputTokens, outputTokens int) error {
	return svc.usage.CreateUsage(ctx, UsageRecord{
		UserID:       userID,
		Endpoint:     endpoint,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		CreatedAt:    time.Now().UTC(),
	})
}

func (svc *service) UsageSummary(ctx context.Context) (UsageSummary, error) {
	records, err := svc.usage.QueryUsage(ctx)
	if err != nil {
		return UsageSummary{}, errors.Wrap(err, "querying usage")
	}
	var names map[string]string
	if svc.names != nil {
		if names, err = svc.names.FullNames(ctx); err != nil {
			return UsageSummary{}, errors.Wrap(err, "resolving names")
		}
	}

	summary := UsageSummary{PerUser: []UserUsage{}}
	perUser := make(map[string]*UserUsage)
	var order []string
	for _, r := range records {
		summary.Overall.TotalRequests++
		summary.Overall.TotalInputTokens += r.InputTokens
		summary.Overall.TotalOutputTokens += r.OutputTokens

		u, ok := perUser[r.UserID]
		if !ok {
			name := names[r.UserID]
			if name == "" {
				name = "—"
			}
			u = &UserUsage{UserID: r.UserID, FullName: name}
			perUser[r.UserID] = u
			order = append(order, r.UserID)
		}
		u.TotalRequests++
		u.InputTokens += r.InputTokens
		u.OutputTokens += r.OutputTokens
	}

	for _, id := range order {
		summary.PerUser = append(summary.PerUser, *perUser[id])
	}
	return summary, nil
}
