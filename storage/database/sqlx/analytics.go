package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/watas/core/analytics"
)

type visitRow struct {
	ID        string      `db:"id"`
	PagePath  string      `db:"page_path"`
	UserAgent null.String `db:"user_agent"`
	Referrer  null.String `db:"referrer"`
	VisitedAt time.Time   `db:"visited_at"`
}

type visitRepository struct {
	db *sqlx.DB
}

var _ analytics.VisitRepository = (*visitRepository)(nil)

func NewVisitRepository(db *sqlx.DB) analytics.VisitRepository {
	return &visitRepository{db: db}
}

func (repo *visitRepository) CreateVisit(ctx context.Context, v analytics.PageVisit) (analytics.PageVisit, error) {
	v.ID = newID()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO page_visits (id, page_path, user_agent, referrer, visited_at)
		VALUES (:id, :page_path, :user_agent, :referrer, :visited_at)`,
		visitRow{
			ID:        v.ID,
			PagePath:  v.PagePath,
			UserAgent: null.StringFromPtr(v.UserAgent),
			Referrer:  null.StringFromPtr(v.Referrer),
			VisitedAt: v.VisitedAt,
		})
	if err != nil {
		return analytics.PageVisit{}, errors.Wrap(err, "recording visit")
	}
	return v, nil
}

func (repo *visitRepository) CountVisits(ctx context.Context, since time.Time) (int, error) {
	var count int
	var err error
	if since.IsZero() {
		err = repo.db.GetContext(ctx, &count, `SELECT count(*) FROM page_visits`)
	} else {
		err = repo.db.GetContext(ctx, &count, `SELECT count(*) FROM page_visits WHERE visited_at >= $1`, since)
	}
	return count, errors.Wrap(err, "counting visits")
}

func (repo *visitRepository) CountByPage(ctx context.Context) ([]analytics.PageCount, error) {
	var rows []struct {
		Page  string `db:"page"`
		Count int    `db:"count"`
	}
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT page_path AS page, count(*) AS count FROM page_visits
		GROUP BY page_path ORDER BY count DESC, page_path`)
	if err != nil {
		return nil, errors.Wrap(err, "counting visits by page")
	}
	counts := make([]analytics.PageCount, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, analytics.PageCount{Page: r.Page, Count: r.Count})
	}
	return counts, nil
}

func (repo *visitRepository) RecentVisits(ctx context.Context, limit int) ([]analytics.PageVisit, error) {
	var rows []visitRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM page_visits ORDER BY visited_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying recent visits")
	}
	res := make([]analytics.PageVisit, 0, len(rows))
	for _, r := range rows {
		res = append(res, analytics.PageVisit{
			ID:        r.ID,
			PagePath:  r.PagePath,
			UserAgent: r.UserAgent.Ptr(),
			Referrer:  r.Referrer.Ptr(),
			VisitedAt: r.VisitedAt.UTC(),
		})
	}
	return res, nil
}

type usageRow struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Endpoint     string    `db:"endpoint"`
	InputTokens  int       `db:"input_tokens"`
	OutputTokens int       `db:"output_tokens"`
	CreatedAt    time.Time `db:"created_at"`
}

type usageRepository struct {
	db *sqlx.DB
}

var _ analytics.UsageRepository = (*usageRepository)(nil)

func NewUsageRepository(db *sqlx.DB) analytics.UsageRepository {
	return &usageRepository{db: db}
}

func (repo *usageRepository) CreateUsage(ctx context.Context, u analytics.UsageRecord) error {
	u.ID = newID()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO api_usage (id, user_id, endpoint, input_tokens, output_tokens, created_at)
		VALUES (:id, :user_id, :endpoint, :input_tokens, :output_tokens, :created_at)`,
		usageRow(u))
	return errors.Wrap(err, "recording usage")
}

func (repo *usageRepository) QueryUsage(ctx context.Context) ([]analytics.UsageRecord, error) {
	var rows []usageRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM api_usage ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying usage")
	}
	res := make([]analytics.UsageRecord, 0, len(rows))
	for _, r := range rows {
		r.CreatedAt = r.CreatedAt.UTC()
		res = append(res, analytics.UsageRecord(r))
	}
	return res, nil
}
