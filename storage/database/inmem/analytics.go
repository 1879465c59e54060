package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/watas/core/analytics"
)

type visitRepository struct {
	db *visitTable
}

var _ analytics.VisitRepository = (*visitRepository)(nil)

func NewVisitRepository(db *DB) analytics.VisitRepository {
	return &visitRepository{db: db.visit}
}

func (repo *visitRepository) CreateVisit(_ context.Context, v analytics.PageVisit) (analytics.PageVisit, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	v.ID = newID()
	repo.db.t = append(repo.db.t, v)
	return v, nil
}

func (repo *visitRepository) CountVisits(_ context.Context, since time.Time) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	count := 0
	for _, v := range repo.db.t {
		if !v.VisitedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (repo *visitRepository) CountByPage(context.Context) ([]analytics.PageCount, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	idx := make(map[string]int)
	var counts []analytics.PageCount
	for _, v := range repo.db.t {
		i, ok := idx[v.PagePath]
		if !ok {
			i = len(counts)
			idx[v.PagePath] = i
			counts = append(counts, analytics.PageCount{Page: v.PagePath})
		}
		counts[i].Count++
	}
	return counts, nil
}

func (repo *visitRepository) RecentVisits(_ context.Context, limit int) ([]analytics.PageVisit, error) {
	repo.db.mutex.RLock()
	// latest insert first on equal timestamps
	res := make([]analytics.PageVisit, 0, len(repo.db.t))
	for i := len(repo.db.t) - 1; i >= 0; i-- {
		res = append(res, repo.db.t[i])
	}
	repo.db.mutex.RUnlock()

	sort.SliceStable(res, func(i, j int) bool { return res[i].VisitedAt.After(res[j].VisitedAt) })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

type usageRepository struct {
	db *usageTable
}

var _ analytics.UsageRepository = (*usageRepository)(nil)

func NewUsageRepository(db *DB) analytics.UsageRepository {
	return &usageRepository{db: db.usage}
}

func (repo *usageRepository) CreateUsage(_ context.Context, u analytics.UsageRecord) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	u.ID = newID()
	repo.db.t = append(repo.db.t, u)
	return nil
}

func (repo *usageRepository) QueryUsage(context.Context) ([]analytics.UsageRecord, error) {
	repo.db.mutex.RLock()
	res := append([]analytics.UsageRecord{}, repo.db.t...)
	repo.db.mutex.RUnlock()

	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}
