package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/support"
)

type supportRepository struct {
	db *supportTable
}

var _ support.Repository = (*supportRepository)(nil)

func NewSupportRepository(db *DB) support.Repository {
	return &supportRepository{db: db.support}
}

func (repo *supportRepository) CreateRequest(_ context.Context, r support.Request) (support.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r.ID = newID()
	repo.db.t = append(repo.db.t, r)
	return r, nil
}

func (repo *supportRepository) QueryRequests(_ context.Context, ordering ...core.DBOrdering) ([]support.Request, error) {
	repo.db.mutex.RLock()
	res := append([]support.Request{}, repo.db.t...)
	repo.db.mutex.RUnlock()

	sort.SliceStable(res, func(i, j int) bool {
		for _, ord := range ordering {
			cmp := compareRequests(res[i], res[j], ord.Field)
			if cmp == 0 {
				continue
			}
			if ord.Ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})
	return res, nil
}

func compareRequests(a, b support.Request, field string) int {
	switch field {
	case "support_type":
		switch {
		case a.SupportType < b.SupportType:
			return -1
		case a.SupportType > b.SupportType:
			return 1
		}
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}
