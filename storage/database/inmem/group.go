package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/watas/core/group"
)

type groupRepository struct {
	db *groupTable
}

var _ group.Repository = (*groupRepository)(nil)

func NewGroupRepository(db *DB) group.Repository {
	return &groupRepository{db: db.group}
}

func (repo *groupRepository) QueryGroups(context.Context) ([]group.Group, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	groups := make([]group.Group, 0, len(repo.db.t))
	for _, g := range repo.db.t {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

// SetGroupEnabled upserts the row, like the sql repository.
func (repo *groupRepository) SetGroupEnabled(_ context.Context, id string, enabled bool, updatedAt time.Time) (group.Group, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	g, ok := repo.db.t[id]
	if !ok {
		g = &group.Group{ID: id, CreatedAt: updatedAt}
		repo.db.t[id] = g
	}
	g.Enabled = enabled
	g.UpdatedAt = updatedAt
	return *g, nil
}

func (repo *groupRepository) SeedGroups(context.Context) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	now := time.Now().UTC()
	for _, id := range group.AllIDs {
		if _, ok := repo.db.t[id]; !ok {
			repo.db.t[id] = &group.Group{ID: id, Enabled: true, CreatedAt: now, UpdatedAt: now}
		}
	}
	return nil
}
