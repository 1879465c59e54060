package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/watas/core/analytics"
	"github.com/trezcool/watas/core/profile"
)

type profileRepository struct {
	db *profileTable
}

var (
	_ profile.Repository     = (*profileRepository)(nil)
	_ analytics.NameResolver = (*profileRepository)(nil)
)

func NewProfileRepository(db *DB) *profileRepository {
	return &profileRepository{db: db.profile}
}

func (repo *profileRepository) QueryProfiles(context.Context) ([]profile.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	res := make([]profile.Profile, 0, len(repo.db.t))
	for _, p := range repo.db.t {
		res = append(res, *p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (repo *profileRepository) GetProfile(_ context.Context, id string) (profile.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.t[id]; ok {
		return *p, nil
	}
	return profile.Profile{}, profile.ErrNotFound
}

func (repo *profileRepository) UpsertProfile(_ context.Context, p profile.Profile) (profile.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if orig, ok := repo.db.t[p.ID]; ok {
		p.IsPro = orig.IsPro
		p.CreatedAt = orig.CreatedAt
	} else {
		p.IsPro = false
	}
	repo.db.t[p.ID] = &p
	return p, nil
}

func (repo *profileRepository) SetPro(_ context.Context, id string, isPro bool, updatedAt time.Time) (profile.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, ok := repo.db.t[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	p.IsPro = isPro
	p.UpdatedAt = updatedAt
	return *p, nil
}

func (repo *profileRepository) FullNames(context.Context) (map[string]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	names := make(map[string]string, len(repo.db.t))
	for id, p := range repo.db.t {
		names[id] = p.FullName
	}
	return names, nil
}
