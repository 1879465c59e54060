package group

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("group not found")

type (
	Repository interface {
		QueryGroups(ctx context.Context) ([]Group, error)
		SetGroupEnabled(ctx context.Context, id string, enabled bool, updatedAt time.Time) (Group, error)
		// SeedGroups inserts the missing groups of AllIDs, enabled.
		SeedGroups(ctx context.Context) error
	}

	Service interface {
		Query(ctx context.Context) ([]Group, error)
		SetEnabled(ctx context.Context, id string, enabled bool) (Group, error)
		Seed(ctx context.Context) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Query returns every group of AllIDs, in order. Groups without a row are served enabled.
func (svc *service) Query(ctx context.Context) ([]Group, error) {
	rows, err := svc.repo.QueryGroups(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Group, len(rows))
	for _, g := range rows {
		byID[g.ID] = g
	}

	groups := Defaults()
	for i, g := range groups {
		if row, ok := byID[g.ID]; ok {
			groups[i] = row
		}
	}
	return groups, nil
}

func (svc *service) SetEnabled(ctx context.Context, id string, enabled bool) (Group, error) {
	if !IsValidID(id) {
		return Group{}, ErrNotFound
	}
	return svc.repo.SetGroupEnabled(ctx, id, enabled, time.Now().UTC())
}

func (svc *service) Seed(ctx context.Context) error {
	return svc.repo.SeedGroups(ctx)
}
