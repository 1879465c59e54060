package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core/group"
)

type groupRow struct {
	ID        string    `db:"id"`
	Enabled   bool      `db:"enabled"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r groupRow) group() group.Group {
	return group.Group{ID: r.ID, Enabled: r.Enabled, CreatedAt: r.CreatedAt.UTC(), UpdatedAt: r.UpdatedAt.UTC()}
}

type groupRepository struct {
	db *sqlx.DB
}

var _ group.Repository = (*groupRepository)(nil)

func NewGroupRepository(db *sqlx.DB) group.Repository {
	return &groupRepository{db: db}
}

func (repo *groupRepository) QueryGroups(ctx context.Context) ([]group.Group, error) {
	var rows []groupRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM groups ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying groups")
	}
	groups := make([]group.Group, 0, len(rows))
	for _, r := range rows {
		groups = append(groups, r.group())
	}
	return groups, nil
}

func (repo *groupRepository) SetGroupEnabled(ctx context.Context, id string, enabled bool, updatedAt time.Time) (group.Group, error) {
	var r groupRow
	err := repo.db.GetContext(ctx, &r, `
		INSERT INTO groups (id, enabled, created_at, updated_at) VALUES ($1, $2, $3, $3)
		ON CONFLICT (id) DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = EXCLUDED.updated_at
		RETURNING *`,
		id, enabled, updatedAt)
	if err != nil {
		return group.Group{}, errors.Wrap(err, "updating group")
	}
	return r.group(), nil
}

func (repo *groupRepository) SeedGroups(ctx context.Context) error {
	now := time.Now().UTC()
	for _, id := range group.AllIDs {
		_, err := repo.db.ExecContext(ctx, `
			INSERT INTO groups (id, enabled, created_at, updated_at) VALUES ($1, true, $2, $2)
			ON CONFLICT (id) DO NOTHING`,
			id, now)
		if err != nil {
			return errors.Wrapf(err, "seeding %s", id)
		}
	}
	return nil
}
