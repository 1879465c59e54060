package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/watas/core/analytics"
	"github.com/trezcool/watas/core/profile"
)

type profileRow struct {
	ID          string      `db:"id"`
	FullName    string      `db:"full_name"`
	IndexNumber null.String `db:"index_number"`
	Reference   null.String `db:"reference"`
	IsPro       bool        `db:"is_pro"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r profileRow) profile() profile.Profile {
	return profile.Profile{
		ID:          r.ID,
		FullName:    r.FullName,
		IndexNumber: r.IndexNumber.Ptr(),
		Reference:   r.Reference.Ptr(),
		IsPro:       r.IsPro,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type profileRepository struct {
	db *sqlx.DB
}

var (
	_ profile.Repository     = (*profileRepository)(nil)
	_ analytics.NameResolver = (*profileRepository)(nil)
)

func NewProfileRepository(db *sqlx.DB) *profileRepository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) QueryProfiles(ctx context.Context) ([]profile.Profile, error) {
	var rows []profileRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM profiles ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying profiles")
	}
	res := make([]profile.Profile, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.profile())
	}
	return res, nil
}

func (repo *profileRepository) GetProfile(ctx context.Context, id string) (profile.Profile, error) {
	if !validID(id) {
		return profile.Profile{}, profile.ErrNotFound
	}
	var r profileRow
	err := repo.db.GetContext(ctx, &r, `SELECT * FROM profiles WHERE id = $1`, id)
	if err != nil {
		return profile.Profile{}, trapNoRowsErr(err, profile.ErrNotFound, "getting profile")
	}
	return r.profile(), nil
}

func (repo *profileRepository) UpsertProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	var r profileRow
	err := repo.db.GetContext(ctx, &r, `
		INSERT INTO profiles (id, full_name, index_number, reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			index_number = EXCLUDED.index_number,
			reference = EXCLUDED.reference,
			updated_at = EXCLUDED.updated_at
		RETURNING *`,
		p.ID, p.FullName, null.StringFromPtr(p.IndexNumber), null.StringFromPtr(p.Reference), p.UpdatedAt)
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "saving profile")
	}
	return r.profile(), nil
}

func (repo *profileRepository) SetPro(ctx context.Context, id string, isPro bool, updatedAt time.Time) (profile.Profile, error) {
	if !validID(id) {
		return profile.Profile{}, profile.ErrNotFound
	}
	var r profileRow
	err := repo.db.GetContext(ctx, &r, `
		UPDATE profiles SET is_pro = $2, updated_at = $3 WHERE id = $1 RETURNING *`,
		id, isPro, updatedAt)
	if err != nil {
		return profile.Profile{}, trapNoRowsErr(err, profile.ErrNotFound, "setting PRO")
	}
	return r.profile(), nil
}

func (repo *profileRepository) FullNames(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		ID       string `db:"id"`
		FullName string `db:"full_name"`
	}
	if err := repo.db.SelectContext(ctx, &rows, `SELECT id, full_name FROM profiles`); err != nil {
		return nil, errors.Wrap(err, "querying profile names")
	}
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		names[r.ID] = r.FullName
	}
	return names, nil
}
