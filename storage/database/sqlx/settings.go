package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core/settings"
)

type settingRepository struct {
	db *sqlx.DB
}

var _ settings.Repository = (*settingRepository)(nil)

func NewSettingRepository(db *sqlx.DB) settings.Repository {
	return &settingRepository{db: db}
}

func (repo *settingRepository) GetSetting(ctx context.Context, key string) (settings.Setting, error) {
	var s settings.Setting
	err := repo.db.QueryRowxContext(ctx, `SELECT key, value, updated_at FROM app_settings WHERE key = $1`, key).
		Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		return settings.Setting{}, trapNoRowsErr(err, settings.ErrNotFound, "getting setting")
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

func (repo *settingRepository) UpsertSetting(ctx context.Context, s settings.Setting) error {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO app_settings (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		s.Key, s.Value, s.UpdatedAt)
	return errors.Wrap(err, "saving setting")
}
