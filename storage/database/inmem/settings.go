package inmemdb

import (
	"context"

	"github.com/trezcool/watas/core/settings"
)

type settingRepository struct {
	db *settingTable
}

var _ settings.Repository = (*settingRepository)(nil)

func NewSettingRepository(db *DB) settings.Repository {
	return &settingRepository{db: db.setting}
}

func (repo *settingRepository) GetSetting(_ context.Context, key string) (settings.Setting, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.t[key]; ok {
		return s, nil
	}
	return settings.Setting{}, settings.ErrNotFound
}

func (repo *settingRepository) UpsertSetting(_ context.Context, s settings.Setting) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.t[s.Key] = s
	return nil
}
