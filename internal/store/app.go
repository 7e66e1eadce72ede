package store

import (
	"errors"

	"github.com/tidwall/buntdb"

	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// SaveAppSettings upserts an AppSettings row.
func (s *Store) SaveAppSettings(settings model.AppSettings) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		return putJSON(tx, appSettingsKey(settings.AppId), settings)
	})
	if err != nil {
		return errs.NewStoreError("save_app_settings", err)
	}
	return nil
}

// LoadAppSettings fetches an AppSettings row by AppId.
func (s *Store) LoadAppSettings(id model.AppId) (model.AppSettings, error) {
	var settings model.AppSettings
	err := s.db.View(func(tx *buntdb.Tx) error {
		return getJSON(tx, appSettingsKey(id), &settings)
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return model.AppSettings{}, errs.NewNotAvailable("", "", "app_settings:"+string(id))
		}
		return model.AppSettings{}, errs.NewStoreError("load_app_settings", err)
	}
	return settings, nil
}

// SaveAppOverride upserts an AppOverride row under its (AppId, ProfileId)
// composite key.
func (s *Store) SaveAppOverride(override model.AppOverride) error {
	app, profile := override.Key()
	err := s.db.Update(func(tx *buntdb.Tx) error {
		return putJSON(tx, appOverrideKey(app, profile), override)
	})
	if err != nil {
		return errs.NewStoreError("save_app_override", err)
	}
	return nil
}

// LoadAppOverride fetches an AppOverride row by its composite key.
func (s *Store) LoadAppOverride(app model.AppId, profile model.ProfileId) (model.AppOverride, error) {
	var override model.AppOverride
	err := s.db.View(func(tx *buntdb.Tx) error {
		return getJSON(tx, appOverrideKey(app, profile), &override)
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return model.AppOverride{}, errs.NewNotAvailable("", "", "app_override:"+string(app)+":"+string(profile))
		}
		return model.AppOverride{}, errs.NewStoreError("load_app_override", err)
	}
	return override, nil
}

// DeleteAppOverride removes an AppOverride row.
func (s *Store) DeleteAppOverride(app model.AppId, profile model.ProfileId) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(appOverrideKey(app, profile))
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return errs.NewStoreError("delete_app_override", err)
	}
	return nil
}
