package store

import (
	"errors"
	"sort"

	"github.com/tidwall/buntdb"

	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// SaveProfile upserts a Profile row.
func (s *Store) SaveProfile(profile model.Profile) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		return putJSON(tx, profileKey(profile.Id), profile)
	})
	if err != nil {
		return errs.NewStoreError("save_profile", err)
	}
	return nil
}

// LoadProfile fetches a Profile row by id.
func (s *Store) LoadProfile(id model.ProfileId) (model.Profile, error) {
	var profile model.Profile
	err := s.db.View(func(tx *buntdb.Tx) error {
		return getJSON(tx, profileKey(id), &profile)
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return model.Profile{}, errs.NewNotAvailable("", "", "profile:"+string(id))
		}
		return model.Profile{}, errs.NewStoreError("load_profile", err)
	}
	return profile, nil
}

// ListProfiles returns every stored Profile, sorted by id for deterministic
// listing (backs the `get_profiles` RPC verb).
func (s *Store) ListProfiles() ([]model.Profile, error) {
	var profiles []model.Profile
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(profilePrefix+"*", func(key, value string) bool {
			var profile model.Profile
			if jsonErr := decodeEnvelopePayload(value, &profile); jsonErr == nil {
				profiles = append(profiles, profile)
			}
			return true
		})
	})
	if err != nil {
		return nil, errs.NewStoreError("list_profiles", err)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Id < profiles[j].Id })
	return profiles, nil
}

// DeleteProfile removes a Profile row, the rows of its embedded pipeline
// definition, and any AppOverride rows that reference this profile (§4.3,
// "Delete").
func (s *Store) DeleteProfile(id model.ProfileId) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		var profile model.Profile
		if err := getJSON(tx, profileKey(id), &profile); err != nil {
			if errors.Is(err, buntdb.ErrNotFound) {
				return nil
			}
			return err
		}

		if err := deletePipelineTree(tx, profile.Pipeline); err != nil {
			return err
		}

		var overrideKeys []string
		err := tx.AscendKeys(appOverridePrefix+"*", func(key, value string) bool {
			var override model.AppOverride
			if jsonErr := decodeEnvelopePayload(value, &override); jsonErr == nil && override.ProfileId == id {
				overrideKeys = append(overrideKeys, key)
			}
			return true
		})
		if err != nil {
			return err
		}
		for _, key := range overrideKeys {
			if _, delErr := tx.Delete(key); delErr != nil {
				return delErr
			}
		}

		_, delErr := tx.Delete(profileKey(id))
		return delErr
	})
	if err != nil {
		return errs.NewStoreError("delete_profile", err)
	}
	return nil
}
