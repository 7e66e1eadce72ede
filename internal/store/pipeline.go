package store

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/buntdb"

	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// ActionSettingsKey locates one (toplevel, action) leaf within a pipeline
// definition, mirroring internal/registrar.LookupKey but scoped to a single
// pipeline rather than a single toplevel's walk.
type ActionSettingsKey struct {
	Toplevel model.TopLevelId
	Action   model.PipelineActionId
}

// PipelineSaveEntry is one leaf to persist alongside a PipelineDefinition.
// Record.ID may be nil (I1); SavePipeline allocates a fresh id for any nil
// entry and reports the final assignment to the caller.
type PipelineSaveEntry struct {
	Toplevel model.TopLevelId
	Action   model.PipelineActionId
	Settings model.PipelineActionSettings
	Record   ActionRecord
}

// SavePipeline runs the §4.3 save protocol in one write transaction: for
// each entry, allocate a fresh ActionId if unset (1), upsert the
// kind-specific row under it (2) and emit a DbAction handle (3); upsert
// every per-toplevel PipelineActionSettings row (4); upsert the
// PipelineDefinition row last (5); commit (6).
func (s *Store) SavePipeline(def model.PipelineDefinition, entries []PipelineSaveEntry) (map[ActionSettingsKey]model.ActionId, error) {
	assigned := make(map[ActionSettingsKey]model.ActionId, len(entries))

	err := s.db.Update(func(tx *buntdb.Tx) error {
		for i := range entries {
			entry := &entries[i]
			if entry.Record.ID.IsNil() {
				entry.Record.ID = allocateActionId()
			}

			if err := putJSON(tx, actionRowKey(entry.Record.Dtype, entry.Record.ID), json.RawMessage(entry.Record.Payload)); err != nil {
				return err
			}

			row := actionSettingsRow{
				Settings: entry.Settings,
				Instance: DbAction{ID: entry.Record.ID, Dtype: entry.Record.Dtype},
			}
			key := ActionSettingsKey{Toplevel: entry.Toplevel, Action: entry.Action}
			if err := putJSON(tx, actionSettingsKey(def.Id, entry.Toplevel, entry.Action), row); err != nil {
				return err
			}
			assigned[key] = entry.Record.ID
		}

		return putJSON(tx, pipelineKey(def.Id), def)
	})
	if err != nil {
		return nil, errs.NewStoreError("save_pipeline", err)
	}
	return assigned, nil
}

// LoadPipeline runs the §4.3 load/reconstruct protocol: fetch the
// PipelineDefinition row (1), then every per-toplevel action-settings row
// it names (2); the DbAction each row carries is returned alongside so the
// caller can resolve and fetch the matching kind-specific row (3) before
// assembling an in-memory tree (4).
func (s *Store) LoadPipeline(id model.PipelineDefinitionId) (model.PipelineDefinition, map[ActionSettingsKey]model.PipelineActionSettings, map[ActionSettingsKey]DbAction, error) {
	var def model.PipelineDefinition
	settings := make(map[ActionSettingsKey]model.PipelineActionSettings)
	instances := make(map[ActionSettingsKey]DbAction)

	err := s.db.View(func(tx *buntdb.Tx) error {
		if err := getJSON(tx, pipelineKey(id), &def); err != nil {
			return err
		}

		for _, tl := range def.AllToplevels() {
			for _, actionID := range allLeafActions(tl) {
				var row actionSettingsRow
				key := actionSettingsKey(def.Id, tl.Id, actionID)
				if err := getJSON(tx, key, &row); err != nil {
					if errors.Is(err, buntdb.ErrNotFound) {
						continue
					}
					return err
				}
				lookupKey := ActionSettingsKey{Toplevel: tl.Id, Action: actionID}
				settings[lookupKey] = row.Settings
				instances[lookupKey] = row.Instance
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return model.PipelineDefinition{}, nil, nil, errs.NewNotAvailable("", "", "pipeline:"+string(id))
		}
		return model.PipelineDefinition{}, nil, nil, errs.NewStoreError("load_pipeline", err)
	}
	return def, settings, instances, nil
}

// DeletePipeline removes the pipeline row, every toplevel-scoped settings
// row it references, and each referenced kind-specific row, in one
// transaction (§4.3, "Delete").
func (s *Store) DeletePipeline(id model.PipelineDefinitionId) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		var def model.PipelineDefinition
		if err := getJSON(tx, pipelineKey(id), &def); err != nil {
			if errors.Is(err, buntdb.ErrNotFound) {
				return nil
			}
			return err
		}
		return deletePipelineTree(tx, def)
	})
	if err != nil {
		return errs.NewStoreError("delete_pipeline", err)
	}
	return nil
}

// deletePipelineTree deletes a definition's rows within an already-open
// write transaction, shared by DeletePipeline and the profile-level
// cascading delete (§4.3: "Delete. Removes pipeline row... App overrides
// referencing the deleted profile are removed.").
func deletePipelineTree(tx *buntdb.Tx, def model.PipelineDefinition) error {
	if def.Id == "" {
		return nil
	}
	for _, tl := range def.AllToplevels() {
		for _, actionID := range allLeafActions(tl) {
			var row actionSettingsRow
			key := actionSettingsKey(def.Id, tl.Id, actionID)
			if err := getJSON(tx, key, &row); err != nil {
				if errors.Is(err, buntdb.ErrNotFound) {
					continue
				}
				return err
			}
			if !row.Instance.ID.IsNil() {
				if _, err := tx.Delete(actionRowKey(row.Instance.Dtype, row.Instance.ID)); err != nil && !errors.Is(err, buntdb.ErrNotFound) {
					return err
				}
			}
			if _, err := tx.Delete(key); err != nil && !errors.Is(err, buntdb.ErrNotFound) {
				return err
			}
		}
	}
	_, err := tx.Delete(pipelineKey(def.Id))
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil
	}
	return err
}

// allLeafActions returns a toplevel's root plus its declared action list,
// deduplicated, as the full set of PipelineActionId leaves that may have a
// settings row.
func allLeafActions(tl model.TopLevelDefinition) []model.PipelineActionId {
	seen := make(map[model.PipelineActionId]struct{}, len(tl.Actions)+1)
	out := make([]model.PipelineActionId, 0, len(tl.Actions)+1)
	add := func(id model.PipelineActionId) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	add(tl.Root)
	for _, id := range tl.Actions {
		add(id)
	}
	return out
}
