package rpcserver

import (
	"context"

	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/ports"
	"github.com/duoscreen/orchestrator/internal/store"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

type fakePublisher struct {
	published []ports.DomainEvent
}

func (p *fakePublisher) Publish(_ context.Context, event ports.DomainEvent) error {
	p.published = append(p.published, event)
	return nil
}

func (p *fakePublisher) Subscribe(string, ports.EventHandler) (ports.Subscription, error) {
	return nil, nil
}

type fakeStore struct {
	profiles  map[model.ProfileId]model.Profile
	overrides map[string]model.AppOverride
	pipelines map[model.PipelineDefinitionId]fakePipelineRow
	actions   map[string]store.ActionRecord
}

type fakePipelineRow struct {
	def       model.PipelineDefinition
	settings  map[store.ActionSettingsKey]model.PipelineActionSettings
	instances map[store.ActionSettingsKey]store.DbAction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:  make(map[model.ProfileId]model.Profile),
		overrides: make(map[string]model.AppOverride),
		pipelines: make(map[model.PipelineDefinitionId]fakePipelineRow),
		actions:   make(map[string]store.ActionRecord),
	}
}

func (s *fakeStore) SaveProfile(profile model.Profile) error {
	s.profiles[profile.Id] = profile
	return nil
}

func (s *fakeStore) LoadProfile(id model.ProfileId) (model.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return model.Profile{}, errs.NewNotAvailable("", "", "profile:"+string(id))
	}
	return p, nil
}

func (s *fakeStore) ListProfiles() ([]model.Profile, error) {
	out := make([]model.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) DeleteProfile(id model.ProfileId) error {
	delete(s.profiles, id)
	return nil
}

func (s *fakeStore) SaveAppOverride(override model.AppOverride) error {
	app, profile := override.Key()
	s.overrides[string(app)+":"+string(profile)] = override
	return nil
}

func (s *fakeStore) LoadAppOverride(app model.AppId, profile model.ProfileId) (model.AppOverride, error) {
	o, ok := s.overrides[string(app)+":"+string(profile)]
	if !ok {
		return model.AppOverride{}, errs.NewNotAvailable("", "", "app_override")
	}
	return o, nil
}

func (s *fakeStore) DeleteAppOverride(app model.AppId, profile model.ProfileId) error {
	delete(s.overrides, string(app)+":"+string(profile))
	return nil
}

func (s *fakeStore) SavePipeline(def model.PipelineDefinition, entries []store.PipelineSaveEntry) (map[store.ActionSettingsKey]model.ActionId, error) {
	settings := make(map[store.ActionSettingsKey]model.PipelineActionSettings, len(entries))
	instances := make(map[store.ActionSettingsKey]store.DbAction, len(entries))
	assigned := make(map[store.ActionSettingsKey]model.ActionId, len(entries))

	for _, entry := range entries {
		id := entry.Record.ID
		if id.IsNil() {
			id = model.ActionId("generated-" + string(entry.Action))
		}
		key := store.ActionSettingsKey{Toplevel: entry.Toplevel, Action: entry.Action}
		settings[key] = entry.Settings
		instances[key] = store.DbAction{ID: id, Dtype: entry.Record.Dtype}
		assigned[key] = id
		s.actions[string(entry.Record.Dtype)+":"+string(id)] = store.ActionRecord{ID: id, Dtype: entry.Record.Dtype, Payload: entry.Record.Payload}
	}

	s.pipelines[def.Id] = fakePipelineRow{def: def, settings: settings, instances: instances}
	return assigned, nil
}

func (s *fakeStore) LoadPipeline(id model.PipelineDefinitionId) (model.PipelineDefinition, map[store.ActionSettingsKey]model.PipelineActionSettings, map[store.ActionSettingsKey]store.DbAction, error) {
	row, ok := s.pipelines[id]
	if !ok {
		return model.PipelineDefinition{}, nil, nil, errs.NewNotAvailable("", "", "pipeline:"+string(id))
	}
	return row.def, row.settings, row.instances, nil
}

func (s *fakeStore) LoadActionRecord(dtype model.ActionKind, id model.ActionId) (store.ActionRecord, error) {
	rec, ok := s.actions[string(dtype)+":"+string(id)]
	if !ok {
		return store.ActionRecord{}, errs.NewNotAvailable(string(id), "", "action:"+string(dtype))
	}
	return rec, nil
}

func (s *fakeStore) SaveActionRecord(record store.ActionRecord) error {
	s.actions[string(record.Dtype)+":"+string(record.ID)] = record
	return nil
}
