package reify

import (
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/store"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

type fakePipeline struct {
	def       model.PipelineDefinition
	settings  map[store.ActionSettingsKey]model.PipelineActionSettings
	instances map[store.ActionSettingsKey]store.DbAction
}

type fakeStore struct {
	profiles  map[model.ProfileId]model.Profile
	pipelines map[model.PipelineDefinitionId]fakePipeline
	actions   map[string]store.ActionRecord // key: dtype+":"+id
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:  make(map[model.ProfileId]model.Profile),
		pipelines: make(map[model.PipelineDefinitionId]fakePipeline),
		actions:   make(map[string]store.ActionRecord),
	}
}

func (s *fakeStore) LoadProfile(id model.ProfileId) (model.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return model.Profile{}, errs.NewNotAvailable("", "", "profile:"+string(id))
	}
	return p, nil
}

func (s *fakeStore) LoadPipeline(id model.PipelineDefinitionId) (model.PipelineDefinition, map[store.ActionSettingsKey]model.PipelineActionSettings, map[store.ActionSettingsKey]store.DbAction, error) {
	p, ok := s.pipelines[id]
	if !ok {
		return model.PipelineDefinition{}, nil, nil, errs.NewNotAvailable("", "", "pipeline:"+string(id))
	}
	return p.def, p.settings, p.instances, nil
}

func (s *fakeStore) LoadActionRecord(dtype model.ActionKind, id model.ActionId) (store.ActionRecord, error) {
	rec, ok := s.actions[string(dtype)+":"+string(id)]
	if !ok {
		return store.ActionRecord{}, errs.NewNotAvailable(string(id), "", "action:"+string(dtype))
	}
	return rec, nil
}

func (s *fakeStore) putAction(rec store.ActionRecord) {
	s.actions[string(rec.Dtype)+":"+string(rec.ID)] = rec
}
