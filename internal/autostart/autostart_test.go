package autostart

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duoscreen/orchestrator/internal/assembly"
	"github.com/duoscreen/orchestrator/internal/catalog"
	"github.com/duoscreen/orchestrator/internal/executor"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/store"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

type fakePipelineRow struct {
	def       model.PipelineDefinition
	settings  map[store.ActionSettingsKey]model.PipelineActionSettings
	instances map[store.ActionSettingsKey]store.DbAction
}

type fakeStore struct {
	profiles  map[model.ProfileId]model.Profile
	pipelines map[model.PipelineDefinitionId]fakePipelineRow
	overrides map[string]model.AppOverride
	actions   map[string]store.ActionRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:  make(map[model.ProfileId]model.Profile),
		pipelines: make(map[model.PipelineDefinitionId]fakePipelineRow),
		overrides: make(map[string]model.AppOverride),
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

func (s *fakeStore) LoadAppOverride(app model.AppId, profile model.ProfileId) (model.AppOverride, error) {
	o, ok := s.overrides[string(app)+":"+string(profile)]
	if !ok {
		return model.AppOverride{}, errs.NewNotAvailable("", "", "app_override:"+string(app)+":"+string(profile))
	}
	return o, nil
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

func singleDisplayConfigPipeline(id model.PipelineDefinitionId, actionID model.ActionId) fakePipelineRow {
	def := model.PipelineDefinition{
		Id: id,
		Platform: model.TopLevelDefinition{
			Id:      "platform",
			Root:    "core:display:root",
			Actions: []model.PipelineActionId{"core:display:root"},
		},
	}
	key := store.ActionSettingsKey{Toplevel: "platform", Action: "core:display:root"}
	return fakePipelineRow{
		def: def,
		settings: map[store.ActionSettingsKey]model.PipelineActionSettings{
			key: {Selection: model.NewActionSelection("core:display:root")},
		},
		instances: map[store.ActionSettingsKey]store.DbAction{
			key: {ID: actionID, Dtype: model.KindDisplayConfig},
		},
	}
}

func TestLoadIntentRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intent.json")
	raw, err := json.Marshal(Intent{AppId: "app-1", ProfileId: "profile-1", Target: model.Gamemode})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	intent, err := LoadIntent(path)
	require.NoError(t, err)
	require.Equal(t, model.AppId("app-1"), intent.AppId)
	require.Equal(t, model.ProfileId("profile-1"), intent.ProfileId)
	require.Equal(t, model.Gamemode, intent.Target)
}

func TestResolveReturnsSkippedWhenProfileMissing(t *testing.T) {
	st := newFakeStore()
	result, err := Resolve(st, Intent{AppId: "app-1", ProfileId: "gone"}, assembly.Deps{})
	require.NoError(t, err)
	require.True(t, result.Skipped)
}

func TestResolveReifiesProfileWithoutOverride(t *testing.T) {
	st := newFakeStore()
	row := singleDisplayConfigPipeline("pipe-1", "act-1")
	st.pipelines["pipe-1"] = row
	st.profiles["profile-1"] = model.Profile{Id: "profile-1", Pipeline: row.def}

	payload, _ := json.Marshal(catalog.DisplayConfigSettings{ExternalMode: "1920x1080"})
	st.actions["display_config:act-1"] = store.ActionRecord{ID: "act-1", Dtype: model.KindDisplayConfig, Payload: payload}

	result, err := Resolve(st, Intent{AppId: "app-1", ProfileId: "profile-1", Target: model.Desktop}, assembly.Deps{})
	require.NoError(t, err)
	require.False(t, result.Skipped)
	require.Equal(t, model.Desktop, result.Target)

	key := executor.NodeKey{Toplevel: "platform", Action: "core:display:root"}
	require.Contains(t, result.Plan.Actions, key)
}

func TestResolveAppliesAppOverrideOverProfileDefaults(t *testing.T) {
	st := newFakeStore()

	baseRow := singleDisplayConfigPipeline("pipe-base", "act-base")
	st.pipelines["pipe-base"] = baseRow
	st.profiles["profile-1"] = model.Profile{Id: "profile-1", Pipeline: baseRow.def}
	basePayload, _ := json.Marshal(catalog.DisplayConfigSettings{ExternalMode: "1920x1080"})
	st.actions["display_config:act-base"] = store.ActionRecord{ID: "act-base", Dtype: model.KindDisplayConfig, Payload: basePayload}

	overrideRow := singleDisplayConfigPipeline("pipe-override", "act-override")
	st.pipelines["pipe-override"] = overrideRow
	overridePayload, _ := json.Marshal(catalog.DisplayConfigSettings{ExternalMode: "1280x800"})
	st.actions["display_config:act-override"] = store.ActionRecord{ID: "act-override", Dtype: model.KindDisplayConfig, Payload: overridePayload}

	st.overrides["app-1:profile-1"] = model.AppOverride{AppId: "app-1", ProfileId: "profile-1", Pipeline: overrideRow.def}

	result, err := Resolve(st, Intent{AppId: "app-1", ProfileId: "profile-1"}, assembly.Deps{})
	require.NoError(t, err)

	key := executor.NodeKey{Toplevel: "platform", Action: "core:display:root"}
	action, ok := result.Plan.Actions[key].(*catalog.DisplayConfig)
	require.True(t, ok)
	require.Equal(t, "1280x800", action.Settings.ExternalMode)
}
