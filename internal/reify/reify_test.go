package reify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duoscreen/orchestrator/internal/assembly"
	"github.com/duoscreen/orchestrator/internal/catalog"
	"github.com/duoscreen/orchestrator/internal/executor"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/store"
)

func simplePipeline(id model.PipelineDefinitionId, actionID model.ActionId) fakePipeline {
	def := model.PipelineDefinition{
		Id: id,
		Platform: model.TopLevelDefinition{
			Id:      "platform",
			Root:    "core:display:root",
			Actions: []model.PipelineActionId{"core:display:root"},
		},
	}

	key := store.ActionSettingsKey{Toplevel: "platform", Action: "core:display:root"}
	return fakePipeline{
		def: def,
		settings: map[store.ActionSettingsKey]model.PipelineActionSettings{
			key: {Selection: model.NewActionSelection("core:display:root")},
		},
		instances: map[store.ActionSettingsKey]store.DbAction{
			key: {ID: actionID, Dtype: model.KindDisplayConfig},
		},
	}
}

func TestReifyAssemblesPlanWithoutOverride(t *testing.T) {
	st := newFakeStore()
	pipeline := simplePipeline("pipe-1", "act-1")
	st.pipelines["pipe-1"] = pipeline

	payload, err := json.Marshal(catalog.DisplayConfigSettings{ExternalMode: "1920x1080", Primary: true})
	require.NoError(t, err)
	st.putAction(store.ActionRecord{ID: "act-1", Dtype: model.KindDisplayConfig, Payload: payload})

	plan, err := Reify(st, pipeline.def, pipeline.settings, pipeline.instances, assembly.Deps{})
	require.NoError(t, err)

	key := executor.NodeKey{Toplevel: "platform", Action: "core:display:root"}
	require.Contains(t, plan.Actions, key)
	require.Equal(t, model.KindDisplayConfig, plan.Actions[key].Kind())
}

func TestReifyFollowsProfileOverride(t *testing.T) {
	st := newFakeStore()

	basePipeline := simplePipeline("pipe-base", "act-base")
	st.pipelines["pipe-base"] = basePipeline
	basePayload, _ := json.Marshal(catalog.DisplayConfigSettings{ExternalMode: "1920x1080"})
	st.putAction(store.ActionRecord{ID: "act-base", Dtype: model.KindDisplayConfig, Payload: basePayload})

	overridePipeline := simplePipeline("pipe-override", "act-override")
	st.pipelines["pipe-override"] = overridePipeline
	overridePayload, _ := json.Marshal(catalog.DisplayConfigSettings{ExternalMode: "1280x800"})
	st.putAction(store.ActionRecord{ID: "act-override", Dtype: model.KindDisplayConfig, Payload: overridePayload})

	st.profiles["other-profile"] = model.Profile{Id: "other-profile", Pipeline: overridePipeline.def}

	key := store.ActionSettingsKey{Toplevel: "platform", Action: "core:display:root"}
	overrideProfileID := model.ProfileId("other-profile")
	baseSettingsWithOverride := map[store.ActionSettingsKey]model.PipelineActionSettings{
		key: {
			Selection:       model.NewActionSelection("core:display:root"),
			ProfileOverride: &overrideProfileID,
		},
	}

	plan, err := Reify(st, basePipeline.def, baseSettingsWithOverride, basePipeline.instances, assembly.Deps{})
	require.NoError(t, err)

	planKey := executor.NodeKey{Toplevel: "platform", Action: "core:display:root"}
	action, ok := plan.Actions[planKey].(*catalog.DisplayConfig)
	require.True(t, ok)
	require.Equal(t, "1280x800", action.Settings.ExternalMode)
}

func TestReifyErrorsWhenOverrideProfileMissingNode(t *testing.T) {
	st := newFakeStore()
	basePipeline := simplePipeline("pipe-base", "act-base")
	basePayload, _ := json.Marshal(catalog.DisplayConfigSettings{})
	st.putAction(store.ActionRecord{ID: "act-base", Dtype: model.KindDisplayConfig, Payload: basePayload})

	emptyOverrideDef := model.PipelineDefinition{Id: "pipe-empty"}
	st.pipelines["pipe-empty"] = fakePipeline{def: emptyOverrideDef}
	st.profiles["empty-profile"] = model.Profile{Id: "empty-profile", Pipeline: emptyOverrideDef}

	overrideProfileID := model.ProfileId("empty-profile")
	key := store.ActionSettingsKey{Toplevel: "platform", Action: "core:display:root"}
	settings := map[store.ActionSettingsKey]model.PipelineActionSettings{
		key: {
			Selection:       model.NewActionSelection("core:display:root"),
			ProfileOverride: &overrideProfileID,
		},
	}

	_, err := Reify(st, basePipeline.def, settings, basePipeline.instances, assembly.Deps{})
	require.Error(t, err)
}
