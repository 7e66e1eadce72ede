// Package reify resolves a stored pipeline definition into the executor's
// Plan: following every PipelineActionSettings.ProfileOverride to the
// subtree it names (I7), then decoding each resulting leaf's action row
// into a concrete catalog.Action via internal/assembly.
package reify

import (
	"fmt"

	"github.com/duoscreen/orchestrator/internal/assembly"
	"github.com/duoscreen/orchestrator/internal/catalog"
	"github.com/duoscreen/orchestrator/internal/executor"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/store"
)

// ProfileStore is the subset of internal/store.Store this package needs.
type ProfileStore interface {
	LoadProfile(id model.ProfileId) (model.Profile, error)
	LoadPipeline(id model.PipelineDefinitionId) (model.PipelineDefinition, map[store.ActionSettingsKey]model.PipelineActionSettings, map[store.ActionSettingsKey]store.DbAction, error)
	LoadActionRecord(dtype model.ActionKind, id model.ActionId) (store.ActionRecord, error)
}

// maxOverrideDepth bounds a chain of profile_override hops so a
// misconfigured cycle across profiles fails loudly instead of looping.
const maxOverrideDepth = 8

// Reify resolves def's settings/instances (as returned by
// store.Store.LoadPipeline) against st and assembles an executor.Plan.
func Reify(st ProfileStore, def model.PipelineDefinition, settings map[store.ActionSettingsKey]model.PipelineActionSettings, instances map[store.ActionSettingsKey]store.DbAction, deps assembly.Deps) (executor.Plan, error) {
	finalSettings := make(map[store.ActionSettingsKey]model.PipelineActionSettings, len(settings))
	finalInstances := make(map[store.ActionSettingsKey]store.DbAction, len(instances))
	for k, v := range settings {
		finalSettings[k] = v
	}
	for k, v := range instances {
		finalInstances[k] = v
	}

	for key, s := range settings {
		if s.ProfileOverride == nil {
			continue
		}
		resolvedSettings, resolvedInstance, err := resolveOverride(st, key, *s.ProfileOverride, 0)
		if err != nil {
			return executor.Plan{}, err
		}
		finalSettings[key] = resolvedSettings
		finalInstances[key] = resolvedInstance
	}

	return assemblePlan(st, def, finalSettings, finalInstances, deps)
}

// assemblePlan decodes every non-nil action row into a catalog.Action and
// reshapes the store-keyed maps into the executor's own NodeKey shape.
func assemblePlan(st ProfileStore, def model.PipelineDefinition, settings map[store.ActionSettingsKey]model.PipelineActionSettings, instances map[store.ActionSettingsKey]store.DbAction, deps assembly.Deps) (executor.Plan, error) {
	nodeSettings := make(map[executor.NodeKey]model.PipelineActionSettings, len(settings))
	for key, s := range settings {
		nodeSettings[executor.NodeKey{Toplevel: key.Toplevel, Action: key.Action}] = s
	}

	actions := make(map[executor.NodeKey]catalog.Action, len(instances))
	for key, instance := range instances {
		if instance.ID.IsNil() {
			continue
		}
		record, err := st.LoadActionRecord(instance.Dtype, instance.ID)
		if err != nil {
			return executor.Plan{}, fmt.Errorf("reify: loading action row %s/%s: %w", instance.Dtype, instance.ID, err)
		}
		action, err := assembly.Build(record, key.Action, deps)
		if err != nil {
			return executor.Plan{}, err
		}
		actions[executor.NodeKey{Toplevel: key.Toplevel, Action: key.Action}] = action
	}

	return executor.Plan{Definition: def, Settings: nodeSettings, Actions: actions}, nil
}

// resolveOverride follows a profile_override chain to its terminal
// (non-overriding) node at the same (toplevel, action) path, per I7:
// "the subtree is replaced by the same subtree drawn from that profile."
func resolveOverride(st ProfileStore, key store.ActionSettingsKey, overrideProfile model.ProfileId, depth int) (model.PipelineActionSettings, store.DbAction, error) {
	if depth >= maxOverrideDepth {
		return model.PipelineActionSettings{}, store.DbAction{}, fmt.Errorf("reify: profile_override chain at toplevel %s action %s exceeds depth %d", key.Toplevel, key.Action, maxOverrideDepth)
	}

	profile, err := st.LoadProfile(overrideProfile)
	if err != nil {
		return model.PipelineActionSettings{}, store.DbAction{}, fmt.Errorf("reify: profile_override %s: %w", overrideProfile, err)
	}

	_, overrideSettings, overrideInstances, err := st.LoadPipeline(profile.Pipeline.Id)
	if err != nil {
		return model.PipelineActionSettings{}, store.DbAction{}, fmt.Errorf("reify: loading override profile %s's pipeline: %w", overrideProfile, err)
	}

	resolved, ok := overrideSettings[key]
	if !ok {
		return model.PipelineActionSettings{}, store.DbAction{}, fmt.Errorf("reify: profile %s has no node at toplevel %s action %s (I7: unresolved ids are a hard error)", overrideProfile, key.Toplevel, key.Action)
	}

	if resolved.ProfileOverride != nil {
		return resolveOverride(st, key, *resolved.ProfileOverride, depth+1)
	}
	return resolved, overrideInstances[key], nil
}
