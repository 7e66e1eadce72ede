// Package autostart implements the autostart loader (C4, §4.8): resolving
// a persisted launch intent into a fully reified pipeline ready for the
// executor, without ever inventing intent for a profile that no longer
// exists.
package autostart

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"

	"github.com/duoscreen/orchestrator/internal/assembly"
	"github.com/duoscreen/orchestrator/internal/executor"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/reify"
	"github.com/duoscreen/orchestrator/internal/store"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// Intent is the persisted "last launch" record this loader resolves on
// startup (§4.8, step 1).
type Intent struct {
	AppId     model.AppId     `json:"app_id" validate:"required"`
	ProfileId model.ProfileId `json:"profile_id" validate:"required"`
	Target    model.Target    `json:"target" validate:"required,oneof=desktop gamemode"`
}

var intentValidator = validator.New()

// LoadIntent reads, decodes, and validates a persisted Intent from path.
func LoadIntent(path string) (Intent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Intent{}, fmt.Errorf("autostart: reading intent file %s: %w", path, err)
	}
	var intent Intent
	if err := json.Unmarshal(data, &intent); err != nil {
		return Intent{}, fmt.Errorf("autostart: decoding intent file %s: %w", path, err)
	}
	if err := intentValidator.Struct(intent); err != nil {
		return Intent{}, fmt.Errorf("autostart: invalid intent file %s: %w", path, err)
	}
	return intent, nil
}

// Store is the subset of internal/store.Store this loader needs.
type Store interface {
	LoadProfile(id model.ProfileId) (model.Profile, error)
	LoadAppOverride(app model.AppId, profile model.ProfileId) (model.AppOverride, error)
	LoadPipeline(id model.PipelineDefinitionId) (model.PipelineDefinition, map[store.ActionSettingsKey]model.PipelineActionSettings, map[store.ActionSettingsKey]store.DbAction, error)
	LoadActionRecord(dtype model.ActionKind, id model.ActionId) (store.ActionRecord, error)
}

// Result is what Resolve hands to the executor, or a typed "no autostart"
// outcome when the intent no longer points at a live profile.
type Result struct {
	Plan    executor.Plan
	Target  model.Target
	Skipped bool
	Reason  string
}

// Resolve runs §4.8 steps 2 and 3's setup: fetch the profile, apply the
// per-app override if any (falling back to the profile's own settings for
// any node the override leaves unset), reify, and return an executor.Plan.
// If intent.ProfileId no longer names a stored profile, Resolve returns a
// Skipped Result rather than an error: the loader never invents intent.
func Resolve(st Store, intent Intent, deps assembly.Deps) (Result, error) {
	profile, err := st.LoadProfile(intent.ProfileId)
	if err != nil {
		var notAvailable *errs.NotAvailable
		if errors.As(err, &notAvailable) {
			return Result{Skipped: true, Reason: fmt.Sprintf("profile %s no longer exists", intent.ProfileId)}, nil
		}
		return Result{}, fmt.Errorf("autostart: loading profile %s: %w", intent.ProfileId, err)
	}

	def, settings, instances, err := st.LoadPipeline(profile.Pipeline.Id)
	if err != nil {
		return Result{}, fmt.Errorf("autostart: loading profile %s's pipeline: %w", intent.ProfileId, err)
	}

	override, err := st.LoadAppOverride(intent.AppId, intent.ProfileId)
	if err == nil {
		def, settings, instances, err = applyAppOverride(st, def, settings, instances, override)
		if err != nil {
			return Result{}, err
		}
	} else {
		var notAvailable *errs.NotAvailable
		if !errors.As(err, &notAvailable) {
			return Result{}, fmt.Errorf("autostart: loading app override for %s/%s: %w", intent.AppId, intent.ProfileId, err)
		}
	}

	plan, err := reify.Reify(st, def, settings, instances, deps)
	if err != nil {
		return Result{}, err
	}

	return Result{Plan: plan, Target: intent.Target}, nil
}

// applyAppOverride merges override.Pipeline's own settings/instances over
// the profile's, per §4.8: "apply per-app override if any, apply template
// defaults for any unoverridden children." The profile's own rows are the
// baseline ("template defaults"); the override's rows replace only the
// nodes it actually defines.
func applyAppOverride(
	st Store,
	def model.PipelineDefinition,
	settings map[store.ActionSettingsKey]model.PipelineActionSettings,
	instances map[store.ActionSettingsKey]store.DbAction,
	override model.AppOverride,
) (model.PipelineDefinition, map[store.ActionSettingsKey]model.PipelineActionSettings, map[store.ActionSettingsKey]store.DbAction, error) {
	_, overrideSettings, overrideInstances, err := st.LoadPipeline(override.Pipeline.Id)
	if err != nil {
		return def, settings, instances, fmt.Errorf("autostart: loading app override's pipeline: %w", err)
	}

	mergedDef := def
	if err := mergo.Merge(&mergedDef, override.Pipeline, mergo.WithOverride); err != nil {
		return def, settings, instances, fmt.Errorf("autostart: merging app override's pipeline shape: %w", err)
	}

	mergedSettings := cloneSettings(settings)
	if err := mergo.Merge(&mergedSettings, overrideSettings, mergo.WithOverride); err != nil {
		return def, settings, instances, fmt.Errorf("autostart: merging app override's settings: %w", err)
	}

	mergedInstances := cloneInstances(instances)
	if err := mergo.Merge(&mergedInstances, overrideInstances, mergo.WithOverride); err != nil {
		return def, settings, instances, fmt.Errorf("autostart: merging app override's action instances: %w", err)
	}

	return mergedDef, mergedSettings, mergedInstances, nil
}

func cloneSettings(src map[store.ActionSettingsKey]model.PipelineActionSettings) map[store.ActionSettingsKey]model.PipelineActionSettings {
	dst := make(map[store.ActionSettingsKey]model.PipelineActionSettings, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneInstances(src map[store.ActionSettingsKey]store.DbAction) map[store.ActionSettingsKey]store.DbAction {
	dst := make(map[store.ActionSettingsKey]store.DbAction, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
