package store

import (
	"fmt"

	"github.com/duoscreen/orchestrator/internal/model"
)

const (
	profilePrefix         = "profile:"
	appSettingsPrefix     = "app_settings:"
	appOverridePrefix     = "app_override:"
	pipelinePrefix        = "pipeline:"
	actionSettingsPrefix  = "action_settings:"
	actionPrefix          = "action:"
)

// indexedPrefixes lists every row family that gets a listing index
// (§4.3, "optional secondary indexes" / §11.1, "one db.CreateIndex per row
// family for listing").
var indexedPrefixes = []string{
	profilePrefix,
	appSettingsPrefix,
	appOverridePrefix,
	pipelinePrefix,
	actionSettingsPrefix,
	actionPrefix,
}

func profileKey(id model.ProfileId) string {
	return profilePrefix + string(id)
}

func appSettingsKey(id model.AppId) string {
	return appSettingsPrefix + string(id)
}

func appOverrideKey(app model.AppId, profile model.ProfileId) string {
	return fmt.Sprintf("%s%s:%s", appOverridePrefix, app, profile)
}

func pipelineKey(id model.PipelineDefinitionId) string {
	return pipelinePrefix + string(id)
}

func actionSettingsKey(pipeline model.PipelineDefinitionId, toplevel model.TopLevelId, action model.PipelineActionId) string {
	return fmt.Sprintf("%s%s:%s:%s", actionSettingsPrefix, pipeline, toplevel, action)
}

func actionRowKey(dtype model.ActionKind, id model.ActionId) string {
	return fmt.Sprintf("%s%s:%s", actionPrefix, dtype, id)
}
