package store

import "github.com/duoscreen/orchestrator/internal/model"

// DbAction is the lightweight handle the save protocol emits for each
// reified action instance: its assigned ActionId and the kind it resolves
// to, so a PipelineActionSettings row can reference a kind-specific row
// without embedding its full configuration (§4.3, "Save protocol" step 3).
type DbAction struct {
	ID    model.ActionId
	Dtype model.ActionKind
}

// actionSettingsRow is the on-disk shape of one (pipeline, toplevel,
// action) row: the model-level settings plus the store-level instance
// linkage the pure model layer leaves abstract. Instance.ID is empty until
// first save (I1: "nilable ActionId = assign-on-save").
type actionSettingsRow struct {
	Settings model.PipelineActionSettings
	Instance DbAction
}

// ActionRecord is a kind-specific action's persisted configuration: an
// opaque JSON payload whose shape is determined by Dtype (the catalog
// action's *Settings struct). The store treats it as an opaque blob; only
// the catalog and its callers know how to decode a given Dtype's payload.
type ActionRecord struct {
	ID      model.ActionId
	Dtype   model.ActionKind
	Payload []byte
}
