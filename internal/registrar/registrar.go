// Package registrar implements the in-memory catalog of reusable action
// definitions keyed by stable identifier (C2, §4.2). It is immutable after
// construction: all definitions are registered up front, then the
// registrar serves lookups for the lifetime of the process.
package registrar

import (
	"sort"

	"github.com/duoscreen/orchestrator/internal/model"
)

// PipelineActionDefinition is one entry in the flat registrar map: the
// static shape of a node in the definition DAG, independent of any
// particular profile's settings row.
type PipelineActionDefinition struct {
	Id           model.PipelineActionId
	Kind         model.ActionKind
	DefaultChildren []model.PipelineActionId
}

// Registrar is an immutable, flat map from PipelineActionId to its
// definition, built once at startup from the built-in catalog.
type Registrar struct {
	defs map[model.PipelineActionId]PipelineActionDefinition
}

// New builds a Registrar from the given definitions. Later entries with a
// duplicate id overwrite earlier ones, matching a simple "last registration
// wins" construction-time policy.
func New(defs []PipelineActionDefinition) *Registrar {
	m := make(map[model.PipelineActionId]PipelineActionDefinition, len(defs))
	for _, d := range defs {
		m[d.Id] = d
	}
	return &Registrar{defs: m}
}

// Get applies I5 variant fallback: prefers "id:variant(target)", then
// falls back to the bare id. Returns ok=false if neither is registered.
func (r *Registrar) Get(id model.PipelineActionId, target model.Target) (PipelineActionDefinition, bool) {
	if variant := id.WithVariant(target); variant != id {
		if def, ok := r.defs[variant]; ok {
			return def, true
		}
	}
	def, ok := r.defs[id]
	return def, ok
}

// Toplevel returns every registered definition whose id follows the
// ":toplevel:" naming convention, sorted for deterministic iteration.
func (r *Registrar) Toplevel() []PipelineActionDefinition {
	return r.filter(model.PipelineActionId.IsToplevel)
}

// Platform returns every registered definition whose id follows the
// ":platform" suffix convention, sorted for deterministic iteration.
func (r *Registrar) Platform() []PipelineActionDefinition {
	return r.filter(model.PipelineActionId.IsPlatform)
}

func (r *Registrar) filter(predicate func(model.PipelineActionId) bool) []PipelineActionDefinition {
	out := make([]PipelineActionDefinition, 0)
	for id, def := range r.defs {
		if predicate(id) {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// LookupKey is the composite key produced by MakeLookup: one entry per
// (toplevel, action) pair transitively reachable from a root.
type LookupKey struct {
	Toplevel model.TopLevelId
	Action   model.PipelineActionId
}

// MakeLookup transitively walks the definition DAG from root across both
// targets, producing the skeleton used to materialize a new profile's
// overrides from defaults (§4.2). The returned map's values are the default
// PipelineActionSettings seeded from each definition's declared children:
// an AllOf selection over DefaultChildren, enabled (Enabled == nil).
func (r *Registrar) MakeLookup(toplevelID model.TopLevelId, root model.PipelineActionId) map[LookupKey]model.PipelineActionSettings {
	out := make(map[LookupKey]model.PipelineActionSettings)
	visited := make(map[model.PipelineActionId]struct{})

	var walk func(id model.PipelineActionId)
	walk = func(id model.PipelineActionId) {
		if _, seen := visited[id]; seen {
			return
		}
		visited[id] = struct{}{}

		var def PipelineActionDefinition
		var ok bool
		for _, target := range []model.Target{model.Desktop, model.Gamemode} {
			if def, ok = r.Get(id, target); ok {
				break
			}
		}
		if !ok {
			return
		}

		key := LookupKey{Toplevel: toplevelID, Action: id}
		out[key] = model.PipelineActionSettings{
			Selection: model.NewAllOfSelection(def.DefaultChildren),
		}

		for _, child := range def.DefaultChildren {
			walk(child)
		}
	}

	walk(root)
	return out
}
