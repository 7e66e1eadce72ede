// Package executor implements the pipeline executor (C6, §4.5): flatten,
// dependency check, setup, launch+wait, and teardown phases over a fully
// reified pipeline definition.
package executor

import (
	"github.com/duoscreen/orchestrator/internal/catalog"
	"github.com/duoscreen/orchestrator/internal/model"
)

// NodeKey locates one (toplevel, action) settings node within a pipeline
// definition, matching internal/store.ActionSettingsKey's shape without an
// import dependency on the store package.
type NodeKey struct {
	Toplevel model.TopLevelId
	Action   model.PipelineActionId
}

// Plan is a fully reified pipeline ready to run: the definition tree, the
// per-node settings that drive selection/pruning, and the concrete
// catalog.Action instance for every node that actually executes (pure
// routing nodes used only for OneOf/AllOf/Versioned composition have no
// entry here and only contribute their resolved children).
type Plan struct {
	Definition model.PipelineDefinition
	Settings   map[NodeKey]model.PipelineActionSettings
	Actions    map[NodeKey]catalog.Action
}

// flatten runs the static half of Phase A (§4.5): depth-first, pre-order
// walk of each toplevel (platform first, then declared toplevels in
// order), pruning disabled nodes and resolving OneOf/AllOf/Versioned
// immediately via Resolve, which takes a Versioned node's Default branch.
// That is sufficient here because this order only feeds Phase B's
// dependency check, which runs before any Setup call — no upstream sibling
// has committed context state yet regardless of a Versioned node's
// position in the tree, so Default is the only resolvable answer at this
// point. A node contributes itself to the execution order only if the plan
// supplies a concrete action for it; composite nodes contribute only their
// resolved children. I4 (acyclicity) is enforced defensively here with a
// visited set, independent of the definition-time validation.
//
// Phase C does not reuse this order for Versioned subtrees: see setup in
// run.go, which re-walks the tree live so each Versioned node resolves
// against context state as committed by then (§4.1: "ctx state already set
// by upstream actions").
func flatten(plan Plan) []NodeKey {
	visited := make(map[NodeKey]bool)
	var order []NodeKey

	var walk func(toplevel model.TopLevelId, id model.PipelineActionId)
	walk = func(toplevel model.TopLevelId, id model.PipelineActionId) {
		if id == "" {
			return
		}
		key := NodeKey{Toplevel: toplevel, Action: id}
		if visited[key] {
			return
		}
		visited[key] = true

		settings, ok := plan.Settings[key]
		if !ok {
			return
		}
		if settings.Pruned() {
			return
		}

		if _, hasAction := plan.Actions[key]; hasAction {
			order = append(order, key)
		}

		for _, child := range settings.Selection.Resolve() {
			walk(toplevel, child)
		}
	}

	for _, tl := range plan.Definition.AllToplevels() {
		walk(tl.Id, tl.Root)
	}
	return order
}
