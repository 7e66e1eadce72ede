// Package catalog implements the closed action catalog (C1, §4.1): every
// action kind's configuration shape and setup/teardown/dependencies
// contract. The catalog is closed and known at build time; Action is
// dispatched exhaustively by the executor rather than loaded dynamically
// (§9, "Closed variant catalog vs. dynamic dispatch").
package catalog

import (
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
)

// Action is the uniform contract every catalog entry implements (§4.1).
type Action interface {
	Kind() model.ActionKind
	ID() model.ActionId
	Setup(ctx *execctx.Context) error
	Teardown(ctx *execctx.Context) error
	Dependencies(ctx *execctx.Context) []Dependency
}

// DependencyKind classifies what Dependencies reports as advisory to the
// caller (§4.1: "the executor aggregates dependencies before a run and
// surfaces unmet ones; it does not attempt installation").
type DependencyKind string

const (
	DependencyScript     DependencyKind = "script"
	DependencySettings   DependencyKind = "settings_file"
	DependencyPath       DependencyKind = "path"
	DependencyExternalTool DependencyKind = "external_tool"
)

// Dependency is one prerequisite an action needs in order to run its setup.
type Dependency struct {
	Kind        DependencyKind
	Description string
	Satisfied   bool
}

// baseAction factors the Kind/ID plumbing shared by every concrete action,
// mirroring the teacher's embedding of common metadata into each plugin.
// slot is the StateSlot this instance's Setup allocated for its per-action
// state; Teardown reuses it instead of the bare kind so two instances of
// the same kind in one run never share a state key (§4.4).
type baseAction struct {
	kind model.ActionKind
	id   model.ActionId
	slot execctx.StateSlot
}

func (b baseAction) Kind() model.ActionKind { return b.kind }
func (b baseAction) ID() model.ActionId     { return b.id }

// noopTeardown is embedded by actions whose default teardown is a no-op,
// per §4.1 ("default: no-op").
type noopTeardown struct{}

func (noopTeardown) Teardown(*execctx.Context) error { return nil }
