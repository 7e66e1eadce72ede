package catalog

import (
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// VirtualScreenBridgeSettings names the composed topology to apply.
type VirtualScreenBridgeSettings struct {
	Target execctx.Topology
}

type virtualScreenBridgeState struct {
	previous execctx.Topology
}

// VirtualScreenBridge composes independent outputs into one logical
// screen for the duration of the run.
type VirtualScreenBridge struct {
	baseAction
	PipelineActionID model.PipelineActionId
	Settings         VirtualScreenBridgeSettings
}

// NewVirtualScreenBridge constructs the action for the given instance id.
func NewVirtualScreenBridge(id model.ActionId, paID model.PipelineActionId, settings VirtualScreenBridgeSettings) *VirtualScreenBridge {
	return &VirtualScreenBridge{
		baseAction:       baseAction{kind: model.KindVirtualScreenBridge, id: id},
		PipelineActionID: paID,
		Settings:         settings,
	}
}

// Setup records the current topology, then composes the target topology.
func (a *VirtualScreenBridge) Setup(ctx *execctx.Context) error {
	if ctx.Composer == nil {
		return errs.NewNotAvailable(string(a.id), string(a.PipelineActionID), "screen composer")
	}

	previous, err := ctx.Composer.CurrentTopology()
	if err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}
	if err := ctx.Composer.Compose(a.Settings.Target); err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}

	a.slot = ctx.NextSlot(a.kind)
	ctx.SetState(a.slot, virtualScreenBridgeState{previous: previous})
	return nil
}

// Teardown restores the topology observed before setup.
func (a *VirtualScreenBridge) Teardown(ctx *execctx.Context) error {
	raw, ok := ctx.State(a.slot)
	if !ok {
		return nil
	}
	defer ctx.ClearState(a.slot)
	token := raw.(virtualScreenBridgeState)

	if err := ctx.Composer.Compose(token.previous); err != nil {
		return errs.NewTeardownFailed(string(a.id), string(a.PipelineActionID), err)
	}
	return nil
}

// Dependencies reports nothing: composition is a capability of the
// display subsystem, not an optional external tool.
func (a *VirtualScreenBridge) Dependencies(*execctx.Context) []Dependency { return nil }

var _ Action = (*VirtualScreenBridge)(nil)
