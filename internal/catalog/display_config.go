package catalog

import (
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// nativeModePolicy is the fallback mode used when the previous external
// mode could not be determined (§4.1 table: "if previous mode unknown fall
// back to 'native' policy").
const nativeModePolicy = "native"

// DisplayConfigSettings is this action's configuration record (§3: every
// action kind carries its own configuration record plus an ActionId).
type DisplayConfigSettings struct {
	ExternalMode string
	DeckLocation string
	Primary      bool
}

type displayConfigState struct {
	previousExternalMode string
	previousDeckLocation string
	previousPrimary      bool
	previousModeKnown    bool
}

// DisplayConfig changes the external output's mode, the deck panel's
// location relative to it, and which output is primary.
type DisplayConfig struct {
	baseAction
	PipelineActionID model.PipelineActionId
	Settings         DisplayConfigSettings
}

// NewDisplayConfig constructs the action for the given instance id.
func NewDisplayConfig(id model.ActionId, paID model.PipelineActionId, settings DisplayConfigSettings) *DisplayConfig {
	return &DisplayConfig{
		baseAction:       baseAction{kind: model.KindDisplayConfig, id: id},
		PipelineActionID: paID,
		Settings:         settings,
	}
}

// Setup records the current mode/location/primary flag, then applies the
// configured values.
func (a *DisplayConfig) Setup(ctx *execctx.Context) error {
	if ctx.Display == nil {
		return errs.NewNotAvailable(string(a.id), string(a.PipelineActionID), "display controller")
	}

	outputID, mode, primary, modeKnown := ctx.Display.CurrentExternalOutput()
	previousLocation, _ := ctx.Display.CurrentDeckLocation()

	if err := ctx.Display.SetExternalMode(outputID, a.Settings.ExternalMode, a.Settings.Primary); err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}
	if err := ctx.Display.SetDeckLocation(a.Settings.DeckLocation); err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}

	a.slot = ctx.NextSlot(a.kind)
	ctx.SetState(a.slot, displayConfigState{
		previousExternalMode: mode,
		previousDeckLocation: previousLocation,
		previousPrimary:      primary,
		previousModeKnown:    modeKnown,
	})
	return nil
}

// Teardown restores the previous mode, falling back to the native policy
// when the previous mode was never known.
func (a *DisplayConfig) Teardown(ctx *execctx.Context) error {
	raw, ok := ctx.State(a.slot)
	if !ok {
		return nil
	}
	defer ctx.ClearState(a.slot)
	token := raw.(displayConfigState)

	mode := token.previousExternalMode
	if !token.previousModeKnown {
		mode = nativeModePolicy
	}

	outputID, _, _, _ := ctx.Display.CurrentExternalOutput()
	if err := ctx.Display.SetExternalMode(outputID, mode, token.previousPrimary); err != nil {
		return errs.NewTeardownFailed(string(a.id), string(a.PipelineActionID), err)
	}
	if err := ctx.Display.SetDeckLocation(token.previousDeckLocation); err != nil {
		return errs.NewTeardownFailed(string(a.id), string(a.PipelineActionID), err)
	}
	return nil
}

// Dependencies reports nothing: display configuration has no external
// prerequisites beyond the display controller itself.
func (a *DisplayConfig) Dependencies(*execctx.Context) []Dependency { return nil }

var _ Action = (*DisplayConfig)(nil)
