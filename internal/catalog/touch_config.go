package catalog

import (
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// TouchConfigSettings names the touch input device and the coordinate
// transform matrix to apply to it.
type TouchConfigSettings struct {
	Device string
	Matrix [6]float64
}

type touchConfigState struct {
	subscription execctx.Subscription
}

// TouchConfig applies a coordinate-transform matrix to a touch input
// device and subscribes to screen-topology updates so the matrix can be
// recomputed as outputs change.
type TouchConfig struct {
	baseAction
	PipelineActionID model.PipelineActionId
	Settings         TouchConfigSettings
	Recompute        func([]model.ScreenInfo) [6]float64
}

// NewTouchConfig constructs the action for the given instance id.
func NewTouchConfig(id model.ActionId, paID model.PipelineActionId, settings TouchConfigSettings, recompute func([]model.ScreenInfo) [6]float64) *TouchConfig {
	return &TouchConfig{
		baseAction:       baseAction{kind: model.KindTouchConfig, id: id},
		PipelineActionID: paID,
		Settings:         settings,
		Recompute:        recompute,
	}
}

// Setup applies the configured matrix and subscribes to screen-topology
// updates, storing the subscription handle as the teardown token.
func (a *TouchConfig) Setup(ctx *execctx.Context) error {
	if ctx.Display == nil {
		return errs.NewNotAvailable(string(a.id), string(a.PipelineActionID), "display controller")
	}
	if err := ctx.Display.SetTouchMatrix(a.Settings.Device, a.Settings.Matrix); err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}

	var sub execctx.Subscription
	if ctx.Bridge != nil {
		scope, err := ctx.Bridge.OpenScreenTrackingScope()
		if err != nil {
			return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
		}
		sub = scope.Subscribe(func(screens []model.ScreenInfo) {
			if a.Recompute == nil {
				return
			}
			matrix := a.Recompute(screens)
			_ = ctx.Display.SetTouchMatrix(a.Settings.Device, matrix)
		})
	}

	a.slot = ctx.NextSlot(a.kind)
	ctx.SetState(a.slot, touchConfigState{subscription: sub})
	return nil
}

// Teardown unsubscribes from screen-topology updates; matrices are left as
// last applied (§4.1 table).
func (a *TouchConfig) Teardown(ctx *execctx.Context) error {
	raw, ok := ctx.State(a.slot)
	if !ok {
		return nil
	}
	defer ctx.ClearState(a.slot)
	token := raw.(touchConfigState)
	if token.subscription != nil {
		token.subscription.Unsubscribe()
	}
	return nil
}

// Dependencies reports nothing: touch devices are discovered at runtime,
// not declared statically.
func (a *TouchConfig) Dependencies(*execctx.Context) []Dependency { return nil }

var _ Action = (*TouchConfig)(nil)
