package catalog

import (
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// MainAppAutoWindowingSettings configures the window policy applied to the
// main application's window once it is observed after launch.
type MainAppAutoWindowingSettings struct {
	ScriptName string
	Policy     []WindowLayoutPolicy
}

// MainAppAutoWindowing defers applying a multi-window policy until the main
// application's process is actually running, since the main app (unlike a
// secondary app) is launched by the platform rather than by this run.
type MainAppAutoWindowing struct {
	baseAction
	PipelineActionID model.PipelineActionId
	Settings         MainAppAutoWindowingSettings
}

// NewMainAppAutoWindowing constructs the action for the given instance id.
func NewMainAppAutoWindowing(id model.ActionId, paID model.PipelineActionId, settings MainAppAutoWindowingSettings) *MainAppAutoWindowing {
	return &MainAppAutoWindowing{
		baseAction:       baseAction{kind: model.KindMainAppAutoWindowing, id: id},
		PipelineActionID: paID,
		Settings:         settings,
	}
}

// Setup registers an on-launch callback (G3) that installs a
// MultiWindowManager for the main app's window once the supervisor reports
// a live pid. The held action becomes this action's teardown token so
// teardown can delegate to it symmetrically.
func (a *MainAppAutoWindowing) Setup(ctx *execctx.Context) error {
	ctx.RegisterCallback(func(pid int, runCtx *execctx.Context) error {
		held := NewMultiWindowManager(a.id, a.PipelineActionID, MultiWindowManagerSettings{
			ScriptName: a.Settings.ScriptName,
			Policy:     a.Settings.Policy,
		})
		if err := held.Setup(runCtx); err != nil {
			return err
		}
		a.slot = runCtx.NextSlot(a.kind)
		runCtx.SetState(a.slot, held)
		return nil
	})
	return nil
}

// Teardown runs the held MultiWindowManager's teardown if the on-launch
// callback installed one; if the main app never launched, there is nothing
// to undo.
func (a *MainAppAutoWindowing) Teardown(ctx *execctx.Context) error {
	raw, ok := ctx.State(a.slot)
	if !ok {
		return nil
	}
	defer ctx.ClearState(a.slot)
	held, ok := raw.(*MultiWindowManager)
	if !ok {
		return errs.NewTeardownFailed(string(a.id), string(a.PipelineActionID), errHeldActionWrongType)
	}
	return held.Teardown(ctx)
}

// Dependencies reports the same script prerequisite the held action would.
func (a *MainAppAutoWindowing) Dependencies(ctx *execctx.Context) []Dependency {
	return []Dependency{{
		Kind:        DependencyScript,
		Description: "window manager layout script: " + a.Settings.ScriptName,
		Satisfied:   ctx.Bridge != nil,
	}}
}

var _ Action = (*MainAppAutoWindowing)(nil)

const errHeldActionWrongType = sentinelError("held multi-window action token has unexpected type")
