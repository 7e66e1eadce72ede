package catalog

import (
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// WindowLayoutPolicy is one (section, key) -> value pair written into the
// window manager's settings by MultiWindowManager.
type WindowLayoutPolicy struct {
	Section string
	Key     string
	Value   string
}

// MultiWindowManagerSettings is this action's configuration record.
type MultiWindowManagerSettings struct {
	ScriptName string
	Policy     []WindowLayoutPolicy
}

type multiWindowState struct {
	previousValues  map[WindowLayoutPolicy]string
	previousPresent map[WindowLayoutPolicy]bool
}

// MultiWindowManager sets a per-emulator window-layout policy in the
// window manager's settings and enables the layout script.
type MultiWindowManager struct {
	baseAction
	PipelineActionID model.PipelineActionId
	Settings         MultiWindowManagerSettings
}

// NewMultiWindowManager constructs the action for the given instance id.
func NewMultiWindowManager(id model.ActionId, paID model.PipelineActionId, settings MultiWindowManagerSettings) *MultiWindowManager {
	return &MultiWindowManager{
		baseAction:       baseAction{kind: model.KindMultiWindowManager, id: id},
		PipelineActionID: paID,
		Settings:         settings,
	}
}

// Setup snapshots the policy's current values, applies the configured
// values, and enables the layout script.
func (a *MultiWindowManager) Setup(ctx *execctx.Context) error {
	if ctx.Bridge == nil {
		return errs.NewNotAvailable(string(a.id), string(a.PipelineActionID), "window manager bridge")
	}

	previousValues := make(map[WindowLayoutPolicy]string, len(a.Settings.Policy))
	previousPresent := make(map[WindowLayoutPolicy]bool, len(a.Settings.Policy))

	for _, entry := range a.Settings.Policy {
		value, ok := ctx.Bridge.GetSetting(entry.Section, entry.Key)
		previousValues[entry] = value
		previousPresent[entry] = ok

		if err := ctx.Bridge.SetSetting(entry.Section, entry.Key, entry.Value); err != nil {
			return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
		}
	}

	if err := ctx.Bridge.EnableScript(a.Settings.ScriptName); err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}

	a.slot = ctx.NextSlot(a.kind)
	ctx.SetState(a.slot, multiWindowState{previousValues: previousValues, previousPresent: previousPresent})
	return nil
}

// Teardown writes back the pre-setup value of every policy entry that
// existed before setup and disables the script. Entries that did not exist
// before setup are not removed: they keep the value setup wrote.
func (a *MultiWindowManager) Teardown(ctx *execctx.Context) error {
	raw, ok := ctx.State(a.slot)
	if !ok {
		return nil
	}
	defer ctx.ClearState(a.slot)
	token := raw.(multiWindowState)

	for entry, wasPresent := range token.previousPresent {
		if !wasPresent {
			continue
		}
		if err := ctx.Bridge.SetSetting(entry.Section, entry.Key, token.previousValues[entry]); err != nil {
			return errs.NewTeardownFailed(string(a.id), string(a.PipelineActionID), err)
		}
	}

	if err := ctx.Bridge.DisableScript(a.Settings.ScriptName); err != nil {
		return errs.NewTeardownFailed(string(a.id), string(a.PipelineActionID), err)
	}
	return nil
}

// Dependencies reports the window-manager script as an advisory
// prerequisite.
func (a *MultiWindowManager) Dependencies(ctx *execctx.Context) []Dependency {
	satisfied := ctx.Bridge != nil
	return []Dependency{{
		Kind:        DependencyScript,
		Description: "window manager layout script: " + a.Settings.ScriptName,
		Satisfied:   satisfied,
	}}
}

var _ Action = (*MultiWindowManager)(nil)
