package catalog

import (
	"fmt"

	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// ControllerLayoutStore copies a named controller layout over the active
// desktop layout and can restore from a backup copy it made earlier.
type ControllerLayoutStore interface {
	CopyLayout(sourceName, destName string) error
	BackupLayout(name, suffix string) error
	RestoreLayout(name, suffix string) error
	DeleteBackup(name, suffix string) error
}

// DesktopControllerLayoutOverrideSettings is this action's configuration
// record.
type DesktopControllerLayoutOverrideSettings struct {
	GameLayoutName    string
	DesktopLayoutName string
}

type desktopControllerOverrideState struct {
	backupSuffix string
}

// DesktopControllerLayoutOverride copies a game's controller layout over the
// desktop controller layout for the run's duration, backing up the desktop
// layout first so it can be restored exactly on teardown.
type DesktopControllerLayoutOverride struct {
	baseAction
	PipelineActionID model.PipelineActionId
	Settings         DesktopControllerLayoutOverrideSettings
	Store            ControllerLayoutStore
}

// NewDesktopControllerLayoutOverride constructs the action for the given
// instance id.
func NewDesktopControllerLayoutOverride(id model.ActionId, paID model.PipelineActionId, settings DesktopControllerLayoutOverrideSettings, store ControllerLayoutStore) *DesktopControllerLayoutOverride {
	return &DesktopControllerLayoutOverride{
		baseAction:       baseAction{kind: model.KindDesktopControllerOverride, id: id},
		PipelineActionID: paID,
		Settings:         settings,
		Store:            store,
	}
}

// Setup backs up the desktop layout under a slot-scoped suffix, then copies
// the game layout over it.
func (a *DesktopControllerLayoutOverride) Setup(ctx *execctx.Context) error {
	if a.Store == nil {
		return errs.NewNotAvailable(string(a.id), string(a.PipelineActionID), "controller layout store")
	}

	a.slot = ctx.NextSlot(a.kind)
	suffix := fmt.Sprintf("bak-%d", a.slot.Index)
	if err := a.Store.BackupLayout(a.Settings.DesktopLayoutName, suffix); err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}
	if err := a.Store.CopyLayout(a.Settings.GameLayoutName, a.Settings.DesktopLayoutName); err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}

	ctx.SetState(a.slot, desktopControllerOverrideState{backupSuffix: suffix})
	return nil
}

// Teardown restores the desktop layout from its backup and deletes the
// backup copy.
func (a *DesktopControllerLayoutOverride) Teardown(ctx *execctx.Context) error {
	raw, ok := ctx.State(a.slot)
	if !ok {
		return nil
	}
	defer ctx.ClearState(a.slot)
	token := raw.(desktopControllerOverrideState)

	if err := a.Store.RestoreLayout(a.Settings.DesktopLayoutName, token.backupSuffix); err != nil {
		return errs.NewTeardownFailed(string(a.id), string(a.PipelineActionID), err)
	}
	if err := a.Store.DeleteBackup(a.Settings.DesktopLayoutName, token.backupSuffix); err != nil {
		return errs.NewTeardownFailed(string(a.id), string(a.PipelineActionID), err)
	}
	return nil
}

// Dependencies reports the game layout as an advisory settings prerequisite.
func (a *DesktopControllerLayoutOverride) Dependencies(*execctx.Context) []Dependency {
	return []Dependency{{
		Kind:        DependencySettings,
		Description: "controller layout: " + a.Settings.GameLayoutName,
		Satisfied:   a.Store != nil,
	}}
}

var _ Action = (*DesktopControllerLayoutOverride)(nil)
