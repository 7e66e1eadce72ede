package catalog

import (
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// desktopSessionState is the teardown token for DesktopSessionHandler:
// the external output's id and mode as observed just before the overlay
// UI was spawned (§4.1 table).
type desktopSessionState struct {
	previousOutputID string
	previousMode     string
}

// DesktopSessionHandler spawns the session overlay UI and records the
// external output's current id+mode so a sibling display-config action can
// be reasoned about against a known baseline.
type DesktopSessionHandler struct {
	baseAction
	PipelineActionID model.PipelineActionId
	OverlayUI        OverlaySpawner
}

// OverlaySpawner spawns and signals the session overlay UI process.
type OverlaySpawner interface {
	Spawn() error
	Close() error
}

// NewDesktopSessionHandler constructs the action for the given instance id.
func NewDesktopSessionHandler(id model.ActionId, paID model.PipelineActionId, overlay OverlaySpawner) *DesktopSessionHandler {
	return &DesktopSessionHandler{
		baseAction:       baseAction{kind: model.KindDesktopSessionHandler, id: id},
		PipelineActionID: paID,
		OverlayUI:        overlay,
	}
}

// Setup spawns the overlay UI and snapshots the current external output.
func (a *DesktopSessionHandler) Setup(ctx *execctx.Context) error {
	if ctx.Display == nil {
		return errs.NewNotAvailable(string(a.id), string(a.PipelineActionID), "display controller")
	}

	outputID, mode, _, _ := ctx.Display.CurrentExternalOutput()

	if a.OverlayUI != nil {
		if err := a.OverlayUI.Spawn(); err != nil {
			return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
		}
	}

	a.slot = ctx.NextSlot(a.kind)
	ctx.SetState(a.slot, desktopSessionState{previousOutputID: outputID, previousMode: mode})
	return nil
}

// Teardown closes the overlay UI. Display restoration is left to
// display-config (§4.1 table: "UI close signal only").
func (a *DesktopSessionHandler) Teardown(ctx *execctx.Context) error {
	token, ok := ctx.State(a.slot)
	if !ok {
		return nil
	}
	defer ctx.ClearState(a.slot)
	_ = token.(desktopSessionState)

	if a.OverlayUI != nil {
		if err := a.OverlayUI.Close(); err != nil {
			return errs.NewTeardownFailed(string(a.id), string(a.PipelineActionID), err)
		}
	}
	return nil
}

// Dependencies reports nothing: the overlay UI is bundled with the binary.
func (a *DesktopSessionHandler) Dependencies(*execctx.Context) []Dependency { return nil }

var _ Action = (*DesktopSessionHandler)(nil)
