package catalog

import (
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// SourceKind enumerates where an emulator's settings file can live.
type SourceKind string

const (
	SourceFlatpak  SourceKind = "flatpak"
	SourceAppImage SourceKind = "appimage"
	SourceEmuDeck  SourceKind = "emudeck"
	SourceCustom   SourceKind = "custom"
)

// EmuSettingsSourceSettings is this action's configuration record.
type EmuSettingsSourceSettings struct {
	Kind       SourceKind
	CustomPath string
}

// PathResolver resolves one SourceKind to an absolute settings-file path.
type PathResolver interface {
	Resolve(kind SourceKind, custom string) (string, error)
}

// EmuSettingsSourcePath is the typed contract between EmuSettingsSource and
// any downstream per-emulator settings-editing action (§4.1, "State
// locality" exception).
type EmuSettingsSourcePath struct {
	Path string
}

// EmuSettingsSource resolves an emulator's settings-file path and
// publishes it into context for downstream settings-editing actions.
type EmuSettingsSource struct {
	baseAction
	noopTeardown
	PipelineActionID model.PipelineActionId
	Settings         EmuSettingsSourceSettings
	Resolver         PathResolver
}

// NewEmuSettingsSource constructs the action for the given instance id.
func NewEmuSettingsSource(id model.ActionId, paID model.PipelineActionId, settings EmuSettingsSourceSettings, resolver PathResolver) *EmuSettingsSource {
	return &EmuSettingsSource{
		baseAction:       baseAction{kind: model.KindEmuSettingsSource, id: id},
		PipelineActionID: paID,
		Settings:         settings,
		Resolver:         resolver,
	}
}

// Setup resolves the configured source and publishes the resulting path.
func (a *EmuSettingsSource) Setup(ctx *execctx.Context) error {
	if a.Resolver == nil {
		return errs.NewNotAvailable(string(a.id), string(a.PipelineActionID), "settings path resolver")
	}
	path, err := a.Resolver.Resolve(a.Settings.Kind, a.Settings.CustomPath)
	if err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}

	a.slot = ctx.NextSlot(a.kind)
	ctx.SetState(a.slot, EmuSettingsSourcePath{Path: path})
	return nil
}

// Dependencies reports the resolved path as an advisory filesystem
// prerequisite once it has been computed; before setup it is unknown and
// reported unsatisfied rather than guessed.
func (a *EmuSettingsSource) Dependencies(ctx *execctx.Context) []Dependency {
	if token, ok := ctx.State(a.slot); ok {
		if path, ok := token.(EmuSettingsSourcePath); ok {
			return []Dependency{{Kind: DependencyPath, Description: path.Path, Satisfied: true}}
		}
	}
	return []Dependency{{Kind: DependencyPath, Description: "emulator settings file", Satisfied: false}}
}

var _ Action = (*EmuSettingsSource)(nil)
