package catalog

import (
	"sort"

	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/pkg/diff"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// SettingsFile reads and writes a codec-specific emulator settings file as
// a flat key/value map (the codec itself, TOML or INI, lives in
// internal/settingsfile and is injected here as this narrow interface).
type SettingsFile interface {
	Read(path string) (map[string]string, error)
	Write(path string, values map[string]string) error
}

// EmuLayoutAudioSettings is this action's configuration record: the
// desired layout/audio key-value pairs to write into the resolved
// settings file, and which codec that file is written in.
type EmuLayoutAudioSettings struct {
	Desired map[string]string
	Format  SettingsFileFormat
}

// SettingsFileFormat names which codec an emulator's settings file uses.
type SettingsFileFormat string

const (
	SettingsFormatTOML SettingsFileFormat = "toml"
	SettingsFormatINI  SettingsFileFormat = "ini"
)

type emuLayoutAudioState struct {
	path     string
	snapshot map[string]string
}

// EmuLayoutAudio reads an emulator's settings file (resolved by a sibling
// EmuSettingsSource earlier in the same toplevel) and writes the desired
// layout/audio values, restoring the full prior snapshot on teardown.
type EmuLayoutAudio struct {
	baseAction
	PipelineActionID model.PipelineActionId
	Settings         EmuLayoutAudioSettings
	File             SettingsFile
	DiffLogger       func(unifiedDiff string)
}

// NewEmuLayoutAudio constructs the action for the given instance id.
func NewEmuLayoutAudio(id model.ActionId, paID model.PipelineActionId, settings EmuLayoutAudioSettings, file SettingsFile) *EmuLayoutAudio {
	return &EmuLayoutAudio{
		baseAction:       baseAction{kind: model.KindEmuLayoutAudio, id: id},
		PipelineActionID: paID,
		Settings:         settings,
		File:             file,
	}
}

// Setup reads the settings file resolved by EmuSettingsSource, snapshots
// it, and writes the desired values.
func (a *EmuLayoutAudio) Setup(ctx *execctx.Context) error {
	path, err := a.resolvedPath(ctx)
	if err != nil {
		return err
	}
	if a.File == nil {
		return errs.NewNotAvailable(string(a.id), string(a.PipelineActionID), "settings file codec")
	}

	snapshot, err := a.File.Read(path)
	if err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}

	merged := make(map[string]string, len(snapshot)+len(a.Settings.Desired))
	for k, v := range snapshot {
		merged[k] = v
	}
	for k, v := range a.Settings.Desired {
		merged[k] = v
	}

	if err := a.File.Write(path, merged); err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}

	a.slot = ctx.NextSlot(a.kind)
	ctx.SetState(a.slot, emuLayoutAudioState{path: path, snapshot: snapshot})
	return nil
}

// Teardown rewrites the prior snapshot. When DiffLogger is set, it first
// hands DiffLogger a unified diff between the restored snapshot and the
// just-observed file (§11.8); with DiffLogger nil no diff is produced.
func (a *EmuLayoutAudio) Teardown(ctx *execctx.Context) error {
	raw, ok := ctx.State(a.slot)
	if !ok {
		return nil
	}
	defer ctx.ClearState(a.slot)
	token := raw.(emuLayoutAudioState)

	if a.DiffLogger != nil {
		if before, err := a.File.Read(token.path); err == nil {
			unified := diff.GenerateUnifiedDiff(
				flattenSettings(token.snapshot),
				flattenSettings(before),
				"restored",
				"observed",
			)
			if unified != "" {
				a.DiffLogger(unified)
			}
		}
	}

	if err := a.File.Write(token.path, token.snapshot); err != nil {
		return errs.NewTeardownFailed(string(a.id), string(a.PipelineActionID), err)
	}
	return nil
}

// Dependencies reports the settings file as a prerequisite, resolved via
// the sibling EmuSettingsSource's published path.
func (a *EmuLayoutAudio) Dependencies(ctx *execctx.Context) []Dependency {
	path, err := a.resolvedPath(ctx)
	if err != nil {
		return []Dependency{{Kind: DependencySettings, Description: "emulator settings file", Satisfied: false}}
	}
	return []Dependency{{Kind: DependencySettings, Description: path, Satisfied: true}}
}

func (a *EmuLayoutAudio) resolvedPath(ctx *execctx.Context) (string, error) {
	raw, ok := ctx.StateByKind(model.KindEmuSettingsSource)
	if !ok {
		return "", errs.NewDependencyMissing(string(a.id), string(a.PipelineActionID), "emu_settings_source")
	}
	published, ok := raw.(EmuSettingsSourcePath)
	if !ok {
		return "", errs.NewDependencyMissing(string(a.id), string(a.PipelineActionID), "emu_settings_source")
	}
	return published.Path, nil
}

func flattenSettings(values map[string]string) []byte {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []byte
	for _, k := range keys {
		out = append(out, k...)
		out = append(out, '=')
		out = append(out, values[k]...)
		out = append(out, '\n')
	}
	return out
}

var _ Action = (*EmuLayoutAudio)(nil)
