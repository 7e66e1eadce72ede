// Package assembly decodes a kind-specific action row (internal/store's
// opaque ActionRecord payload) into the concrete catalog.Action it names,
// wiring in the host-facing collaborators (overlay spawner, settings-file
// codecs, window matcher, path resolver, controller-layout store,
// touch-matrix recompute) every action kind needs at runtime; the
// window-manager bridge and process supervisor are not wired here but
// reach each action through execctx.Context at run time. It is the
// one place that knows the full closed set of action kinds (§3, "a tagged
// union over a closed catalog of kinds").
package assembly

import (
	"encoding/json"
	"fmt"

	"github.com/duoscreen/orchestrator/internal/catalog"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/settingsfile"
	"github.com/duoscreen/orchestrator/internal/store"
)

// Deps bundles every collaborator a catalog action may need at
// construction time. A nil field is valid and never makes assembly fail:
// a nil PathResolver or ControllerLayout makes the affected action report
// itself unavailable at Setup, while a nil Overlay, Matcher or Recompute
// makes the affected action skip that step.
type Deps struct {
	Overlay          catalog.OverlaySpawner
	PathResolver     catalog.PathResolver
	ControllerLayout catalog.ControllerLayoutStore
	Matcher          catalog.WindowMatcher
	Recompute        func([]model.ScreenInfo) [6]float64
}

// Build decodes record.Payload per record.Dtype and returns the
// corresponding catalog.Action, ready for the executor to run against
// paID's pipeline-action slot.
func Build(record store.ActionRecord, paID model.PipelineActionId, deps Deps) (catalog.Action, error) {
	switch record.Dtype {
	case model.KindDesktopSessionHandler:
		return catalog.NewDesktopSessionHandler(record.ID, paID, deps.Overlay), nil

	case model.KindDisplayConfig:
		var settings catalog.DisplayConfigSettings
		if err := unmarshal(record, &settings); err != nil {
			return nil, err
		}
		return catalog.NewDisplayConfig(record.ID, paID, settings), nil

	case model.KindTouchConfig:
		var settings catalog.TouchConfigSettings
		if err := unmarshal(record, &settings); err != nil {
			return nil, err
		}
		return catalog.NewTouchConfig(record.ID, paID, settings, deps.Recompute), nil

	case model.KindMultiWindowManager:
		var settings catalog.MultiWindowManagerSettings
		if err := unmarshal(record, &settings); err != nil {
			return nil, err
		}
		return catalog.NewMultiWindowManager(record.ID, paID, settings), nil

	case model.KindVirtualScreenBridge:
		var settings catalog.VirtualScreenBridgeSettings
		if err := unmarshal(record, &settings); err != nil {
			return nil, err
		}
		return catalog.NewVirtualScreenBridge(record.ID, paID, settings), nil

	case model.KindEmuSettingsSource:
		var settings catalog.EmuSettingsSourceSettings
		if err := unmarshal(record, &settings); err != nil {
			return nil, err
		}
		return catalog.NewEmuSettingsSource(record.ID, paID, settings, deps.PathResolver), nil

	case model.KindEmuLayoutAudio:
		var settings catalog.EmuLayoutAudioSettings
		if err := unmarshal(record, &settings); err != nil {
			return nil, err
		}
		return catalog.NewEmuLayoutAudio(record.ID, paID, settings, codecFor(settings.Format)), nil

	case model.KindSecondaryAppLauncher:
		var settings catalog.SecondaryAppLauncherSettings
		if err := unmarshal(record, &settings); err != nil {
			return nil, err
		}
		return catalog.NewSecondaryAppLauncher(record.ID, paID, settings, deps.Matcher), nil

	case model.KindMainAppAutoWindowing:
		var settings catalog.MainAppAutoWindowingSettings
		if err := unmarshal(record, &settings); err != nil {
			return nil, err
		}
		return catalog.NewMainAppAutoWindowing(record.ID, paID, settings), nil

	case model.KindDesktopControllerOverride:
		var settings catalog.DesktopControllerLayoutOverrideSettings
		if err := unmarshal(record, &settings); err != nil {
			return nil, err
		}
		return catalog.NewDesktopControllerLayoutOverride(record.ID, paID, settings, deps.ControllerLayout), nil

	default:
		return nil, fmt.Errorf("assembly: unknown action kind %q", record.Dtype)
	}
}

func unmarshal(record store.ActionRecord, dst interface{}) error {
	if len(record.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(record.Payload, dst); err != nil {
		return fmt.Errorf("assembly: decode %s row %s: %w", record.Dtype, record.ID, err)
	}
	return nil
}

func codecFor(format catalog.SettingsFileFormat) catalog.SettingsFile {
	switch format {
	case catalog.SettingsFormatINI:
		return settingsfile.INICodec{}
	default:
		return settingsfile.TOMLCodec{}
	}
}
