package model

// ActionKind is the type discriminator for one entry in the closed action
// catalog (C1, §4.1). The context state map (C5) and the reified store's
// per-kind row family are both keyed by ActionKind.
type ActionKind string

const (
	KindDesktopSessionHandler     ActionKind = "desktop_session_handler"
	KindDisplayConfig             ActionKind = "display_config"
	KindTouchConfig               ActionKind = "touch_config"
	KindMultiWindowManager        ActionKind = "multi_window_manager"
	KindVirtualScreenBridge       ActionKind = "virtual_screen_bridge"
	KindEmuSettingsSource         ActionKind = "emu_settings_source"
	KindEmuLayoutAudio            ActionKind = "emu_layout_audio"
	KindSecondaryAppLauncher      ActionKind = "secondary_app_launcher"
	KindMainAppAutoWindowing      ActionKind = "main_app_auto_windowing"
	KindDesktopControllerOverride ActionKind = "desktop_controller_layout_override"
)

// allKinds enumerates the closed catalog for validation and iteration.
var allKinds = []ActionKind{
	KindDesktopSessionHandler,
	KindDisplayConfig,
	KindTouchConfig,
	KindMultiWindowManager,
	KindVirtualScreenBridge,
	KindEmuSettingsSource,
	KindEmuLayoutAudio,
	KindSecondaryAppLauncher,
	KindMainAppAutoWindowing,
	KindDesktopControllerOverride,
}

// Valid reports whether k belongs to the closed catalog.
func (k ActionKind) Valid() bool {
	for _, candidate := range allKinds {
		if candidate == k {
			return true
		}
	}
	return false
}
