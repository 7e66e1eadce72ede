// Package sidebus implements the side-channel bus (C7, §4.6): injected
// window-manager scripts publish screen and window state as dbus signals
// on a private, per-scope bus interface named after a freshly generated
// token, isolating concurrent scopes. Bridge additionally satisfies the
// read/write-config and enable/disable-script halves of
// execctx.WindowManagerBridge, since both are reached through the same
// session-bus connection to the window manager's scripting interface.
package sidebus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/hashicorp/go-uuid"

	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/settingsfile"
)

const (
	scriptingDest = "org.kde.KWin"
	scriptingPath = dbus.ObjectPath("/Scripting")
	scriptingIface = "org.kde.kwin.Scripting"
)

// Bridge is the dbus-backed execctx.WindowManagerBridge implementation.
// Config reads/writes go through an INI-coded settings file (the window
// manager's own rc file); script load/unload and the two tracking scopes
// go through the session bus.
type Bridge struct {
	conn       *dbus.Conn
	configPath string
	scriptDir  string
	config     settingsfile.INICodec
	loaded     map[string]int32
}

// NewBridge connects to the session bus and returns a Bridge whose
// GetSetting/SetSetting calls read and write configPath (the window
// manager's rc file) and whose EnableScript/DisableScript calls load
// already-installed auxiliary scripts from scriptDir (installing those
// scripts is out of scope here; see §13).
func NewBridge(configPath, scriptDir string) (*Bridge, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("sidebus: connect to session bus: %w", err)
	}
	return &Bridge{
		conn:       conn,
		configPath: configPath,
		scriptDir:  scriptDir,
		loaded:     make(map[string]int32),
	}, nil
}

// GetSetting reads a single key from the window manager's config file.
func (b *Bridge) GetSetting(section, key string) (string, bool) {
	values, err := b.config.Read(b.configPath)
	if err != nil {
		return "", false
	}
	v, ok := values[configKey(section, key)]
	return v, ok
}

// SetSetting writes a single key into the window manager's config file,
// preserving every other key already present (read-modify-write).
func (b *Bridge) SetSetting(section, key, value string) error {
	values, err := b.config.Read(b.configPath)
	if err != nil {
		return fmt.Errorf("sidebus: read config: %w", err)
	}
	values[configKey(section, key)] = value
	return b.config.Write(b.configPath, values)
}

func configKey(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}

// EnableScript loads and runs a window-manager script by plugin name via
// the scripting dbus interface, recording its assigned script id so
// DisableScript can unload the same instance.
func (b *Bridge) EnableScript(name string) error {
	if _, ok := b.loaded[name]; ok {
		return nil
	}
	path := b.scriptDir + "/" + name + ".js"

	id, err := b.loadScriptFile(path, name)
	if err != nil {
		return err
	}
	b.loaded[name] = id
	return nil
}

// DisableScript stops and unloads a previously enabled script. Unknown or
// already-disabled names are a no-op (§4.1 idempotent teardown).
func (b *Bridge) DisableScript(name string) error {
	id, ok := b.loaded[name]
	if !ok {
		return nil
	}
	delete(b.loaded, name)
	return b.unloadScriptID(id)
}

// loadScriptFile loads and runs a script file via the scripting dbus
// interface, shared by EnableScript and the two tracking scopes (whose
// scripts are rendered to a temp file rather than drawn from scriptDir).
func (b *Bridge) loadScriptFile(path, pluginName string) (int32, error) {
	var id int32
	obj := b.conn.Object(scriptingDest, scriptingPath)
	if err := obj.Call(scriptingIface+".loadScript", 0, path, pluginName).Store(&id); err != nil {
		return 0, fmt.Errorf("sidebus: load script %s: %w", pluginName, err)
	}

	scriptObj := b.conn.Object(scriptingDest, scriptObjectPath(id))
	if call := scriptObj.Call("org.kde.kwin.Script.run", 0); call.Err != nil {
		return 0, fmt.Errorf("sidebus: run script %s: %w", pluginName, call.Err)
	}
	return id, nil
}

// unloadScriptID stops and unloads a previously loaded script by its
// assigned id, shared by DisableScript and the two tracking scopes.
func (b *Bridge) unloadScriptID(id int32) error {
	scriptObj := b.conn.Object(scriptingDest, scriptObjectPath(id))
	if call := scriptObj.Call("org.kde.kwin.Script.stop", 0); call.Err != nil {
		return fmt.Errorf("sidebus: stop script: %w", call.Err)
	}
	return nil
}

func scriptObjectPath(id int32) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf("/Scripting/Script%d", id))
}

// OpenScreenTrackingScope injects the screen-tracking script under a fresh
// token and returns the scope that dispatches its signals.
func (b *Bridge) OpenScreenTrackingScope() (execctx.ScreenTrackingScope, error) {
	token, err := uuid.GenerateUUID()
	if err != nil {
		return nil, fmt.Errorf("sidebus: generate scope token: %w", err)
	}
	return newScreenScope(b, token)
}

// OpenNewWindowTrackingScope injects the new-window-tracking script under
// a fresh token and returns the scope that dispatches its signals.
func (b *Bridge) OpenNewWindowTrackingScope() (execctx.NewWindowTrackingScope, error) {
	token, err := uuid.GenerateUUID()
	if err != nil {
		return nil, fmt.Errorf("sidebus: generate scope token: %w", err)
	}
	return newWindowScope(b, token)
}

var _ execctx.WindowManagerBridge = (*Bridge)(nil)
