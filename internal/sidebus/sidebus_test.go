package sidebus

import (
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/require"
)

func TestConfigKeyJoinsSectionAndKey(t *testing.T) {
	require.Equal(t, "general.layout", configKey("general", "layout"))
	require.Equal(t, "layout", configKey("", "layout"))
}

func TestScriptObjectPathIncludesID(t *testing.T) {
	require.Equal(t, dbus.ObjectPath("/Scripting/Script7"), scriptObjectPath(7))
}

func TestRenderScopeScriptSubstitutesTokenAndCleansUp(t *testing.T) {
	path, cleanup, err := renderScopeScript(screenTrackingScriptTemplate, "duoscreen-screen", "token-123")
	require.NoError(t, err)
	defer cleanup()

	require.True(t, strings.HasSuffix(path, ".js"))
	require.NotContains(t, readFile(t, path), "__TOKEN__")
	require.Contains(t, readFile(t, path), "token-123")
}

func TestRenderScopeScriptForNewWindowTemplate(t *testing.T) {
	path, cleanup, err := renderScopeScript(newWindowTrackingScriptTemplate, "duoscreen-window", "abc")
	require.NoError(t, err)
	defer cleanup()

	require.Contains(t, readFile(t, path), "net.duoscreen.sidebus.abc")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := readRawFile(path)
	require.NoError(t, err)
	return data
}
