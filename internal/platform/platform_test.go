package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duoscreen/orchestrator/internal/catalog"
	"github.com/duoscreen/orchestrator/internal/model"
)

func TestEmuPathResolverCustom(t *testing.T) {
	r := &EmuPathResolver{HomeDir: "/home/deck"}
	path, err := r.Resolve(catalog.SourceCustom, "/opt/emu/settings.ini")
	require.NoError(t, err)
	require.Equal(t, "/opt/emu/settings.ini", path)
}

func TestEmuPathResolverCustomRequiresPath(t *testing.T) {
	r := &EmuPathResolver{HomeDir: "/home/deck"}
	_, err := r.Resolve(catalog.SourceCustom, "")
	require.Error(t, err)
}

func TestEmuPathResolverKnownKinds(t *testing.T) {
	r := &EmuPathResolver{HomeDir: "/home/deck"}
	for _, kind := range []catalog.SourceKind{catalog.SourceFlatpak, catalog.SourceAppImage, catalog.SourceEmuDeck} {
		path, err := r.Resolve(kind, "")
		require.NoError(t, err)
		require.NotEmpty(t, path)
	}
}

func TestFileControllerLayoutStoreBackupRestoreRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store := NewFileControllerLayoutStore(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "desktop"), []byte("desktop-layout"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game"), []byte("game-layout"), 0o644))

	require.NoError(t, store.BackupLayout("desktop", "suffix-1"))
	require.NoError(t, store.CopyLayout("game", "desktop"))

	content, err := os.ReadFile(filepath.Join(dir, "desktop"))
	require.NoError(t, err)
	require.Equal(t, "game-layout", string(content))

	require.NoError(t, store.RestoreLayout("desktop", "suffix-1"))
	content, err = os.ReadFile(filepath.Join(dir, "desktop"))
	require.NoError(t, err)
	require.Equal(t, "desktop-layout", string(content))

	require.NoError(t, store.DeleteBackup("desktop", "suffix-1"))
	require.Error(t, store.RestoreLayout("desktop", "suffix-1"))
}

func TestTouchMatrixRecomputeScalesToNamedScreen(t *testing.T) {
	recompute := NewTouchMatrixRecompute("deck")
	screens := []model.ScreenInfo{
		{Name: "deck", Enabled: true, PosX: 0, PosY: 0, Width: 1280, Height: 800},
		{Name: "external", Enabled: true, PosX: 1280, PosY: 0, Width: 1920, Height: 1080},
	}

	matrix := recompute(screens)
	require.InDelta(t, 1280.0/3200.0, matrix[0], 0.0001)
	require.Equal(t, 0.0, matrix[2])
}

func TestTouchMatrixRecomputeFallsBackWhenScreenMissing(t *testing.T) {
	recompute := NewTouchMatrixRecompute("missing")
	matrix := recompute([]model.ScreenInfo{{Name: "deck", Enabled: true, Width: 1280, Height: 800}})
	require.Equal(t, [6]float64{1, 0, 0, 0, 1, 0}, matrix)
}
