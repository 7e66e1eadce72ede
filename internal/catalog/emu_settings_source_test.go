package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmuSettingsSourcePublishesResolvedPath(t *testing.T) {
	ctx := newTestContext(nil, nil, nil)
	resolver := &fakeResolver{path: "/home/deck/.var/app/retroarch/config/retroarch.cfg"}

	action := NewEmuSettingsSource("action-1", "toplevel:retroarch:source", EmuSettingsSourceSettings{
		Kind: SourceFlatpak,
	}, resolver)
	require.NoError(t, action.Setup(ctx))

	deps := action.Dependencies(ctx)
	require.Len(t, deps, 1)
	require.True(t, deps[0].Satisfied)
	require.Equal(t, resolver.path, deps[0].Description)
}

func TestEmuSettingsSourceReportsUnsatisfiedBeforeSetup(t *testing.T) {
	ctx := newTestContext(nil, nil, nil)
	action := NewEmuSettingsSource("action-1", "toplevel:retroarch:source", EmuSettingsSourceSettings{}, &fakeResolver{})

	deps := action.Dependencies(ctx)
	require.Len(t, deps, 1)
	require.False(t, deps[0].Satisfied)
}

func TestEmuSettingsSourceSetupFailsWithoutResolver(t *testing.T) {
	ctx := newTestContext(nil, nil, nil)
	action := NewEmuSettingsSource("action-1", "toplevel:retroarch:source", EmuSettingsSourceSettings{}, nil)
	require.Error(t, action.Setup(ctx))
}
