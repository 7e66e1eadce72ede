package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisplayConfigAppliesModeAndLocation(t *testing.T) {
	display := &fakeDisplayController{}
	ctx := newTestContext(display, nil, nil)

	action := NewDisplayConfig("action-1", "desktop:display:config", DisplayConfigSettings{
		ExternalMode: "1920x1080", DeckLocation: "left", Primary: true,
	})
	require.NoError(t, action.Setup(ctx))

	require.Len(t, display.setModeCalls, 1)
	require.Equal(t, "1920x1080", display.setModeCalls[0].mode)
	require.True(t, display.setModeCalls[0].primary)
	require.Equal(t, []string{"left"}, display.setLocationCalls)
}

func TestDisplayConfigTeardownRestoresPriorModeAndLocation(t *testing.T) {
	display := &fakeDisplayController{
		outputID: "HDMI-1", mode: "native", primary: false, outputKnown: true,
		location: "right", locationKnown: true,
	}
	ctx := newTestContext(display, nil, nil)

	action := NewDisplayConfig("action-1", "desktop:display:config", DisplayConfigSettings{
		ExternalMode: "1920x1080", DeckLocation: "left", Primary: true,
	})
	require.NoError(t, action.Setup(ctx))
	require.NoError(t, action.Teardown(ctx))

	last := display.setModeCalls[len(display.setModeCalls)-1]
	require.Equal(t, "native", last.mode)
	require.False(t, last.primary)
	require.Equal(t, "right", display.setLocationCalls[len(display.setLocationCalls)-1])
}

func TestDisplayConfigTeardownFallsBackToNativeWhenPriorModeUnknown(t *testing.T) {
	display := &fakeDisplayController{outputKnown: false}
	ctx := newTestContext(display, nil, nil)

	action := NewDisplayConfig("action-1", "desktop:display:config", DisplayConfigSettings{
		ExternalMode: "1920x1080", DeckLocation: "left", Primary: true,
	})
	require.NoError(t, action.Setup(ctx))
	require.NoError(t, action.Teardown(ctx))

	last := display.setModeCalls[len(display.setModeCalls)-1]
	require.Equal(t, nativeModePolicy, last.mode)
}
