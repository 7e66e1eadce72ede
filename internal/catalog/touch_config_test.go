package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duoscreen/orchestrator/internal/model"
)

func TestTouchConfigAppliesMatrixAndRecomputesOnScreenChange(t *testing.T) {
	display := &fakeDisplayController{}
	bridge := newFakeBridge()
	ctx := newTestContext(display, bridge, nil)

	recomputed := [6]float64{9, 9, 9, 9, 9, 9}
	action := NewTouchConfig("action-1", "desktop:touch:config", TouchConfigSettings{
		Device: "touch0", Matrix: [6]float64{1, 0, 0, 0, 1, 0},
	}, func([]model.ScreenInfo) [6]float64 { return recomputed })

	require.NoError(t, action.Setup(ctx))
	require.Len(t, display.setMatrixCalls, 1)
	require.Equal(t, [6]float64{1, 0, 0, 0, 1, 0}, display.setMatrixCalls[0].matrix)

	bridge.screenScope.publish([]model.ScreenInfo{{Id: "s1"}})
	require.Len(t, display.setMatrixCalls, 2)
	require.Equal(t, recomputed, display.setMatrixCalls[1].matrix)
}

func TestTouchConfigTeardownUnsubscribesOnly(t *testing.T) {
	display := &fakeDisplayController{}
	bridge := newFakeBridge()
	ctx := newTestContext(display, bridge, nil)

	action := NewTouchConfig("action-1", "desktop:touch:config", TouchConfigSettings{Device: "touch0"}, nil)
	require.NoError(t, action.Setup(ctx))
	require.NoError(t, action.Teardown(ctx))

	callsBeforePublish := len(display.setMatrixCalls)
	bridge.screenScope.publish([]model.ScreenInfo{{Id: "s1"}})
	require.Equal(t, callsBeforePublish, len(display.setMatrixCalls))
}
