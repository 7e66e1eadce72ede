package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/duoscreen/orchestrator/internal/model"
)

func TestSecondaryAppLauncherLaunchesAndAppliesMatchersOnceWindowFound(t *testing.T) {
	bridge := newFakeBridge()
	bridge.settings[settingKey("wm", "match")] = "old"
	supervisor := newFakeSupervisor()
	ctx := newTestContext(nil, bridge, supervisor)

	action := NewSecondaryAppLauncher("action-1", "toplevel:emu:secondary", SecondaryAppLauncherSettings{
		Command:         "retroarch",
		ExpectedCaption: "RetroArch",
		MaxWait:         200 * time.Millisecond,
		Matchers:        []WindowLayoutPolicy{{Section: "wm", Key: "match", Value: "new"}},
	}, fakeMatcher{})

	done := make(chan error, 1)
	go func() { done <- action.Setup(ctx) }()

	time.Sleep(20 * time.Millisecond)
	bridge.newWindowScope.publish(model.ClientInfo{Caption: "RetroArch"})

	require.NoError(t, <-done)
	require.Equal(t, "new", bridge.settings[settingKey("wm", "match")])
	require.Len(t, supervisor.launchCalls, 1)
}

func TestSecondaryAppLauncherSetupTimesOutWithoutMatchingWindow(t *testing.T) {
	bridge := newFakeBridge()
	supervisor := newFakeSupervisor()
	ctx := newTestContext(nil, bridge, supervisor)

	action := NewSecondaryAppLauncher("action-1", "toplevel:emu:secondary", SecondaryAppLauncherSettings{
		Command:         "retroarch",
		ExpectedCaption: "RetroArch",
		MaxWait:         30 * time.Millisecond,
	}, fakeMatcher{})

	require.Error(t, action.Setup(ctx))
}

func TestSecondaryAppLauncherTeardownKillsProcessAndRestoresMatchers(t *testing.T) {
	bridge := newFakeBridge()
	bridge.settings[settingKey("wm", "match")] = "old"
	supervisor := newFakeSupervisor()
	ctx := newTestContext(nil, bridge, supervisor)

	action := NewSecondaryAppLauncher("action-1", "toplevel:emu:secondary", SecondaryAppLauncherSettings{
		Command:         "retroarch",
		ExpectedCaption: "RetroArch",
		MaxWait:         200 * time.Millisecond,
		Matchers:        []WindowLayoutPolicy{{Section: "wm", Key: "match", Value: "new"}},
	}, fakeMatcher{})

	done := make(chan error, 1)
	go func() { done <- action.Setup(ctx) }()
	time.Sleep(20 * time.Millisecond)
	bridge.newWindowScope.publish(model.ClientInfo{Caption: "RetroArch"})
	require.NoError(t, <-done)

	require.NoError(t, action.Teardown(ctx))
	require.Equal(t, "old", bridge.settings[settingKey("wm", "match")])
	require.Len(t, supervisor.killCalls, 1)

	_, ok := ctx.State(action.slot)
	require.False(t, ok)
}

func TestSecondaryAppLauncherRequiresSupervisor(t *testing.T) {
	ctx := newTestContext(nil, newFakeBridge(), nil)
	action := NewSecondaryAppLauncher("action-1", "toplevel:emu:secondary", SecondaryAppLauncherSettings{Command: "retroarch"}, fakeMatcher{})
	require.Error(t, action.Setup(ctx))
}
