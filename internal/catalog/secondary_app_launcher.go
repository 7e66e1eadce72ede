package catalog

import (
	"time"

	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// WindowMatcher locates, among a set of observed clients, the one that
// best matches an expected caption/class (§4.6: "normalized Jaro-Winkler"
// fuzzy match). Implemented in internal/sidebus with go-edlib.
type WindowMatcher interface {
	Match(candidates []model.ClientInfo, expectedCaption string) (model.ClientInfo, bool)
}

// SecondaryAppLauncherSettings is this action's configuration record.
type SecondaryAppLauncherSettings struct {
	Command         string
	Args            []string
	ExpectedCaption string
	StabilityDelay  time.Duration
	MaxWait         time.Duration
	Matchers        []WindowLayoutPolicy
}

type secondaryAppLauncherState struct {
	pid             int
	previousValues  map[WindowLayoutPolicy]string
	previousPresent map[WindowLayoutPolicy]bool
}

// SecondaryAppLauncher spawns an auxiliary process and, once its window is
// observed, sets window-manager matchers so it occupies the non-primary
// screen.
type SecondaryAppLauncher struct {
	baseAction
	PipelineActionID model.PipelineActionId
	Settings         SecondaryAppLauncherSettings
	Matcher          WindowMatcher
}

// NewSecondaryAppLauncher constructs the action for the given instance id.
func NewSecondaryAppLauncher(id model.ActionId, paID model.PipelineActionId, settings SecondaryAppLauncherSettings, matcher WindowMatcher) *SecondaryAppLauncher {
	return &SecondaryAppLauncher{
		baseAction:       baseAction{kind: model.KindSecondaryAppLauncher, id: id},
		PipelineActionID: paID,
		Settings:         settings,
		Matcher:          matcher,
	}
}

// Setup spawns the auxiliary process, waits for its window via the
// new-window-tracking scope, and applies the configured matchers.
func (a *SecondaryAppLauncher) Setup(ctx *execctx.Context) error {
	if ctx.Supervisor == nil {
		return errs.NewNotAvailable(string(a.id), string(a.PipelineActionID), "process supervisor")
	}
	pid, err := ctx.Supervisor.Launch(a.Settings.Command, a.Settings.Args)
	if err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}

	if err := a.awaitWindow(ctx); err != nil {
		return err
	}

	previousValues, previousPresent, err := a.applyMatchers(ctx)
	if err != nil {
		return err
	}

	a.slot = ctx.NextSlot(a.kind)
	ctx.SetState(a.slot, secondaryAppLauncherState{
		pid:             pid,
		previousValues:  previousValues,
		previousPresent: previousPresent,
	})
	return nil
}

func (a *SecondaryAppLauncher) awaitWindow(ctx *execctx.Context) error {
	if ctx.Bridge == nil || a.Matcher == nil {
		return nil
	}
	scope, err := ctx.Bridge.OpenNewWindowTrackingScope()
	if err != nil {
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
	}
	defer scope.Close()

	found := make(chan model.ClientInfo, 1)
	sub := scope.Subscribe(func(client model.ClientInfo) {
		if _, ok := a.Matcher.Match([]model.ClientInfo{client}, a.Settings.ExpectedCaption); ok {
			select {
			case found <- client:
			default:
			}
		}
	})
	defer sub.Unsubscribe()

	if a.Settings.StabilityDelay > 0 {
		time.Sleep(a.Settings.StabilityDelay)
	}

	wait := a.Settings.MaxWait
	if wait <= 0 {
		wait = 5 * time.Second
	}
	select {
	case <-found:
		return nil
	case <-time.After(wait):
		return errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), errNoWindowFound)
	}
}

func (a *SecondaryAppLauncher) applyMatchers(ctx *execctx.Context) (map[WindowLayoutPolicy]string, map[WindowLayoutPolicy]bool, error) {
	previousValues := make(map[WindowLayoutPolicy]string, len(a.Settings.Matchers))
	previousPresent := make(map[WindowLayoutPolicy]bool, len(a.Settings.Matchers))
	if ctx.Bridge == nil {
		return previousValues, previousPresent, nil
	}
	for _, entry := range a.Settings.Matchers {
		value, ok := ctx.Bridge.GetSetting(entry.Section, entry.Key)
		previousValues[entry] = value
		previousPresent[entry] = ok
		if err := ctx.Bridge.SetSetting(entry.Section, entry.Key, entry.Value); err != nil {
			return nil, nil, errs.NewSetupFailed(string(a.id), string(a.PipelineActionID), err)
		}
	}
	return previousValues, previousPresent, nil
}

// Teardown kills the spawned process gracefully and restores matchers.
func (a *SecondaryAppLauncher) Teardown(ctx *execctx.Context) error {
	raw, ok := ctx.State(a.slot)
	if !ok {
		return nil
	}
	defer ctx.ClearState(a.slot)
	token := raw.(secondaryAppLauncherState)

	var firstErr error
	if ctx.Supervisor != nil && ctx.Supervisor.IsAlive(token.pid) {
		if err := ctx.Supervisor.Kill(token.pid); err != nil {
			firstErr = errs.NewTeardownFailed(string(a.id), string(a.PipelineActionID), err)
		}
	}

	if ctx.Bridge != nil {
		for entry, wasPresent := range token.previousPresent {
			if !wasPresent {
				continue
			}
			if err := ctx.Bridge.SetSetting(entry.Section, entry.Key, token.previousValues[entry]); err != nil && firstErr == nil {
				firstErr = errs.NewTeardownFailed(string(a.id), string(a.PipelineActionID), err)
			}
		}
	}
	return firstErr
}

// Dependencies reports the auxiliary command as an advisory external-tool
// prerequisite.
func (a *SecondaryAppLauncher) Dependencies(ctx *execctx.Context) []Dependency {
	return []Dependency{{
		Kind:        DependencyExternalTool,
		Description: a.Settings.Command,
		Satisfied:   ctx.Supervisor != nil,
	}}
}

var _ Action = (*SecondaryAppLauncher)(nil)

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const errNoWindowFound = sentinelError("no matching window observed within the wait window")
