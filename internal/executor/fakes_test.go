package executor

import (
	"time"

	"github.com/duoscreen/orchestrator/internal/catalog"
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
)

// fakeAction is a hand-rolled catalog.Action recording setup/teardown order.
type fakeAction struct {
	id   model.ActionId
	kind model.ActionKind

	log          *[]string
	failSetup    bool
	failTeardown bool
	deps         []catalog.Dependency

	// setupHook, when set, runs after the setup log line is recorded and
	// before failSetup is checked; it lets a test commit context state the
	// way a real action's Setup would (e.g. a settings-source action
	// publishing a resolved path a Versioned matcher later reads).
	setupHook func(ctx *execctx.Context)
}

func (a *fakeAction) Kind() model.ActionKind { return a.kind }
func (a *fakeAction) ID() model.ActionId     { return a.id }

func (a *fakeAction) Setup(ctx *execctx.Context) error {
	*a.log = append(*a.log, "setup:"+string(a.id))
	if a.setupHook != nil {
		a.setupHook(ctx)
	}
	if a.failSetup {
		return errFakeSetup
	}
	return nil
}

func (a *fakeAction) Teardown(ctx *execctx.Context) error {
	*a.log = append(*a.log, "teardown:"+string(a.id))
	if a.failTeardown {
		return errFakeTeardown
	}
	return nil
}

func (a *fakeAction) Dependencies(ctx *execctx.Context) []catalog.Dependency {
	return a.deps
}

var _ catalog.Action = (*fakeAction)(nil)

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

const (
	errFakeSetup    = sentinelErr("fake setup failure")
	errFakeTeardown = sentinelErr("fake teardown failure")
)

// fakeSupervisor is a minimal ProcessSupervisor for Phase D tests.
type fakeSupervisor struct {
	findPid    int
	findErr    error
	waitCalled bool
	waitErr    error
}

func (f *fakeSupervisor) Launch(command string, args []string) (int, error) { return 0, nil }

func (f *fakeSupervisor) Find(timeout time.Duration) (int, error) {
	return f.findPid, f.findErr
}

func (f *fakeSupervisor) IsAlive(pid int) bool { return true }

func (f *fakeSupervisor) Kill(pid int) error { return nil }

func (f *fakeSupervisor) Wait(pid int) error {
	f.waitCalled = true
	return f.waitErr
}

var _ execctx.ProcessSupervisor = (*fakeSupervisor)(nil)
