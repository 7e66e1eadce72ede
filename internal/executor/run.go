package executor

import (
	"context"
	"time"

	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/ports"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// Run executes Phases A through E of one pipeline run (§4.5). The caller is
// responsible for Phase D step 1's "spawn the target application via the
// external launcher" — that launch is out of scope here — Run locates the
// resulting process tree via the context's supervisor, drains on-launch
// callbacks, and blocks until it exits.
//
// findTimeout bounds how long Run waits for the launched process to appear
// before treating launch as failed; it has no bearing on Phase D step 3's
// unbounded wait for the process to exit.
//
// Log calls are best-effort; a nil logger is treated as no-op.
func Run(goCtx context.Context, log ports.Logger, plan Plan, runCtx *execctx.Context, findTimeout time.Duration) (Result, []error) {
	order := flatten(plan)

	if problems := checkDependencies(plan, order, runCtx); len(problems) > 0 {
		return Result{}, problems
	}

	result := Result{}
	executed := setup(goCtx, log, plan, runCtx, &result)

	if len(result.SetupErrors) == 0 {
		_, result.CallbackErrors = launchAndWait(goCtx, log, runCtx, findTimeout)
	}

	result.TeardownErrors = teardown(goCtx, log, plan, executed, runCtx)

	return result, nil
}

// setup runs Phase C (§4.5): a fresh depth-first walk of the tree, pushing
// each node onto the executed stack and calling Setup as it is reached.
// Unlike flatten, a Versioned node here is resolved with ResolveVersioned
// against the context state as committed at that point in the walk, so a
// subtree appearing after other setup calls sees what they published
// (§4.1: "ctx state already set by upstream actions"). Stops at the first
// failure or at the next action boundary once cancellation is requested.
func setup(goCtx context.Context, log ports.Logger, plan Plan, runCtx *execctx.Context, result *Result) []NodeKey {
	visited := make(map[NodeKey]bool)
	var executed []NodeKey
	aborted := false

	var walk func(toplevel model.TopLevelId, id model.PipelineActionId)
	walk = func(toplevel model.TopLevelId, id model.PipelineActionId) {
		if aborted || runCtx.Cancelled() || id == "" {
			aborted = aborted || runCtx.Cancelled()
			return
		}
		key := NodeKey{Toplevel: toplevel, Action: id}
		if visited[key] {
			return
		}
		visited[key] = true

		settings, ok := plan.Settings[key]
		if !ok {
			return
		}
		if settings.Pruned() {
			return
		}

		if action, hasAction := plan.Actions[key]; hasAction {
			executed = append(executed, key)
			if err := action.Setup(runCtx); err != nil {
				wrapped := errs.NewSetupFailed(string(action.ID()), string(key.Action), err)
				result.SetupErrors = append(result.SetupErrors, wrapped)
				if log != nil {
					log.Error(goCtx, "action setup failed", "action_id", action.ID(), "pipeline_action_id", key.Action, "err", err)
				}
				aborted = true
				return
			}
		}

		var children []model.PipelineActionId
		if settings.Selection.Kind == model.SelectionVersioned {
			children = []model.PipelineActionId{settings.Selection.ResolveVersioned(runCtx.StateSnapshot())}
		} else {
			children = settings.Selection.Resolve()
		}
		for _, child := range children {
			if aborted || runCtx.Cancelled() {
				aborted = true
				return
			}
			walk(toplevel, child)
		}
	}

	for _, tl := range plan.Definition.AllToplevels() {
		if aborted || runCtx.Cancelled() {
			break
		}
		walk(tl.Id, tl.Root)
	}
	return executed
}

// launchAndWait runs Phase D steps 2 and 3: locate the already-spawned
// process via the supervisor, drain on-launch callbacks, then block until
// it exits. A cancelled context is treated as "process exited" per §4.5.
func launchAndWait(goCtx context.Context, log ports.Logger, runCtx *execctx.Context, findTimeout time.Duration) (int, []error) {
	if runCtx.Cancelled() {
		return 0, nil
	}
	if runCtx.Supervisor == nil {
		return 0, nil
	}

	pid, err := runCtx.Supervisor.Find(findTimeout)
	if err != nil {
		if log != nil {
			log.Warn(goCtx, "could not locate launched process", "err", err)
		}
		return 0, []error{errs.NewNotAvailable("", "", "launched process")}
	}

	rawCallbackErrs := runCtx.DrainCallbacks(pid)
	callbackErrs := make([]error, len(rawCallbackErrs))
	for i, err := range rawCallbackErrs {
		callbackErrs[i] = errs.NewCallbackFailed("", "", err)
	}

	if !runCtx.Cancelled() {
		if err := runCtx.Supervisor.Wait(pid); err != nil && log != nil {
			log.Warn(goCtx, "supervisor wait returned an error", "pid", pid, "err", err)
		}
	}

	return pid, callbackErrs
}

// teardown runs Phase E: pop the executed stack in reverse order, invoking
// every action's Teardown regardless of earlier failures (G2).
func teardown(goCtx context.Context, log ports.Logger, plan Plan, executed []NodeKey, runCtx *execctx.Context) []error {
	var problems []error
	for i := len(executed) - 1; i >= 0; i-- {
		key := executed[i]
		action := plan.Actions[key]
		if err := action.Teardown(runCtx); err != nil {
			wrapped := errs.NewTeardownFailed(string(action.ID()), string(key.Action), err)
			problems = append(problems, wrapped)
			if log != nil {
				log.Error(goCtx, "action teardown failed", "action_id", action.ID(), "pipeline_action_id", key.Action, "err", err)
			}
		}
	}
	return problems
}
