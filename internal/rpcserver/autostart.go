package rpcserver

import (
	"context"

	"github.com/duoscreen/orchestrator/internal/autostart"
	"github.com/duoscreen/orchestrator/internal/events"
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/executor"
	"github.com/duoscreen/orchestrator/internal/ports"
)

// AutostartResult is the `autostart` RPC verb's response: either a typed
// "no autostart" outcome (§4.8 step 3) or the executor's Result from
// running the resolved plan to completion.
type AutostartResult struct {
	Skipped bool
	Reason  string
	Result  executor.Result
}

// Autostart loads the persisted intent from intentPath, resolves it
// against the store, and runs it to completion through the executor. env
// is the decky snapshot to run under (§4.8 step 1 names the intent file;
// the env snapshot is a separate input — see cmd/duoscreend's
// `--env-source` flag for the one-shot CLI path).
func (s *Server) Autostart(goCtx context.Context, intentPath string, env execctx.DeckyEnv) (AutostartResult, error) {
	intent, err := autostart.LoadIntent(intentPath)
	if err != nil {
		return AutostartResult{}, err
	}

	resolved, err := autostart.Resolve(s.Store, intent, s.Deps)
	if err != nil {
		return AutostartResult{}, err
	}
	if resolved.Skipped {
		return AutostartResult{Skipped: true, Reason: resolved.Reason}, nil
	}

	s.publish(goCtx, ports.EventPipelineStarted, map[string]interface{}{"app_id": intent.AppId, "profile_id": intent.ProfileId})

	runCtx := s.newRunContext(env, intent.AppId, resolved.Plan.Definition.DesktopControllerLayoutHack)
	result, depErrs := executor.Run(goCtx, s.Logger, resolved.Plan, runCtx, s.FindTimeout)
	if len(depErrs) > 0 {
		s.publish(goCtx, ports.EventPipelineFailed, map[string]interface{}{"app_id": intent.AppId, "error": depErrs[0].Error()})
		return AutostartResult{}, depErrs[0]
	}

	if result.Ok() {
		s.publish(goCtx, ports.EventPipelineCompleted, map[string]interface{}{"app_id": intent.AppId})
	} else {
		s.publish(goCtx, ports.EventPipelineFailed, map[string]interface{}{"app_id": intent.AppId, "exit_code": result.ExitCode()})
	}
	return AutostartResult{Result: result}, nil
}

// publish emits a domain event if this server was constructed with an
// EventPublisher; it is a no-op otherwise (e.g. in tests against a fake
// store with no publisher wired).
func (s *Server) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, events.SimpleEvent{Type: eventType, Data: data}); err != nil && s.Logger != nil {
		s.Logger.Warn(ctx, "event publish failed", "event_type", eventType, "error", err)
	}
}
