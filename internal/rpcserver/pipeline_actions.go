package rpcserver

import (
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/reify"
)

// PipelineActionStatus reports one reified node's dependency state, so the
// front-end can grey out an action before the user attempts a launch
// (§12, "get_pipeline_actions ... additionally reports, per action,
// whether its static dependencies are currently satisfied").
type PipelineActionStatus struct {
	Toplevel              model.TopLevelId
	Action                model.PipelineActionId
	Kind                  model.ActionKind
	DependenciesSatisfied bool
	Unsatisfied           []string
}

// GetPipelineActions reifies profileID's pipeline and reports the
// dependency status of every concrete action in it, using a diagnostic
// execctx.Context wired to the server's live bridge/supervisor but no
// in-progress run state, so dependencies that can only be confirmed once
// setup has run (e.g. a resolved settings-file path) are correctly
// reported unsatisfied.
func (s *Server) GetPipelineActions(profileID model.ProfileId) ([]PipelineActionStatus, error) {
	profile, err := s.Store.LoadProfile(profileID)
	if err != nil {
		return nil, err
	}

	def, settings, instances, err := s.Store.LoadPipeline(profile.Pipeline.Id)
	if err != nil {
		return nil, err
	}

	plan, err := reify.Reify(s.Store, def, settings, instances, s.Deps)
	if err != nil {
		return nil, err
	}

	diagCtx := execctx.New(execctx.DeckyEnv{}, nil, s.Bridge, s.Supervisor, execctx.GlobalConfig{})

	out := make([]PipelineActionStatus, 0, len(plan.Actions))
	for key, action := range plan.Actions {
		status := PipelineActionStatus{Toplevel: key.Toplevel, Action: key.Action, Kind: action.Kind()}
		satisfied := true
		for _, dep := range action.Dependencies(diagCtx) {
			if !dep.Satisfied {
				satisfied = false
				status.Unsatisfied = append(status.Unsatisfied, dep.Description)
			}
		}
		status.DependenciesSatisfied = satisfied
		out = append(out, status)
	}
	return out, nil
}
