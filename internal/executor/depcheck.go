package executor

import (
	"github.com/duoscreen/orchestrator/internal/execctx"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// checkDependencies runs Phase B (§4.5): every action in the flattened
// order reports its Dependencies against the already-built context, and a
// run aborts before any Setup call if any dependency is unsatisfied.
func checkDependencies(plan Plan, order []NodeKey, ctx *execctx.Context) []error {
	var problems []error
	for _, key := range order {
		action := plan.Actions[key]
		for _, dep := range action.Dependencies(ctx) {
			if !dep.Satisfied {
				problems = append(problems, errs.NewDependencyMissing(string(action.ID()), string(key.Action), dep.Description))
			}
		}
	}
	return problems
}
