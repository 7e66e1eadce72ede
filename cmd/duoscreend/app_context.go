package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/duoscreen/orchestrator/internal/assembly"
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/ports"
	"github.com/duoscreen/orchestrator/internal/registrar"
	"github.com/duoscreen/orchestrator/internal/store"
)

// AppContext bundles the long-lived collaborators built once at startup
// and shared across subcommands.
type AppContext struct {
	Logger     ports.Logger
	Store      *store.Store
	Registrar  *registrar.Registrar
	Deps       assembly.Deps
	Bridge     execctx.WindowManagerBridge
	Supervisor execctx.ProcessSupervisor
	Events     ports.EventPublisher
	Templates  []model.Template
	Env        execctx.DeckyEnv
}

// CommandContext returns the command's context (falling back to
// Background) together with a component-scoped logger.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, ports.Logger) {
	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}
	return ctx, a.LoggerFor(component)
}

// LoggerFor derives a child logger scoped to component.
func (a *AppContext) LoggerFor(component string) ports.Logger {
	if a == nil || a.Logger == nil {
		return nil
	}
	return a.Logger.With("component", component)
}
