// Package rpcserver implements the thin RPC shim the `serve` command
// exposes to the front-end (§6): enough of the verb surface in spec.md
// §6's "RPC command surface" list to drive a profile through create,
// inspect, autostart, and teardown-bookkeeping, over the store (C3),
// registrar (C2), and executor (C6) this package wires together.
package rpcserver

import (
	"sync"
	"time"

	"github.com/duoscreen/orchestrator/internal/assembly"
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/ports"
	"github.com/duoscreen/orchestrator/internal/registrar"
	"github.com/duoscreen/orchestrator/internal/store"
)

// Store is the subset of *store.Store this package depends on, so tests
// can substitute a fake without a buntdb file.
type Store interface {
	SaveProfile(profile model.Profile) error
	LoadProfile(id model.ProfileId) (model.Profile, error)
	ListProfiles() ([]model.Profile, error)
	DeleteProfile(id model.ProfileId) error

	SaveAppOverride(override model.AppOverride) error
	LoadAppOverride(app model.AppId, profile model.ProfileId) (model.AppOverride, error)
	DeleteAppOverride(app model.AppId, profile model.ProfileId) error

	SavePipeline(def model.PipelineDefinition, entries []store.PipelineSaveEntry) (map[store.ActionSettingsKey]model.ActionId, error)
	LoadPipeline(id model.PipelineDefinitionId) (model.PipelineDefinition, map[store.ActionSettingsKey]model.PipelineActionSettings, map[store.ActionSettingsKey]store.DbAction, error)

	LoadActionRecord(dtype model.ActionKind, id model.ActionId) (store.ActionRecord, error)
	SaveActionRecord(record store.ActionRecord) error
}

// Server bundles the long-lived collaborators every RPC verb needs:
// the store, the registrar of available action definitions, the
// dependency bundle assembly.Build wires into each reified action, a
// component logger, and an optional event publisher Autostart notifies of
// pipeline lifecycle transitions. It holds no network transport of its
// own; Handler (transport.go) adapts it to net/http.
type Server struct {
	Store       Store
	Registrar   *registrar.Registrar
	Deps        assembly.Deps
	Bridge      execctx.WindowManagerBridge
	Supervisor  execctx.ProcessSupervisor
	Logger      ports.Logger
	Events      ports.EventPublisher
	Templates   []model.Template
	FindTimeout time.Duration

	clientStateMu   sync.Mutex
	clientStatePath string
	chunks          *chunkAssembler
}

// newRunContext builds a fresh execctx.Context for one executor.Run,
// wiring the server's live bridge/supervisor (display control has no
// in-pack backend; see DESIGN.md). env is the decky-provided snapshot for
// this run: a live os.LookupEnv-backed one for the `serve` RPC verb, or one
// read from the `--env-source` file for the one-shot `autostart` CLI.
func (s *Server) newRunContext(env execctx.DeckyEnv, appID model.AppId, cfg model.DesktopControllerLayoutHack) *execctx.Context {
	globalCfg := execctx.GlobalConfig{
		ControllerHackAppliesToSteamGames:    cfg.ApplyToSteamGames,
		ControllerHackAppliesToNonSteamGames: cfg.ApplyToNonSteamGames,
	}
	ctx := execctx.New(env, nil, s.Bridge, s.Supervisor, globalCfg)
	ctx.Launch.AppId = appID
	return ctx
}

// New builds a Server. clientStatePath is the client_state.json path
// (§6, "persisted state") backing the client-teardown-action verbs.
// bridge/supervisor may be nil (e.g. in tests that never call
// GetPipelineActions or Autostart against a live host).
func New(
	st Store,
	reg *registrar.Registrar,
	deps assembly.Deps,
	bridge execctx.WindowManagerBridge,
	supervisor execctx.ProcessSupervisor,
	log ports.Logger,
	events ports.EventPublisher,
	templates []model.Template,
	clientStatePath string,
) *Server {
	return &Server{
		Store:           st,
		Registrar:       reg,
		Deps:            deps,
		Bridge:          bridge,
		Supervisor:      supervisor,
		Logger:          log,
		Events:          events,
		Templates:       templates,
		FindTimeout:     10 * time.Second,
		clientStatePath: clientStatePath,
		chunks:          newChunkAssembler(),
	}
}
