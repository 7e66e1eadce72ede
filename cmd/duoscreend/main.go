package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/duoscreen/orchestrator/internal/assembly"
	"github.com/duoscreen/orchestrator/internal/events"
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/logging"
	"github.com/duoscreen/orchestrator/internal/platform"
	"github.com/duoscreen/orchestrator/internal/registrar"
	"github.com/duoscreen/orchestrator/internal/sidebus"
	"github.com/duoscreen/orchestrator/internal/store"
	"github.com/duoscreen/orchestrator/internal/supervisor"
)

func main() {
	env := execctx.NewDeckyEnv(os.LookupEnv)

	appLogger, err := logging.New(logging.Options{
		Level:     "info",
		Component: "duoscreend",
		Layer:     "cli",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	correlationID := logging.GenerateCorrelationID()
	ctx := logging.WithCorrelationID(context.Background(), correlationID)

	st, err := openStore(env)
	if err != nil {
		appLogger.Error(ctx, "failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	var bridge execctx.WindowManagerBridge
	if wmBridge, err := sidebus.NewBridge(bridgeConfigPath(env), bridgeScriptDir(env)); err != nil {
		appLogger.Warn(ctx, "window-manager bridge unavailable", "error", err)
	} else {
		bridge = wmBridge
	}

	sup := supervisor.New("")

	settingsDir := env.SettingsDir
	if settingsDir == "" {
		settingsDir = "."
	}

	deps := assembly.Deps{
		Overlay:          platform.NewProcessOverlay("duoscreen-overlay", nil),
		PathResolver:     platform.NewEmuPathResolver(),
		ControllerLayout: platform.NewFileControllerLayoutStore(settingsDir),
		Matcher:          sidebus.CaptionMatcher{},
		Recompute:        platform.NewTouchMatrixRecompute("DSI-1"),
	}

	app := &AppContext{
		Logger:     appLogger,
		Store:      st,
		Registrar:  registrar.New(builtinCatalog()),
		Deps:       deps,
		Bridge:     bridge,
		Supervisor: sup,
		Events:     events.NewLoggingPublisher(appLogger.With("component", "events")),
		Templates:  builtinTemplates(),
		Env:        env,
	}

	flags := &rootFlags{}
	rootCmd := newRootCmd(app, flags)
	appLogger.Info(ctx, "starting duoscreend", "pid", os.Getpid())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Error())
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore(env execctx.DeckyEnv) (*store.Store, error) {
	dir := runtimeDir(env)
	if dir == "" {
		dir = "."
	}
	return store.Open(filepath.Join(dir, "profiles.db"))
}

func bridgeConfigPath(env execctx.DeckyEnv) string {
	dir := env.SettingsDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "kwinrc")
}

func bridgeScriptDir(env execctx.DeckyEnv) string {
	dir := env.SettingsDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "scripts")
}
