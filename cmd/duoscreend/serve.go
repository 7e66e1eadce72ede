package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/ports"
	"github.com/duoscreen/orchestrator/internal/rpcserver"
)

// binaryVersion is reconciled against the on-disk `.version` marker at
// serve startup (§12, schema version marker reconciliation).
const binaryVersion = "1"

func newServeCmd(app *AppContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the RPC back-end that exposes the executor/store to the front-end",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, log := app.CommandContext(cmd, "serve")

			if err := reconcileVersionMarker(ctx, app.Env.SettingsDir, log); err != nil {
				return err
			}

			clientStatePath := filepath.Join(runtimeDir(app.Env), "client_state.json")
			srv := rpcserver.New(app.Store, app.Registrar, app.Deps, app.Bridge, app.Supervisor, app.Logger, app.Events, app.Templates, clientStatePath)

			if log != nil {
				log.Info(ctx, "serve listening", "addr", addr)
			}
			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8765", "address the RPC server listens on")
	return cmd
}

// runtimeDir resolves $RUNTIME_DIR (§6): the decky-provided plugin runtime
// directory when present, otherwise XDG_RUNTIME_DIR.
func runtimeDir(env execctx.DeckyEnv) string {
	if env.RuntimeDir != "" {
		return env.RuntimeDir
	}
	return env.XDGRuntimeDir
}

// reconcileVersionMarker checks the `.version` file in settingsDir against
// binaryVersion; a mismatch (including a missing marker, i.e. first run)
// logs and rewrites the marker. Row-level migration itself already runs
// unconditionally inside store.Open (§11.1); this is the process-level gate
// that runs before the RPC server starts accepting requests (§12).
func reconcileVersionMarker(ctx context.Context, settingsDir string, log ports.Logger) error {
	if settingsDir == "" {
		return nil
	}
	markerPath := filepath.Join(settingsDir, ".version")

	current, err := os.ReadFile(markerPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("serve: reading version marker %s: %w", markerPath, err)
	}

	if string(current) == binaryVersion {
		return nil
	}

	if log != nil {
		log.Info(ctx, "version marker mismatch, running migration pass", "previous", string(current), "current", binaryVersion)
	}

	if err := os.WriteFile(markerPath, []byte(binaryVersion), 0o644); err != nil {
		return fmt.Errorf("serve: writing version marker %s: %w", markerPath, err)
	}
	return nil
}
