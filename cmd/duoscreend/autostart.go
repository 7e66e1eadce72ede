package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/duoscreen/orchestrator/internal/autostart"
	"github.com/duoscreen/orchestrator/internal/events"
	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/executor"
	"github.com/duoscreen/orchestrator/internal/ports"
)

// findTimeout bounds how long Run waits for the launched process to appear.
const findTimeout = 10 * time.Second

// exitError carries an explicit process exit code through cobra's error
// path, per §6's exit code table.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func newAutostartCmd(app *AppContext) *cobra.Command {
	var envSource string
	var intentPath string

	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Run a one-shot autostart from a persisted launch intent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, log := app.CommandContext(cmd, "autostart")

			env, err := loadEnvSnapshot(envSource)
			if err != nil {
				return &exitError{code: 1, err: err}
			}

			intent, err := autostart.LoadIntent(intentPath)
			if err != nil {
				return &exitError{code: 1, err: err}
			}

			resolved, err := autostart.Resolve(app.Store, intent, app.Deps)
			if err != nil {
				return &exitError{code: 1, err: err}
			}
			if resolved.Skipped {
				if log != nil {
					log.Info(ctx, "autostart skipped", "reason", resolved.Reason)
				}
				return nil
			}

			globalCfg := execctx.GlobalConfig{
				ControllerHackAppliesToSteamGames:    resolved.Plan.Definition.DesktopControllerLayoutHack.ApplyToSteamGames,
				ControllerHackAppliesToNonSteamGames: resolved.Plan.Definition.DesktopControllerLayoutHack.ApplyToNonSteamGames,
			}
			runCtx := execctx.New(env, nil, app.Bridge, app.Supervisor, globalCfg)
			runCtx.Launch.AppId = intent.AppId

			publish(ctx, app.Events, ports.EventPipelineStarted, map[string]interface{}{"app_id": intent.AppId, "profile_id": intent.ProfileId})

			result, depErrs := executor.Run(ctx, app.Logger, resolved.Plan, runCtx, findTimeout)
			if len(depErrs) > 0 {
				publish(ctx, app.Events, ports.EventPipelineFailed, map[string]interface{}{"app_id": intent.AppId, "error": errors.Join(depErrs...).Error()})
				return &exitError{code: 1, err: errors.Join(depErrs...)}
			}

			if code := result.ExitCode(); code != 0 {
				publish(ctx, app.Events, ports.EventPipelineFailed, map[string]interface{}{"app_id": intent.AppId, "exit_code": code})
				return &exitError{code: code, err: fmt.Errorf("autostart: run completed with exit code %d", code)}
			}
			publish(ctx, app.Events, ports.EventPipelineCompleted, map[string]interface{}{"app_id": intent.AppId})
			return nil
		},
	}

	cmd.Flags().StringVar(&envSource, "env-source", "", "path to the decky-env snapshot file")
	cmd.MarkFlagRequired("env-source") //nolint:errcheck
	cmd.Flags().StringVar(&intentPath, "intent", "", "path to the persisted autostart intent file")
	cmd.MarkFlagRequired("intent") //nolint:errcheck

	return cmd
}

// loadEnvSnapshot reads the decky-env snapshot captured at the start of
// the desktop session (§6), a flat JSON object of the same fields
// execctx.NewDeckyEnv populates from the live process environment.
func loadEnvSnapshot(path string) (execctx.DeckyEnv, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return execctx.DeckyEnv{}, fmt.Errorf("autostart: reading env source %s: %w", path, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return execctx.DeckyEnv{}, fmt.Errorf("autostart: decoding env source %s: %w", path, err)
	}

	lookup := func(key string) (string, bool) {
		v, ok := raw[key]
		return v, ok
	}
	return execctx.NewDeckyEnv(lookup), nil
}

// publish emits a domain event through pub if non-nil; the CLI path runs
// without a front-end subscriber, so a nil publisher is a valid no-op.
func publish(ctx context.Context, pub ports.EventPublisher, eventType string, data map[string]interface{}) {
	if pub == nil {
		return
	}
	_ = pub.Publish(ctx, events.SimpleEvent{Type: eventType, Data: data})
}
