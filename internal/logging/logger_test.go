package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	cblog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func TestLoggerEmitsCorrelationID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(Options{Writer: &buf, Component: "executor", Formatter: cblog.JSONFormatter})
	require.NoError(t, err)

	ctx := WithCorrelationID(context.Background(), "run-123")
	log.Info(ctx, "setup started", "action_id", "a1")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "run-123", entry["correlation_id"])
	require.Equal(t, "executor", entry["component"])
	require.Equal(t, "a1", entry["action_id"])
}

func TestLoggerWithAppendsFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(Options{Writer: &buf, Component: "store", Formatter: cblog.JSONFormatter})
	require.NoError(t, err)

	scoped := log.With("pipeline_id", "p1")
	scoped.Warn(context.Background(), "migration skipped")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "p1", entry["pipeline_id"])
	require.Equal(t, "store", entry["component"])
}

func TestNoOpLoggerDiscardsEntries(t *testing.T) {
	t.Parallel()

	log := NewNoOpLogger()
	require.NotPanics(t, func() {
		log.Debug(context.Background(), "ignored")
		log.With("k", "v").Info(context.Background(), "still ignored")
	})
}
