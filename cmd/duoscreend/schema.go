package main

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/duoscreen/orchestrator/internal/autostart"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/rpcserver"
)

// schemaEntry is one externally consumed message type's field listing.
type schemaEntry struct {
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields"`
}

// externallyConsumedTypes lists every message type that crosses the RPC
// boundary (§6's verb surface) or the autostart intent file, the only
// message shapes a front-end or a decky plugin host needs to agree on.
// No JSON-schema library appears anywhere in the retrieved pack; this
// walks each type with reflect and emits a flat field/kind listing, which
// is all a front-end build step needs to stay in sync (see DESIGN.md).
var externallyConsumedTypes = []interface{}{
	model.Profile{},
	model.Template{},
	model.AppOverride{},
	rpcserver.CreateProfileRequest{},
	rpcserver.PipelineActionStatus{},
	rpcserver.ClientTeardownAction{},
	rpcserver.Chunk{},
	autostart.Intent{},
}

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Emit JSON schema for externally consumed message types",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := make([]schemaEntry, 0, len(externallyConsumedTypes))
			for _, v := range externallyConsumedTypes {
				entries = append(entries, describeType(v))
			}
			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return fmt.Errorf("schema: encoding: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	return cmd
}

func describeType(v interface{}) schemaEntry {
	t := reflect.TypeOf(v)
	fields := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fields[jsonFieldName(f)] = f.Type.String()
	}
	return schemaEntry{Name: t.Name(), Fields: fields}
}

func jsonFieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("json"); ok && tag != "" && tag != "-" {
		name := tag
		for i, c := range tag {
			if c == ',' {
				name = tag[:i]
				break
			}
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
