// Package store implements the reified configuration store (C3, §4.3):
// a buntdb-backed, transactional, versioned on-disk database of profiles,
// app overrides, pipeline definitions, and their constituent actions.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/buntdb"

	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// currentSchemaVersion is written into every row's envelope; Open migrates
// any row found below this version inside one write transaction (§11.1).
const currentSchemaVersion = 1

// Store wraps a single buntdb database file and exposes the row-level
// save/load/delete protocol of §4.3.
type Store struct {
	db *buntdb.DB
}

// Open opens (creating if absent) the database at path, builds its listing
// indexes, and migrates any stale-schema rows.
func Open(path string) (*Store, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, errs.NewStoreError("open", err)
	}

	for _, prefix := range indexedPrefixes {
		pattern := prefix + "*"
		if err := db.CreateIndex(prefix, pattern, buntdb.IndexString); err != nil {
			db.Close()
			return nil, errs.NewStoreError("create_index:"+prefix, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errs.NewStoreError("close", err)
	}
	return nil
}

// envelope wraps every stored row with an explicit schema version so rows
// written by an older build can be migrated forward (§11.1, resolving the
// "two coexisting settings-database codecs" open question as one JSON
// codec with a row-level version field).
type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

func putJSON(tx *buntdb.Tx, key string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	env := envelope{SchemaVersion: currentSchemaVersion, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope %s: %w", key, err)
	}
	if _, _, err := tx.Set(key, string(data), nil); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func getJSON(tx *buntdb.Tx, key string, out interface{}) error {
	raw, err := tx.Get(key)
	if err != nil {
		return err
	}
	return decodeEnvelopePayload(raw, out)
}

// decodeEnvelopePayload unmarshals an envelope's payload directly from a
// raw stored value, for use inside AscendKeys iterators that already hold
// the value string and would otherwise re-fetch it.
func decodeEnvelopePayload(raw string, out interface{}) error {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}

// migrate walks every row once at startup and rewrites any below the
// current schema version inside a single write transaction, then triggers
// buntdb's own background shrink (§11.1: "no separate compaction step
// beyond buntdb's own background shrink").
func (s *Store) migrate() error {
	type stale struct {
		key string
		env envelope
	}
	var staleRows []stale

	err := s.db.Update(func(tx *buntdb.Tx) error {
		for _, prefix := range indexedPrefixes {
			err := tx.AscendKeys(prefix+"*", func(key, value string) bool {
				var env envelope
				if jsonErr := json.Unmarshal([]byte(value), &env); jsonErr != nil {
					return true
				}
				if env.SchemaVersion < currentSchemaVersion {
					staleRows = append(staleRows, stale{key: key, env: env})
				}
				return true
			})
			if err != nil {
				return err
			}
		}
		for _, row := range staleRows {
			row.env.SchemaVersion = currentSchemaVersion
			data, err := json.Marshal(row.env)
			if err != nil {
				return err
			}
			if _, _, err := tx.Set(row.key, string(data), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewStoreError("migrate", err)
	}

	if len(staleRows) > 0 {
		if err := s.db.Shrink(); err != nil {
			return errs.NewStoreError("shrink", err)
		}
	}
	return nil
}
