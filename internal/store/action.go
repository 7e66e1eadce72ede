package store

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/buntdb"

	"github.com/duoscreen/orchestrator/internal/model"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// NewActionId mints a fresh ActionId, exposed for callers preparing a node
// whose id is still nil before a save (I1).
func NewActionId() model.ActionId {
	return allocateActionId()
}

// SaveActionRecord upserts one kind-specific action row, keyed by
// (Dtype, ID). Payload is the caller-marshaled configuration for that kind
// (the catalog's own *Settings struct).
func (s *Store) SaveActionRecord(record ActionRecord) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		return putJSON(tx, actionRowKey(record.Dtype, record.ID), json.RawMessage(record.Payload))
	})
	if err != nil {
		return errs.NewStoreError("save_action", err)
	}
	return nil
}

// LoadActionRecord fetches a kind-specific action row.
func (s *Store) LoadActionRecord(dtype model.ActionKind, id model.ActionId) (ActionRecord, error) {
	var raw json.RawMessage
	err := s.db.View(func(tx *buntdb.Tx) error {
		return getJSON(tx, actionRowKey(dtype, id), &raw)
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return ActionRecord{}, errs.NewNotAvailable(string(id), "", "action:"+string(dtype))
		}
		return ActionRecord{}, errs.NewStoreError("load_action", err)
	}
	return ActionRecord{ID: id, Dtype: dtype, Payload: raw}, nil
}

// DeleteActionRecord removes a kind-specific action row.
func (s *Store) DeleteActionRecord(dtype model.ActionKind, id model.ActionId) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(actionRowKey(dtype, id))
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return errs.NewStoreError("delete_action", err)
	}
	return nil
}
