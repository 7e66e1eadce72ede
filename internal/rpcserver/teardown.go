package rpcserver

import (
	"encoding/json"
	"fmt"
	"os"

	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// ClientTeardownAction is one frontend-declared cleanup step pending
// against client_state.json (§6: "holds pending client-side teardown
// actions"). The orchestrator treats Payload as opaque; only the
// front-end that registered it knows how to interpret it.
type ClientTeardownAction struct {
	Id      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

type clientState struct {
	Actions []ClientTeardownAction `json:"actions"`
}

// AddClientTeardownAction appends a teardown action, read-modify-write
// against client_state.json (§5: "RPC shim is single-flight", so the
// in-process mutex is the only concurrency guard this needs).
func (s *Server) AddClientTeardownAction(action ClientTeardownAction) error {
	s.clientStateMu.Lock()
	defer s.clientStateMu.Unlock()

	state, err := s.readClientState()
	if err != nil {
		return err
	}
	state.Actions = append(state.Actions, action)
	return s.writeClientState(state)
}

// GetClientTeardownActions lists every pending client teardown action.
func (s *Server) GetClientTeardownActions() ([]ClientTeardownAction, error) {
	s.clientStateMu.Lock()
	defer s.clientStateMu.Unlock()

	state, err := s.readClientState()
	if err != nil {
		return nil, err
	}
	return state.Actions, nil
}

// RemoveClientTeardownActions deletes the named actions by id.
func (s *Server) RemoveClientTeardownActions(ids []string) error {
	s.clientStateMu.Lock()
	defer s.clientStateMu.Unlock()

	state, err := s.readClientState()
	if err != nil {
		return err
	}
	remove := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
	}
	kept := state.Actions[:0]
	for _, action := range state.Actions {
		if _, drop := remove[action.Id]; drop {
			continue
		}
		kept = append(kept, action)
	}
	state.Actions = kept
	return s.writeClientState(state)
}

func (s *Server) readClientState() (clientState, error) {
	data, err := os.ReadFile(s.clientStatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return clientState{}, nil
		}
		return clientState{}, errs.NewStoreError("read_client_state", err)
	}
	var state clientState
	if err := json.Unmarshal(data, &state); err != nil {
		return clientState{}, errs.NewStoreError("decode_client_state", fmt.Errorf("%s: %w", s.clientStatePath, err))
	}
	return state, nil
}

func (s *Server) writeClientState(state clientState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errs.NewStoreError("encode_client_state", err)
	}
	if err := os.WriteFile(s.clientStatePath, data, 0o644); err != nil {
		return errs.NewStoreError("write_client_state", err)
	}
	return nil
}
