package sidebus

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
)

// subscription cancels one registered handler by clearing its slot; safe
// to call more than once (§4.6, "unsubscribing by handle is idempotent").
type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() { s.cancel() }

// screenScope is the dbus-backed execctx.ScreenTrackingScope: one
// subscriber-owned dispatch goroutine reads signals off a dedicated
// channel and fans them out to registered handlers (§5, "subscriber-owned
// threads that each own one message-processing loop").
type screenScope struct {
	bridge     *Bridge
	scriptID   int32
	cleanup    func()
	sigCh      chan *dbus.Signal
	matchIface string

	mu       sync.Mutex
	handlers map[int]func([]model.ScreenInfo)
	nextID   int
	closed   bool
}

func newScreenScope(b *Bridge, token string) (*screenScope, error) {
	iface := "net.duoscreen.sidebus." + token
	path, removeTemp, err := renderScopeScript(screenTrackingScriptTemplate, "duoscreen-screen", token)
	if err != nil {
		return nil, err
	}

	id, err := b.loadScriptFile(path, "duoscreen-screen-"+token)
	if err != nil {
		removeTemp()
		return nil, err
	}

	sigCh := make(chan *dbus.Signal, 32)
	b.conn.Signal(sigCh)
	matchErr := b.conn.AddMatchSignal(
		dbus.WithMatchInterface(iface),
		dbus.WithMatchMember("ScreenState"),
	)
	if matchErr != nil {
		b.conn.RemoveSignal(sigCh)
		_ = b.unloadScriptID(id)
		removeTemp()
		return nil, fmt.Errorf("sidebus: add screen match: %w", matchErr)
	}

	scope := &screenScope{
		bridge:     b,
		scriptID:   id,
		cleanup:    removeTemp,
		sigCh:      sigCh,
		matchIface: iface,
		handlers:   make(map[int]func([]model.ScreenInfo)),
	}
	go scope.dispatch()
	return scope, nil
}

func (s *screenScope) dispatch() {
	for sig := range s.sigCh {
		if sig.Name != s.matchIface+".ScreenState" {
			continue
		}
		if len(sig.Body) == 0 {
			continue
		}
		payload, ok := sig.Body[0].(string)
		if !ok {
			continue
		}
		var screens []model.ScreenInfo
		if err := json.Unmarshal([]byte(payload), &screens); err != nil {
			continue
		}

		s.mu.Lock()
		handlers := make([]func([]model.ScreenInfo), 0, len(s.handlers))
		for _, h := range s.handlers {
			if h != nil {
				handlers = append(handlers, h)
			}
		}
		s.mu.Unlock()

		for _, h := range handlers {
			h(screens)
		}
	}
}

// Subscribe registers an update handler, returning a handle that
// unsubscribes it.
func (s *screenScope) Subscribe(handler func([]model.ScreenInfo)) execctx.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = handler
	return subscription{cancel: func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	}}
}

// Close unloads the injected script and stops the dispatch goroutine.
func (s *screenScope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.bridge.conn.RemoveSignal(s.sigCh)
	close(s.sigCh)
	s.cleanup()
	return s.bridge.unloadScriptID(s.scriptID)
}

// newWindowScope is the dbus-backed execctx.NewWindowTrackingScope,
// structurally identical to screenScope but for ClientInfo/"WindowState".
type newWindowScope struct {
	bridge     *Bridge
	scriptID   int32
	cleanup    func()
	sigCh      chan *dbus.Signal
	matchIface string

	mu       sync.Mutex
	handlers map[int]func(model.ClientInfo)
	nextID   int
	closed   bool
}

func newWindowScope(b *Bridge, token string) (*newWindowScope, error) {
	iface := "net.duoscreen.sidebus." + token
	path, removeTemp, err := renderScopeScript(newWindowTrackingScriptTemplate, "duoscreen-window", token)
	if err != nil {
		return nil, err
	}

	id, err := b.loadScriptFile(path, "duoscreen-window-"+token)
	if err != nil {
		removeTemp()
		return nil, err
	}

	sigCh := make(chan *dbus.Signal, 32)
	b.conn.Signal(sigCh)
	matchErr := b.conn.AddMatchSignal(
		dbus.WithMatchInterface(iface),
		dbus.WithMatchMember("WindowState"),
	)
	if matchErr != nil {
		b.conn.RemoveSignal(sigCh)
		_ = b.unloadScriptID(id)
		removeTemp()
		return nil, fmt.Errorf("sidebus: add window match: %w", matchErr)
	}

	scope := &newWindowScope{
		bridge:     b,
		scriptID:   id,
		cleanup:    removeTemp,
		sigCh:      sigCh,
		matchIface: iface,
		handlers:   make(map[int]func(model.ClientInfo)),
	}
	go scope.dispatch()
	return scope, nil
}

func (s *newWindowScope) dispatch() {
	for sig := range s.sigCh {
		if sig.Name != s.matchIface+".WindowState" {
			continue
		}
		if len(sig.Body) == 0 {
			continue
		}
		payload, ok := sig.Body[0].(string)
		if !ok {
			continue
		}
		var client model.ClientInfo
		if err := json.Unmarshal([]byte(payload), &client); err != nil {
			continue
		}

		s.mu.Lock()
		handlers := make([]func(model.ClientInfo), 0, len(s.handlers))
		for _, h := range s.handlers {
			if h != nil {
				handlers = append(handlers, h)
			}
		}
		s.mu.Unlock()

		for _, h := range handlers {
			h(client)
		}
	}
}

// Subscribe registers an update handler, returning a handle that
// unsubscribes it.
func (s *newWindowScope) Subscribe(handler func(model.ClientInfo)) execctx.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = handler
	return subscription{cancel: func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	}}
}

// Close unloads the injected script and stops the dispatch goroutine.
func (s *newWindowScope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.bridge.conn.RemoveSignal(s.sigCh)
	close(s.sigCh)
	s.cleanup()
	return s.bridge.unloadScriptID(s.scriptID)
}

var (
	_ execctx.ScreenTrackingScope     = (*screenScope)(nil)
	_ execctx.NewWindowTrackingScope  = (*newWindowScope)(nil)
)
