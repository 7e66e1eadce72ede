// Package execctx defines the execution context (C5, §4.4): the struct
// that bundles every mutable handle a single pipeline run's actions share.
// The executor (C6) owns one Context per run and hands it to each action's
// Setup/Teardown in turn; no action retains a reference past its own call.
package execctx

import (
	"time"

	"github.com/duoscreen/orchestrator/internal/model"
)

// DisplayController is the low-level display subsystem handle: outputs,
// modes, and touch-input transform matrices. A single Context owns it for
// the run's duration; actions borrow it mutably.
type DisplayController interface {
	CurrentExternalOutput() (id string, mode string, primary bool, ok bool)
	CurrentDeckLocation() (location string, ok bool)
	SetExternalMode(id, mode string, primary bool) error
	SetDeckLocation(location string) error
	SetTouchMatrix(device string, matrix [6]float64) error
}

// WindowManagerBridge reads/writes window-manager configuration, toggles
// injected scripts, and opens side-channel scopes (C7 is reached through
// this interface so execctx has no dependency on the sidebus package).
type WindowManagerBridge interface {
	GetSetting(section, key string) (string, bool)
	SetSetting(section, key, value string) error
	EnableScript(name string) error
	DisableScript(name string) error
	OpenScreenTrackingScope() (ScreenTrackingScope, error)
	OpenNewWindowTrackingScope() (NewWindowTrackingScope, error)
}

// Subscription represents a registered side-channel handler; Unsubscribe is
// idempotent (§4.6).
type Subscription interface {
	Unsubscribe()
}

// ScreenTrackingScope is the screen-tracking side-channel scope (§4.6):
// owned by the subscriber, unloads its injected script on Close.
type ScreenTrackingScope interface {
	Subscribe(handler func([]model.ScreenInfo)) Subscription
	Close() error
}

// NewWindowTrackingScope is the new-window-tracking side-channel scope
// (§4.6): used to match the window a secondary app just spawned.
type NewWindowTrackingScope interface {
	Subscribe(handler func(model.ClientInfo)) Subscription
	Close() error
}

// ScreenComposer composes independent outputs into one logical screen
// (virtual-screen bridge, §4.1 table) and reports the current topology so
// it can be restored on teardown.
type ScreenComposer interface {
	CurrentTopology() (Topology, error)
	Compose(Topology) error
}

// Topology is an opaque, display-controller-specific description of how
// outputs are currently arranged; only compared and passed back, never
// inspected.
type Topology struct {
	Descriptor string
}

// ProcessSupervisor locates, observes, and terminates a launched process
// tree (C8, §4.7).
type ProcessSupervisor interface {
	Launch(command string, args []string) (pid int, err error)
	Find(timeout time.Duration) (pid int, err error)
	IsAlive(pid int) bool
	Kill(pid int) error
	// Wait blocks until the process tree rooted at pid has exited (§4.5,
	// Phase D: "block until the supervisor reports the process tree has
	// exited").
	Wait(pid int) error
}

// LaunchInfo describes the application the run is setting up for. It is
// empty until the executor sets it just before actions run.
type LaunchInfo struct {
	AppId       model.AppId
	IsSteamGame bool
	Title       string
}

// LaunchCallback is invoked once the supervisor reports a live pid, in
// registration order (G3). A callback failure joins the error aggregate
// but does not prevent later callbacks from running.
type LaunchCallback func(pid int, ctx *Context) error

// GlobalConfig carries process-wide toggles that the source exposes as
// globals; passed by value inside the context per §9 design notes.
type GlobalConfig struct {
	ControllerHackAppliesToSteamGames    bool
	ControllerHackAppliesToNonSteamGames bool
}

// StateSlot identifies one action instance's per-action state (§4.4,
// "per-action state index"): a kind plus the NextSlot-allocated index for
// that particular instance, so two instances of the same kind appearing in
// one run (e.g. a standalone MultiWindowManager alongside one composed
// into MainAppAutoWindowing) are never stored under the same key.
type StateSlot struct {
	Kind  model.ActionKind
	Index int
}

// Context bundles the shared mutable state of one pipeline run (C5).
type Context struct {
	Env        DeckyEnv
	Display    DisplayController
	Bridge     WindowManagerBridge
	Supervisor ProcessSupervisor
	Composer   ScreenComposer
	Launch     LaunchInfo
	Config     GlobalConfig

	callbacks []LaunchCallback
	state     map[StateSlot]interface{}
	slotIndex map[model.ActionKind]int
	cancelled bool
}

// New builds an empty Context ready for a run.
func New(env DeckyEnv, display DisplayController, bridge WindowManagerBridge, supervisor ProcessSupervisor, cfg GlobalConfig) *Context {
	return &Context{
		Env:        env,
		Display:    display,
		Bridge:     bridge,
		Supervisor: supervisor,
		Config:     cfg,
		state:      make(map[StateSlot]interface{}),
		slotIndex:  make(map[model.ActionKind]int),
	}
}

// RegisterCallback appends an on-launch callback to the queue (G3: FIFO
// drain order).
func (c *Context) RegisterCallback(cb LaunchCallback) {
	c.callbacks = append(c.callbacks, cb)
}

// DrainCallbacks invokes every queued callback in registration order,
// passing the located pid. Every callback runs regardless of earlier
// failures; errors are returned in registration order.
func (c *Context) DrainCallbacks(pid int) []error {
	var errs []error
	for _, cb := range c.callbacks {
		if err := cb(pid, c); err != nil {
			errs = append(errs, err)
		}
	}
	c.callbacks = nil
	return errs
}

// SetState stores this slot's teardown token. Writing again overwrites any
// token from a prior setup at the same slot in this run.
func (c *Context) SetState(slot StateSlot, token interface{}) {
	c.state[slot] = token
}

// State retrieves the teardown token set during setup for the given slot,
// and reports whether one was present.
func (c *Context) State(slot StateSlot) (interface{}, bool) {
	token, ok := c.state[slot]
	return token, ok
}

// ClearState removes a slot's teardown token once its teardown has run,
// so a repeated teardown call observes no state (idempotence, §4.1).
func (c *Context) ClearState(slot StateSlot) {
	delete(c.state, slot)
}

// NextSlot allocates a new, unique StateSlot for this action kind within
// the run, so that identical action kinds used twice in a tree get
// isolated slots (§4.4, "per-action state index") instead of clobbering
// each other's teardown token.
func (c *Context) NextSlot(kind model.ActionKind) StateSlot {
	index := c.slotIndex[kind]
	c.slotIndex[kind] = index + 1
	return StateSlot{Kind: kind, Index: index}
}

// StateByKind retrieves the most recently allocated slot's value for kind,
// for the cross-action lookups §4.1's "state locality" exception describes
// (e.g. EmuLayoutAudio reading EmuSettingsSource's published path), where
// the caller holds no StateSlot of its own. Ambiguous if more than one
// instance of kind is concurrently live; callers that need a specific
// instance's token should keep the StateSlot NextSlot gave them instead.
func (c *Context) StateByKind(kind model.ActionKind) (interface{}, bool) {
	value, _, found := c.latestByKind(kind)
	return value, found
}

func (c *Context) latestByKind(kind model.ActionKind) (interface{}, int, bool) {
	var value interface{}
	best := -1
	for slot, v := range c.state {
		if slot.Kind != kind || slot.Index < best {
			continue
		}
		best = slot.Index
		value = v
	}
	return value, best, best >= 0
}

// Cancel sets the cancellation flag, checked at each action boundary by
// Phase C.
func (c *Context) Cancel() {
	c.cancelled = true
}

// Cancelled reports whether Cancel has been called.
func (c *Context) Cancelled() bool {
	return c.cancelled
}

// StateSnapshot returns a read-only, by-kind copy of the state map, for
// Versioned matcher evaluation (ConfigSelection.ResolveVersioned wants
// map[model.ActionKind]interface{}; §4.1, "ctx state already set by
// upstream actions"). When more than one instance of a kind is live, the
// most recently allocated slot's value wins.
func (c *Context) StateSnapshot() map[model.ActionKind]interface{} {
	out := make(map[model.ActionKind]interface{}, len(c.state))
	bestIndex := make(map[model.ActionKind]int, len(c.state))
	for slot, v := range c.state {
		if prev, ok := bestIndex[slot.Kind]; ok && prev >= slot.Index {
			continue
		}
		out[slot.Kind] = v
		bestIndex[slot.Kind] = slot.Index
	}
	return out
}
