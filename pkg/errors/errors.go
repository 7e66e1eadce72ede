// Package errors defines the action-level error taxonomy shared by the
// catalog (C1) and executor (C6). Every error an action returns implements
// ActionError so the executor can classify it with errors.As without
// inspecting message text.
package errors

import "fmt"

// ActionError is the base interface for all action errors. The executor
// uses ActionID/PipelineActionID to attribute a failure to the action that
// raised it when building a Result.
type ActionError interface {
	error
	ActionID() string
	PipelineActionID() string
	Unwrap() error
}

// BadRequest indicates the action's settings failed validation before
// setup ever ran, e.g. a ConfigSelection resolving to a missing variant.
type BadRequest struct {
	ID    string
	PAID  string
	Field string
	Err   error
}

// NewBadRequest constructs a BadRequest for the given action and field.
func NewBadRequest(actionID, pipelineActionID, field string, err error) *BadRequest {
	return &BadRequest{ID: actionID, PAID: pipelineActionID, Field: field, Err: err}
}

func (e *BadRequest) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("bad request in action %s field %s: %v", e.ID, e.Field, e.Err)
	}
	return fmt.Sprintf("bad request in action %s: %v", e.ID, e.Err)
}

// ActionID returns the identifier of the action that raised the error.
func (e *BadRequest) ActionID() string { return e.ID }

// PipelineActionID returns the pipeline-action instance identifier.
func (e *BadRequest) PipelineActionID() string { return e.PAID }

// Unwrap exposes the underlying validation cause.
func (e *BadRequest) Unwrap() error { return e.Err }

// Is matches against any other BadRequest, independent of field/cause.
func (e *BadRequest) Is(target error) bool {
	_, ok := target.(*BadRequest)
	return ok
}

// DependencyMissing is returned during Phase B when a pipeline action's
// declared dependency is absent from the flattened action list.
type DependencyMissing struct {
	ID         string
	PAID       string
	Dependency string
}

// NewDependencyMissing constructs a DependencyMissing error.
func NewDependencyMissing(actionID, pipelineActionID, dependency string) *DependencyMissing {
	return &DependencyMissing{ID: actionID, PAID: pipelineActionID, Dependency: dependency}
}

func (e *DependencyMissing) Error() string {
	return fmt.Sprintf("action %s depends on %s which is not present in the run", e.ID, e.Dependency)
}

// ActionID returns the identifier of the action that raised the error.
func (e *DependencyMissing) ActionID() string { return e.ID }

// PipelineActionID returns the pipeline-action instance identifier.
func (e *DependencyMissing) PipelineActionID() string { return e.PAID }

// Unwrap returns nil: a missing dependency has no underlying cause.
func (e *DependencyMissing) Unwrap() error { return nil }

// Is matches against any other DependencyMissing.
func (e *DependencyMissing) Is(target error) bool {
	_, ok := target.(*DependencyMissing)
	return ok
}

// SetupFailed wraps a failure raised by an action's Setup call, before a
// teardown token for that action exists.
type SetupFailed struct {
	ID   string
	PAID string
	Err  error
}

// NewSetupFailed constructs a SetupFailed error.
func NewSetupFailed(actionID, pipelineActionID string, err error) *SetupFailed {
	return &SetupFailed{ID: actionID, PAID: pipelineActionID, Err: err}
}

func (e *SetupFailed) Error() string {
	return fmt.Sprintf("setup failed for action %s: %v", e.ID, e.Err)
}

// ActionID returns the identifier of the action that raised the error.
func (e *SetupFailed) ActionID() string { return e.ID }

// PipelineActionID returns the pipeline-action instance identifier.
func (e *SetupFailed) PipelineActionID() string { return e.PAID }

// Unwrap exposes the underlying setup cause.
func (e *SetupFailed) Unwrap() error { return e.Err }

// Is matches against any other SetupFailed.
func (e *SetupFailed) Is(target error) bool {
	_, ok := target.(*SetupFailed)
	return ok
}

// CallbackFailed wraps a failure raised by an on-launch callback queued
// during Phase C and invoked once the game process is confirmed alive.
type CallbackFailed struct {
	ID   string
	PAID string
	Err  error
}

// NewCallbackFailed constructs a CallbackFailed error.
func NewCallbackFailed(actionID, pipelineActionID string, err error) *CallbackFailed {
	return &CallbackFailed{ID: actionID, PAID: pipelineActionID, Err: err}
}

func (e *CallbackFailed) Error() string {
	return fmt.Sprintf("launch callback failed for action %s: %v", e.ID, e.Err)
}

// ActionID returns the identifier of the action that raised the error.
func (e *CallbackFailed) ActionID() string { return e.ID }

// PipelineActionID returns the pipeline-action instance identifier.
func (e *CallbackFailed) PipelineActionID() string { return e.PAID }

// Unwrap exposes the underlying callback cause.
func (e *CallbackFailed) Unwrap() error { return e.Err }

// Is matches against any other CallbackFailed.
func (e *CallbackFailed) Is(target error) bool {
	_, ok := target.(*CallbackFailed)
	return ok
}

// TeardownFailed wraps a failure raised while undoing an already-applied
// action. The executor logs and continues unwinding the rest of the
// executed stack rather than aborting teardown.
type TeardownFailed struct {
	ID   string
	PAID string
	Err  error
}

// NewTeardownFailed constructs a TeardownFailed error.
func NewTeardownFailed(actionID, pipelineActionID string, err error) *TeardownFailed {
	return &TeardownFailed{ID: actionID, PAID: pipelineActionID, Err: err}
}

func (e *TeardownFailed) Error() string {
	return fmt.Sprintf("teardown failed for action %s: %v", e.ID, e.Err)
}

// ActionID returns the identifier of the action that raised the error.
func (e *TeardownFailed) ActionID() string { return e.ID }

// PipelineActionID returns the pipeline-action instance identifier.
func (e *TeardownFailed) PipelineActionID() string { return e.PAID }

// Unwrap exposes the underlying teardown cause.
func (e *TeardownFailed) Unwrap() error { return e.Err }

// Is matches against any other TeardownFailed.
func (e *TeardownFailed) Is(target error) bool {
	_, ok := target.(*TeardownFailed)
	return ok
}

// StoreError wraps a failure reading or writing the reified configuration
// store (C3). It has no action context since it can occur outside any run,
// e.g. during schema migration at startup.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError constructs a StoreError for the given store operation.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying store cause.
func (e *StoreError) Unwrap() error { return e.Err }

// Is matches against any other StoreError.
func (e *StoreError) Is(target error) bool {
	_, ok := target.(*StoreError)
	return ok
}

// NotAvailable indicates a side-channel or supervised resource (window
// manager bridge, session bus, game process) could not be located.
type NotAvailable struct {
	ID       string
	PAID     string
	Resource string
}

// NewNotAvailable constructs a NotAvailable error.
func NewNotAvailable(actionID, pipelineActionID, resource string) *NotAvailable {
	return &NotAvailable{ID: actionID, PAID: pipelineActionID, Resource: resource}
}

func (e *NotAvailable) Error() string {
	return fmt.Sprintf("%s not available for action %s", e.Resource, e.ID)
}

// ActionID returns the identifier of the action that raised the error.
func (e *NotAvailable) ActionID() string { return e.ID }

// PipelineActionID returns the pipeline-action instance identifier.
func (e *NotAvailable) PipelineActionID() string { return e.PAID }

// Unwrap returns nil: unavailability has no underlying cause.
func (e *NotAvailable) Unwrap() error { return nil }

// Is matches against any other NotAvailable.
func (e *NotAvailable) Is(target error) bool {
	_, ok := target.(*NotAvailable)
	return ok
}
