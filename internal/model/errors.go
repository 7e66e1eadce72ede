package model

import (
	"errors"
	"fmt"
)

// ErrorCode identifies well-known data-model invariant violations (§3).
type ErrorCode string

const (
	ErrCodeSelectionIntegrity ErrorCode = "SELECTION_INTEGRITY"
	ErrCodeCycle              ErrorCode = "CYCLE_DETECTED"
	ErrCodeDuplicateChild     ErrorCode = "DUPLICATE_CHILD"
	ErrCodeUnresolvedId       ErrorCode = "UNRESOLVED_ID"
	ErrCodeMissingPlatform    ErrorCode = "MISSING_PLATFORM"
)

// DomainError is a typed, contextual error raised by model-level invariant
// checks, mirroring the teacher's internal/domain/pipeline.DomainError.
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is allows errors.Is comparisons by code, ignoring context.
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if !errors.As(target, &domainErr) {
		return false
	}
	return e.Code == domainErr.Code
}

func newSelectionIntegrityError(chosen PipelineActionId, candidates []PipelineActionId) *DomainError {
	return &DomainError{
		Code:    ErrCodeSelectionIntegrity,
		Message: "chosen_id is not one of the one_of candidates",
		Context: map[string]interface{}{"chosen": chosen, "candidates": candidates},
	}
}

func newCycleError(path []PipelineActionId) *DomainError {
	return &DomainError{
		Code:    ErrCodeCycle,
		Message: "definition tree contains a cycle",
		Context: map[string]interface{}{"path": path},
	}
}

func newDuplicateChildError(toplevel TopLevelId, id PipelineActionId) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateChild,
		Message: "action appears more than once in a toplevel",
		Context: map[string]interface{}{"toplevel": toplevel, "action": id},
	}
}

func newUnresolvedIdError(id PipelineActionId) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnresolvedId,
		Message: "no definition registered for action id",
		Context: map[string]interface{}{"action": id},
	}
}

func newMissingPlatformError(definition PipelineDefinitionId) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingPlatform,
		Message: "pipeline definition is missing its platform root",
		Context: map[string]interface{}{"definition": definition},
	}
}
