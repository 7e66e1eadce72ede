package model

// SelectionKind discriminates which ConfigSelection variant is active.
type SelectionKind string

const (
	// SelectionAction selects a single leaf action.
	SelectionAction SelectionKind = "action"
	// SelectionOneOf selects exactly one of several candidate children.
	SelectionOneOf SelectionKind = "one_of"
	// SelectionAllOf selects every listed child, in order.
	SelectionAllOf SelectionKind = "all_of"
	// SelectionVersioned resolves its child at setup time via a VersionMatcher.
	SelectionVersioned SelectionKind = "versioned"
)

// VersionMatcher inspects context state already committed by upstream
// actions and reports whether its associated candidate applies (§4.1,
// "Versioned selection"). Implementations must be deterministic for a given
// state snapshot (I6/P6).
type VersionMatcher interface {
	Matches(state map[ActionKind]interface{}) bool
}

// VersionCandidate pairs a matcher with the action id it selects.
type VersionCandidate struct {
	Matcher VersionMatcher
	Id      PipelineActionId
}

// ConfigSelection describes how one node in the pipeline tree chooses what
// to execute. Exactly one of the per-kind fields is populated, selected by
// Kind; Go has no sum type, so this mirrors the teacher's tagged-struct
// convention (Step.Type + Step.Config) rather than an interface hierarchy.
type ConfigSelection struct {
	Kind SelectionKind

	// Action is set when Kind == SelectionAction.
	Action PipelineActionId

	// OneOf fields are set when Kind == SelectionOneOf.
	ChosenId   PipelineActionId
	Candidates []PipelineActionId

	// AllOf is set when Kind == SelectionAllOf.
	AllOf []PipelineActionId

	// Versioned fields are set when Kind == SelectionVersioned.
	Default    PipelineActionId
	Versions   []VersionCandidate
}

// NewActionSelection builds a leaf Action selection.
func NewActionSelection(id PipelineActionId) ConfigSelection {
	return ConfigSelection{Kind: SelectionAction, Action: id}
}

// NewOneOfSelection builds a OneOf selection.
func NewOneOfSelection(chosen PipelineActionId, candidates []PipelineActionId) ConfigSelection {
	return ConfigSelection{Kind: SelectionOneOf, ChosenId: chosen, Candidates: candidates}
}

// NewAllOfSelection builds an AllOf selection preserving declared order.
func NewAllOfSelection(children []PipelineActionId) ConfigSelection {
	return ConfigSelection{Kind: SelectionAllOf, AllOf: children}
}

// NewVersionedSelection builds a Versioned selection.
func NewVersionedSelection(def PipelineActionId, versions []VersionCandidate) ConfigSelection {
	return ConfigSelection{Kind: SelectionVersioned, Default: def, Versions: versions}
}

// ValidateIntegrity checks I3: in a OneOf selection, ChosenId must be one of
// Candidates.
func (s ConfigSelection) ValidateIntegrity() error {
	if s.Kind != SelectionOneOf {
		return nil
	}
	for _, c := range s.Candidates {
		if c == s.ChosenId {
			return nil
		}
	}
	return newSelectionIntegrityError(s.ChosenId, s.Candidates)
}

// Resolve returns the active child id for Action/OneOf/AllOf selections, and
// the Versioned default if no matcher-based resolution context is given.
// Versioned nodes with matchers are resolved by the executor at setup time
// (§4.1), using ResolveVersioned instead.
func (s ConfigSelection) Resolve() []PipelineActionId {
	switch s.Kind {
	case SelectionAction:
		return []PipelineActionId{s.Action}
	case SelectionOneOf:
		return []PipelineActionId{s.ChosenId}
	case SelectionAllOf:
		return append([]PipelineActionId(nil), s.AllOf...)
	case SelectionVersioned:
		return []PipelineActionId{s.Default}
	default:
		return nil
	}
}

// ResolveVersioned evaluates each VersionCandidate in declared order against
// state, returning the first match's id or Default if none match (I6/P6:
// deterministic for identical state).
func (s ConfigSelection) ResolveVersioned(state map[ActionKind]interface{}) PipelineActionId {
	if s.Kind != SelectionVersioned {
		return ""
	}
	for _, candidate := range s.Versions {
		if candidate.Matcher != nil && candidate.Matcher.Matches(state) {
			return candidate.Id
		}
	}
	return s.Default
}
