package model

// PipelineActionSettings is the per-(pipeline, toplevel, action) row that
// controls whether and how a node in the definition tree participates in a
// run (§3, §4.3).
type PipelineActionSettings struct {
	// Enabled is nil when the action is not toggleable (always on); a
	// non-nil value means "toggleable, current state".
	Enabled *bool

	IsVisibleOnQAM bool

	// ProfileOverride, if set, replaces this subtree at reification time
	// with the same subtree drawn from that profile instead.
	ProfileOverride *ProfileId

	Selection ConfigSelection
}

// Pruned reports whether this node is pruned during Phase A flattening
// (Enabled explicitly set to false).
func (s PipelineActionSettings) Pruned() bool {
	return s.Enabled != nil && !*s.Enabled
}

// TopLevelDefinition is one root subtree within a PipelineDefinition (the
// "platform" root, or an optional extra such as "secondary app").
type TopLevelDefinition struct {
	Id      TopLevelId
	Root    PipelineActionId
	Actions []PipelineActionId
}

// Validate checks I4 (no duplicate child per toplevel) for this subtree's
// declared action list.
func (t TopLevelDefinition) Validate() error {
	seen := make(map[PipelineActionId]struct{}, len(t.Actions))
	for _, id := range t.Actions {
		if _, ok := seen[id]; ok {
			return newDuplicateChildError(t.Id, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// PipelineDefinition is a named tree of toplevels rooted at a required
// platform node plus optional extra toplevels (§3).
type PipelineDefinition struct {
	Id                         PipelineDefinitionId
	Name                       string
	PrimaryTargetOverride      *Target
	Platform                   TopLevelDefinition
	Toplevel                   []TopLevelDefinition
	DesktopControllerLayoutHack DesktopControllerLayoutHack
}

// DesktopControllerLayoutHack carries the process-wide toggle described in
// §4.4 ("global config") as a definition-scoped record: whether the
// controller-layout override applies to Steam games, non-Steam games, or
// both.
type DesktopControllerLayoutHack struct {
	ApplyToSteamGames    bool
	ApplyToNonSteamGames bool
}

// AllToplevels returns the platform root followed by the declared extra
// toplevels, in execution order (§4.5, "platform runs first").
func (d PipelineDefinition) AllToplevels() []TopLevelDefinition {
	out := make([]TopLevelDefinition, 0, len(d.Toplevel)+1)
	out = append(out, d.Platform)
	out = append(out, d.Toplevel...)
	return out
}

// Validate checks I4 across every toplevel and that the platform root is
// present.
func (d PipelineDefinition) Validate() error {
	if d.Platform.Id == "" {
		return newMissingPlatformError(d.Id)
	}
	for _, tl := range d.AllToplevels() {
		if err := tl.Validate(); err != nil {
			return err
		}
	}
	return nil
}
