// Package model defines the dual-screen session orchestrator's data model:
// identifiers, the action-selection tree, and the profile/override rows
// the reified store persists.
package model

import "regexp"

// ActionId identifies one persisted action-kind row. The zero value marks
// "assign a fresh id on save" (I1).
type ActionId string

// IsNil reports whether the identifier has not yet been assigned.
func (id ActionId) IsNil() bool { return id == "" }

// ProfileId identifies one persisted Profile row.
type ProfileId string

// AppId identifies one persisted AppSettings row.
type AppId string

// PipelineDefinitionId identifies one persisted PipelineDefinition row.
type PipelineDefinitionId string

// TopLevelId identifies one TopLevelDefinition within a PipelineDefinition.
type TopLevelId string

// PipelineActionId is a content-path identifier of the form
// "scope:group:action[:variant]", e.g. "core:display:display_config:desktop".
type PipelineActionId string

var pipelineActionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+(:[a-zA-Z0-9_]+)+$`)

// Valid reports whether the identifier has the "scope:group:action[:variant]" shape.
func (id PipelineActionId) Valid() bool {
	return pipelineActionIDPattern.MatchString(string(id))
}

// WithVariant appends the registrar variant suffix for the given target,
// implementing the "id:variant(T)" half of I5's fallback lookup.
func (id PipelineActionId) WithVariant(t Target) PipelineActionId {
	suffix := t.Suffix()
	if suffix == "" {
		return id
	}
	return id + ":" + PipelineActionId(suffix)
}

// IsToplevel reports whether the identifier names a toplevel root, following
// the ":toplevel:" naming convention used by the registrar (§4.2).
func (id PipelineActionId) IsToplevel() bool {
	return containsSegment(string(id), "toplevel")
}

// IsPlatform reports whether the identifier names the platform root, following
// the ":platform" suffix convention used by the registrar (§4.2).
func (id PipelineActionId) IsPlatform() bool {
	s := string(id)
	return len(s) >= len(":platform") && s[len(s)-len(":platform"):] == ":platform"
}

func containsSegment(s, segment string) bool {
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ':' {
			if s[start:i] == segment {
				return true
			}
			start = i + 1
		}
	}
	return false
}

// Target selects which variant of a definition applies.
type Target string

const (
	// Desktop is the desktop-mode variant.
	Desktop Target = "desktop"
	// Gamemode is the game-mode variant.
	Gamemode Target = "gamemode"
)

// Suffix returns the registrar variant suffix for this target (I5).
func (t Target) Suffix() string {
	switch t {
	case Desktop:
		return "desktop"
	case Gamemode:
		return "gamemode"
	default:
		return ""
	}
}

// Valid reports whether t is a known target.
func (t Target) Valid() bool {
	return t == Desktop || t == Gamemode
}
