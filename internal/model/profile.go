package model

// Profile is a named, persisted, shareable pipeline definition.
type Profile struct {
	Id       ProfileId
	Tags     []string
	Pipeline PipelineDefinition
}

// HasTag reports whether the profile carries the given tag.
func (p Profile) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AppSettings is the per-app row naming which profile applies by default.
type AppSettings struct {
	AppId          AppId
	DefaultProfile *ProfileId
}

// AppOverride is a per-(app, profile) row whose PipelineDefinition replaces
// the matching profile for that specific app.
type AppOverride struct {
	AppId     AppId
	ProfileId ProfileId
	Pipeline  PipelineDefinition
}

// Key returns the composite primary key used by the reified store (§4.3).
func (o AppOverride) Key() (AppId, ProfileId) {
	return o.AppId, o.ProfileId
}

// Template is a built-in, read-only seed PipelineDefinition constructed in
// memory at startup (§3, "Lifecycle").
type Template struct {
	Id       PipelineDefinitionId
	Name     string
	Pipeline PipelineDefinition
}
