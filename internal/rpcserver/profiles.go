package rpcserver

import (
	"fmt"

	"github.com/hashicorp/go-uuid"

	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/store"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// CreateProfileRequest names the template a new profile is seeded from and
// the tags it should carry (§4.2: a profile's pipeline starts as the
// registrar's default materialization of its template's toplevels).
type CreateProfileRequest struct {
	TemplateId model.PipelineDefinitionId
	Name       string
	Tags       []string
}

// CreateProfile materializes a new Profile from a registered Template:
// the template's toplevel shape is copied under a fresh PipelineDefinitionId,
// every reachable node gets its registrar default settings row, and any
// node with a concrete action Kind gets a zero-value settings payload ready
// to be refined later via SetProfile.
func (s *Server) CreateProfile(req CreateProfileRequest) (model.Profile, error) {
	tmpl, ok := s.findTemplate(req.TemplateId)
	if !ok {
		return model.Profile{}, errs.NewBadRequest("", "", "template_id", fmt.Errorf("unknown template %q", req.TemplateId))
	}

	defID, err := newPipelineDefinitionId()
	if err != nil {
		return model.Profile{}, errs.NewStoreError("create_profile", err)
	}

	def := tmpl.Pipeline
	def.Id = defID
	def.Name = req.Name

	entries := s.defaultEntries(def)

	if _, err := s.Store.SavePipeline(def, entries); err != nil {
		return model.Profile{}, err
	}

	profileID, err := newProfileId()
	if err != nil {
		return model.Profile{}, errs.NewStoreError("create_profile", err)
	}
	profile := model.Profile{Id: profileID, Tags: req.Tags, Pipeline: def}
	if err := s.Store.SaveProfile(profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

// defaultEntries walks every toplevel of def via the registrar and builds
// one PipelineSaveEntry per node that resolves to a concrete action Kind,
// seeding its payload with an empty JSON object so assembly.Build decodes
// it into that kind's zero-value *Settings struct (§4.2 "materialize
// defaults", generalized to also emit the store-level rows C3 expects).
func (s *Server) defaultEntries(def model.PipelineDefinition) []store.PipelineSaveEntry {
	var entries []store.PipelineSaveEntry

	for _, tl := range def.AllToplevels() {
		lookup := s.Registrar.MakeLookup(tl.Id, tl.Root)
		for key, nodeSettings := range lookup {
			for _, target := range []model.Target{model.Desktop, model.Gamemode} {
				if regDef, ok := s.Registrar.Get(key.Action, target); ok {
					entries = append(entries, store.PipelineSaveEntry{
						Toplevel: key.Toplevel,
						Action:   key.Action,
						Settings: nodeSettings,
						Record:   store.ActionRecord{Dtype: regDef.Kind, Payload: []byte("{}")},
					})
					break
				}
			}
		}
	}
	return entries
}

func (s *Server) findTemplate(id model.PipelineDefinitionId) (model.Template, bool) {
	for _, t := range s.Templates {
		if t.Id == id {
			return t, true
		}
	}
	return model.Template{}, false
}

// GetProfile fetches one profile by id.
func (s *Server) GetProfile(id model.ProfileId) (model.Profile, error) {
	return s.Store.LoadProfile(id)
}

// GetProfiles lists every stored profile.
func (s *Server) GetProfiles() ([]model.Profile, error) {
	return s.Store.ListProfiles()
}

// SetProfile upserts caller-supplied profile rows: the pipeline shape is
// saved via SavePipeline (so any node with a nil ActionId gets one
// assigned, per I1) and the Profile row is saved last.
func (s *Server) SetProfile(profile model.Profile, entries []store.PipelineSaveEntry) (model.Profile, error) {
	if profile.Id == "" {
		return model.Profile{}, errs.NewBadRequest("", "", "id", fmt.Errorf("profile id required"))
	}
	if _, err := s.Store.SavePipeline(profile.Pipeline, entries); err != nil {
		return model.Profile{}, err
	}
	if err := s.Store.SaveProfile(profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

// DeleteProfile removes a profile and its owned rows (§4.3 "Delete").
func (s *Server) DeleteProfile(id model.ProfileId) error {
	return s.Store.DeleteProfile(id)
}

func newProfileId() (model.ProfileId, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", err
	}
	return model.ProfileId(id), nil
}

func newPipelineDefinitionId() (model.PipelineDefinitionId, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", err
	}
	return model.PipelineDefinitionId(id), nil
}
