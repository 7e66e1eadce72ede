package rpcserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duoscreen/orchestrator/internal/assembly"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/registrar"
)

func testTemplate() model.Template {
	return model.Template{
		Id:   "tmpl-1",
		Name: "Single display",
		Pipeline: model.PipelineDefinition{
			Id: "tmpl-1",
			Platform: model.TopLevelDefinition{
				Id:      "platform",
				Root:    "core:display:root",
				Actions: []model.PipelineActionId{"core:display:root"},
			},
		},
	}
}

func newTestServer() *Server {
	reg := registrar.New([]registrar.PipelineActionDefinition{
		{Id: "core:display:root", Kind: model.KindDisplayConfig},
	})
	return New(newFakeStore(), reg, assembly.Deps{}, nil, nil, nil, nil, []model.Template{testTemplate()}, "")
}

func TestCreateProfileMaterializesDefaultsFromRegistrar(t *testing.T) {
	s := newTestServer()

	profile, err := s.CreateProfile(CreateProfileRequest{TemplateId: "tmpl-1", Name: "desk", Tags: []string{"daily"}})
	require.NoError(t, err)
	require.NotEmpty(t, profile.Id)
	require.Equal(t, []string{"daily"}, profile.Tags)

	fetched, err := s.GetProfile(profile.Id)
	require.NoError(t, err)
	require.Equal(t, profile.Id, fetched.Id)

	all, err := s.GetProfiles()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestDeleteProfileRemovesIt(t *testing.T) {
	s := newTestServer()
	profile, err := s.CreateProfile(CreateProfileRequest{TemplateId: "tmpl-1"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteProfile(profile.Id))

	_, err = s.GetProfile(profile.Id)
	require.Error(t, err)
}

func TestCreateProfileUnknownTemplateIsBadRequest(t *testing.T) {
	s := newTestServer()
	_, err := s.CreateProfile(CreateProfileRequest{TemplateId: "missing"})
	require.Error(t, err)
}

func TestGetTemplatesReturnsSeed(t *testing.T) {
	s := newTestServer()
	templates := s.GetTemplates()
	require.Len(t, templates, 1)
	require.Equal(t, model.PipelineDefinitionId("tmpl-1"), templates[0].Id)
}

func TestGetPipelineActionsReportsDependencyStatus(t *testing.T) {
	s := newTestServer()
	profile, err := s.CreateProfile(CreateProfileRequest{TemplateId: "tmpl-1"})
	require.NoError(t, err)

	statuses, err := s.GetPipelineActions(profile.Id)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	require.Equal(t, model.KindDisplayConfig, statuses[0].Kind)
	require.True(t, statuses[0].DependenciesSatisfied)
}

func TestClientTeardownActionsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer()
	s.clientStatePath = dir + "/client_state.json"

	require.NoError(t, s.AddClientTeardownAction(ClientTeardownAction{Id: "a1", Payload: []byte(`{"k":1}`)}))
	require.NoError(t, s.AddClientTeardownAction(ClientTeardownAction{Id: "a2"}))

	actions, err := s.GetClientTeardownActions()
	require.NoError(t, err)
	require.Len(t, actions, 2)

	require.NoError(t, s.RemoveClientTeardownActions([]string{"a1"}))

	actions, err = s.GetClientTeardownActions()
	require.NoError(t, err)
	require.Len(t, actions, 1)
	require.Equal(t, "a2", actions[0].Id)
}

func TestPublishNoOpsWithoutEventPublisher(t *testing.T) {
	s := newTestServer()
	s.publish(context.Background(), "pipeline.started", map[string]interface{}{"app_id": "steam:123"})
}

func TestPublishForwardsToEventPublisher(t *testing.T) {
	s := newTestServer()
	pub := &fakePublisher{}
	s.Events = pub

	s.publish(context.Background(), "pipeline.started", map[string]interface{}{"app_id": "steam:123"})

	require.Len(t, pub.published, 1)
	require.Equal(t, "pipeline.started", pub.published[0].EventType())
}

func TestChunkedRequestAssemblesOnFullMode(t *testing.T) {
	s := newTestServer()

	var out map[string]interface{}
	assembled, err := s.AddChunk(Chunk{RequestId: "req-1", Index: 1, Data: `,"b":2}`, Mode: ChunkPartial}, &out)
	require.NoError(t, err)
	require.False(t, assembled)

	assembled, err = s.AddChunk(Chunk{RequestId: "req-1", Index: 0, Data: `{"a":1`, Mode: ChunkFull}, &out)
	require.NoError(t, err)
	require.True(t, assembled)
	require.Equal(t, float64(1), out["a"])
	require.Equal(t, float64(2), out["b"])
}
