package rpcserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/store"
	errs "github.com/duoscreen/orchestrator/pkg/errors"
)

// Handler adapts Server to net/http, one route per verb in spec.md §6's
// RPC command surface. No router library from the examples fits a plain
// JSON-over-HTTP verb dispatch this small; stdlib net/http is used
// directly (see DESIGN.md).
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rpc/create_profile", s.handleCreateProfile)
	mux.HandleFunc("/rpc/get_profile", s.handleGetProfile)
	mux.HandleFunc("/rpc/get_profiles", s.handleGetProfiles)
	mux.HandleFunc("/rpc/set_profile", s.handleSetProfile)
	mux.HandleFunc("/rpc/delete_profile", s.handleDeleteProfile)
	mux.HandleFunc("/rpc/get_templates", s.handleGetTemplates)
	mux.HandleFunc("/rpc/get_pipeline_actions", s.handleGetPipelineActions)
	mux.HandleFunc("/rpc/autostart", s.handleAutostart)
	mux.HandleFunc("/rpc/add_client_teardown_action", s.handleAddClientTeardownAction)
	mux.HandleFunc("/rpc/get_client_teardown_actions", s.handleGetClientTeardownActions)
	mux.HandleFunc("/rpc/remove_client_teardown_actions", s.handleRemoveClientTeardownActions)
	mux.HandleFunc("/rpc/chunked_request", s.handleChunkedRequest)
	return mux
}

// writeJSON maps a handler's result onto the §7 taxonomy: a *BadRequest
// becomes 400, any other error 500, success 200.
func writeJSON(w http.ResponseWriter, result interface{}, err error) {
	if err != nil {
		var badRequest *errs.BadRequest
		status := http.StatusInternalServerError
		if errors.As(err, &badRequest) {
			status = http.StatusBadRequest
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if result == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	json.NewEncoder(w).Encode(result)
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewBadRequest("", "", "body", err)
	}
	return nil
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, nil, err)
		return
	}
	profile, err := s.CreateProfile(req)
	writeJSON(w, profile, err)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Id model.ProfileId `json:"id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, nil, err)
		return
	}
	profile, err := s.GetProfile(req.Id)
	writeJSON(w, profile, err)
}

func (s *Server) handleGetProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.GetProfiles()
	writeJSON(w, profiles, err)
}

func (s *Server) handleSetProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Profile model.Profile             `json:"profile"`
		Entries []store.PipelineSaveEntry `json:"entries"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, nil, err)
		return
	}
	profile, err := s.SetProfile(req.Profile, req.Entries)
	writeJSON(w, profile, err)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Id model.ProfileId `json:"id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, nil, err)
		return
	}
	writeJSON(w, nil, s.DeleteProfile(req.Id))
}

func (s *Server) handleGetTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.GetTemplates(), nil)
}

func (s *Server) handleGetPipelineActions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileId model.ProfileId `json:"profile_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, nil, err)
		return
	}
	statuses, err := s.GetPipelineActions(req.ProfileId)
	writeJSON(w, statuses, err)
}

func (s *Server) handleAutostart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IntentPath string `json:"intent_path"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, nil, err)
		return
	}
	env := execctx.NewDeckyEnv(os.LookupEnv)
	result, err := s.Autostart(r.Context(), req.IntentPath, env)
	writeJSON(w, result, err)
}

func (s *Server) handleAddClientTeardownAction(w http.ResponseWriter, r *http.Request) {
	var action ClientTeardownAction
	if err := decodeBody(r, &action); err != nil {
		writeJSON(w, nil, err)
		return
	}
	writeJSON(w, nil, s.AddClientTeardownAction(action))
}

func (s *Server) handleGetClientTeardownActions(w http.ResponseWriter, r *http.Request) {
	actions, err := s.GetClientTeardownActions()
	writeJSON(w, actions, err)
}

func (s *Server) handleRemoveClientTeardownActions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ids []string `json:"ids"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, nil, err)
		return
	}
	writeJSON(w, nil, s.RemoveClientTeardownActions(req.Ids))
}

func (s *Server) handleChunkedRequest(w http.ResponseWriter, r *http.Request) {
	var chunk Chunk
	if err := decodeBody(r, &chunk); err != nil {
		writeJSON(w, nil, err)
		return
	}
	var assembledReq struct {
		Verb string          `json:"verb"`
		Args json.RawMessage `json:"args"`
	}
	assembled, err := s.AddChunk(chunk, &assembledReq)
	if err != nil {
		writeJSON(w, nil, err)
		return
	}
	if !assembled {
		writeJSON(w, map[string]bool{"assembled": false}, nil)
		return
	}
	writeJSON(w, map[string]interface{}{"assembled": true, "verb": assembledReq.Verb}, nil)
}
