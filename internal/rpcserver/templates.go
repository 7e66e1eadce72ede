package rpcserver

import "github.com/duoscreen/orchestrator/internal/model"

// GetTemplates returns the built-in, read-only seed templates a new
// profile can be created from. Templates have no persisted row (§4.2): the
// set is fixed at Server construction and served from memory.
func (s *Server) GetTemplates() []model.Template {
	return s.Templates
}
