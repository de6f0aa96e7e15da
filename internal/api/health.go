package api

import "net/http"

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{
		"status":     "healthy",
		"agent_type": s.cfg.AgentType,
		"timestamp":  s.timestamp(),
	})
}
