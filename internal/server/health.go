package server

import (
	"encoding/json"
	"net/http"
)

const livenessText = "OpenAI API proxy server is running."

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, []byte(livenessText))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
