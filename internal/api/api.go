// Package api implements the daemon's REST API: pending confirmations,
// search triggers, upgrade decisions and lifecycle history.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fetcharr/fetcharr/internal/confirm"
	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/request"
	"github.com/fetcharr/fetcharr/internal/upgrade"
)

// Server is the REST API server.
type Server struct {
	pending   *confirm.Store
	confirmer *confirm.Confirmer
	requests  *request.Service
	upgrades  *upgrade.Adjudicator
	history   *history.Store
	version   string
}

// New creates an API server.
func New(pending *confirm.Store, confirmer *confirm.Confirmer, requests *request.Service, upgrades *upgrade.Adjudicator, hist *history.Store, version string) *Server {
	return &Server{
		pending:   pending,
		confirmer: confirmer,
		requests:  requests,
		upgrades:  upgrades,
		history:   hist,
		version:   version,
	}
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/pending", s.listPending)
	mux.HandleFunc("GET /api/pending/{id}", s.getPending)
	mux.HandleFunc("POST /api/confirm", s.confirm)
	mux.HandleFunc("POST /api/reject", s.reject)

	mux.HandleFunc("POST /api/search", s.search)
	mux.HandleFunc("POST /api/search/missing", s.searchMissing)

	mux.HandleFunc("GET /api/upgrades", s.listUpgrades)
	mux.HandleFunc("POST /api/upgrades/decide", s.decideUpgrade)

	mux.HandleFunc("GET /api/history", s.listHistory)
	mux.HandleFunc("GET /api/health", s.health)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

func decodeBody(r *http.Request, into any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(into)
}
