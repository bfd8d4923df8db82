package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fetcharr/fetcharr/internal/confirm"
	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/request"
	"github.com/fetcharr/fetcharr/internal/upgrade"
)

// pendingSummary is the list representation of a pending confirmation; the
// full snapshot is served by getPending.
type pendingSummary struct {
	ID         int64  `json:"id"`
	Source     string `json:"source"`
	Title      string `json:"title"`
	Season     *int   `json:"season,omitempty"`
	Episode    *int   `json:"episode,omitempty"`
	Year       *int   `json:"year,omitempty"`
	Query      string `json:"query"`
	Candidates int    `json:"candidates"`
	IsUpgrade  bool   `json:"is_upgrade"`
	CreatedAt  string `json:"created_at"`
}

func summarize(p *confirm.Pending) pendingSummary {
	return pendingSummary{
		ID:         p.ID,
		Source:     string(p.Source),
		Title:      p.ItemTitle,
		Season:     p.Season,
		Episode:    p.Episode,
		Year:       p.Year,
		Query:      p.SearchQuery,
		Candidates: len(p.Results),
		IsUpgrade:  p.IsUpgrade,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) listPending(w http.ResponseWriter, r *http.Request) {
	pending, err := s.pending.ListPending()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	summaries := make([]pendingSummary, 0, len(pending))
	for _, p := range pending {
		summaries = append(summaries, summarize(p))
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) getPending(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	p, err := s.pending.Get(id)
	if errors.Is(err, confirm.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type confirmRequest struct {
	PendingID int64 `json:"pending_id"`
	Index     int   `json:"index"`
}

func (s *Server) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	rec, err := s.confirmer.Confirm(r.Context(), req.PendingID, req.Index)
	switch {
	case errors.Is(err, confirm.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, confirm.ErrAlreadyResolved):
		writeError(w, http.StatusConflict, "already_resolved", err.Error())
	case errors.Is(err, confirm.ErrNoSuchCandidate):
		writeError(w, http.StatusBadRequest, "bad_index", err.Error())
	case err != nil:
		writeError(w, http.StatusBadGateway, "upstream", err.Error())
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}

type rejectRequest struct {
	PendingID int64 `json:"pending_id"`
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	err := s.confirmer.Reject(req.PendingID)
	switch {
	case errors.Is(err, confirm.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, confirm.ErrAlreadyResolved):
		writeError(w, http.StatusConflict, "already_resolved", err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
	}
}

type searchRequest struct {
	Source        string `json:"source"`
	SourceID      *int64 `json:"source_id,omitempty"`
	Title         string `json:"title"`
	Season        *int   `json:"season,omitempty"`
	Episode       *int   `json:"episode,omitempty"`
	Year          *int   `json:"year,omitempty"`
	Destination   string `json:"destination,omitempty"`
	UpgradeFileID *int64 `json:"upgrade_file_id,omitempty"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "title is required")
		return
	}

	p, err := s.requests.Search(r.Context(), request.Request{
		Source:        history.Source(req.Source),
		SourceID:      req.SourceID,
		Title:         req.Title,
		Season:        req.Season,
		Episode:       req.Episode,
		Year:          req.Year,
		Destination:   req.Destination,
		UpgradeFileID: req.UpgradeFileID,
	})
	switch {
	case errors.Is(err, request.ErrNoResults):
		writeError(w, http.StatusNotFound, "no_results", err.Error())
	case errors.Is(err, request.ErrNoDestination), errors.Is(err, request.ErrUnknownSource):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case err != nil:
		writeError(w, http.StatusBadGateway, "upstream", err.Error())
	default:
		writeJSON(w, http.StatusCreated, summarize(p))
	}
}

func (s *Server) searchMissing(w http.ResponseWriter, r *http.Request) {
	created, err := s.requests.SweepMissing(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}

func (s *Server) listUpgrades(w http.ResponseWriter, r *http.Request) {
	records, err := s.upgrades.Pending()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	if records == nil {
		records = []*history.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

type decideRequest struct {
	HistoryID int64  `json:"history_id"`
	Decision  string `json:"decision"`
}

func (s *Server) decideUpgrade(w http.ResponseWriter, r *http.Request) {
	var req decideRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	err := s.upgrades.Decide(r.Context(), req.HistoryID, history.Decision(req.Decision))
	switch {
	case errors.Is(err, upgrade.ErrInvalidDecision), errors.Is(err, upgrade.ErrNotUpgrade):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, upgrade.ErrNotReady):
		writeError(w, http.StatusConflict, "not_ready", err.Error())
	case errors.Is(err, history.ErrAlreadyDecided):
		writeError(w, http.StatusConflict, "already_decided", err.Error())
	case errors.Is(err, history.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]string{"decision": req.Decision})
	}
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	var filter history.Filter

	if v := r.URL.Query().Get("source"); v != "" {
		src := history.Source(v)
		filter.Source = &src
	}
	if v := r.URL.Query().Get("status"); v != "" {
		st := history.Status(v)
		filter.Status = &st
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid limit")
			return
		}
		filter.Limit = limit
	}

	records, err := s.history.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	if records == nil {
		records = []*history.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}
