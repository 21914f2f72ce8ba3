package web

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/afamplan/internal/core"
)

// healthResponse is the body of /healthz.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Records int    `json:"records"`
}

// handleHealth reports 200 once a table is loaded, 503 before.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	t, err := s.service.Table()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: t.Version, Records: t.Len()})
}

func (s *Server) handleReferenceInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Info()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleAreas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Areas())
}

// handleCodes lists the new codes of ?area=. An unknown area lists none.
func (s *Server) handleCodes(w http.ResponseWriter, r *http.Request) {
	area := r.URL.Query().Get("area")
	codes, err := s.service.Codes(area)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"area": area, "codes": codes})
}

func (s *Server) handleCode(w http.ResponseWriter, r *http.Request) {
	code, err := pathParam(r, "code")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	info, err := s.service.Code(code)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleLegacyCodes lists old codes for ?area=&code=, narrowed by ?profile=.
func (s *Server) handleLegacyCodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	codes, err := s.service.LegacyCodes(q.Get("area"), q.Get("code"), q.Get("profile"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"oldCodes": codes})
}

func (s *Server) handleLegacy(w http.ResponseWriter, r *http.Request) {
	oldCode, err := pathParam(r, "*")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	info, err := s.service.Legacy(oldCode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleMatch runs the best-field search. ?strict=true compares exactly.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	strict, err := queryBool(r, "strict")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	m, ok, err := s.service.Match(q.Get("code"), q.Get("profile"), strict)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		s.fail(w, r, core.ErrNoMatch)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// reloadResponse is the body of a successful reload.
type reloadResponse struct {
	Version    string `json:"version"`
	Records    int    `json:"records"`
	DurationMs int64  `json:"durationMs"`
}

// handleReload refreshes the table. On failure the previous table stays.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	t, err := s.service.Reload(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{
		Version:    t.Version,
		Records:    t.Len(),
		DurationMs: time.Since(start).Milliseconds(),
	})
}
