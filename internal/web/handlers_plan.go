package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/afamplan/internal/cascade"
	"github.com/JonMunkholm/afamplan/internal/core"
	"github.com/JonMunkholm/afamplan/internal/plan"
	"github.com/JonMunkholm/afamplan/internal/reference"
)

// cascadeRequest is the body of POST /api/cascade.
type cascadeRequest struct {
	State  cascade.State  `json:"state"`
	Change cascade.Change `json:"change"`
}

// handleCascade applies one selection change and returns the new state with
// its option lists and an optional suggestion.
func (s *Server) handleCascade(w http.ResponseWriter, r *http.Request) {
	var req cascadeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.service.Cascade(req.State, req.Change)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleSummary returns the totals of the posted plan.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var p plan.Plan
	if err := s.decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	sum, err := s.service.Summary(&p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// exportFormat describes one export output.
type exportFormat struct {
	contentType string
	extension   string
	render      func(s *core.Service, ctx context.Context, w io.Writer, p *plan.Plan) error
}

var exportFormats = map[string]exportFormat{
	"csv": {
		contentType: "text/csv; charset=utf-8",
		extension:   "csv",
		render:      (*core.Service).ExportCSV,
	},
	"html": {
		contentType: "text/html; charset=utf-8",
		extension:   "html",
		render:      (*core.Service).ExportHTML,
	},
}

// handleExport renders the posted plan as ?format=csv (default) or html.
// The output is buffered so a render failure still gets a JSON error.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if name == "" {
		name = "csv"
	}
	format, ok := exportFormats[name]
	if !ok {
		s.fail(w, r, fmt.Errorf("%w: unknown export format %q", core.ErrInvalidRequest, name))
		return
	}

	var p plan.Plan
	if err := s.decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := format.render(s.service, r.Context(), &buf, &p); err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, exportFilename(p.DisplayTitle()), format.extension))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// exportFilename turns a title into an ASCII file name: "Attività Formative"
// becomes "attivita-formative".
func exportFilename(title string) string {
	folded := reference.FoldDiacritics(title)

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		return "piano"
	}
	return name
}
