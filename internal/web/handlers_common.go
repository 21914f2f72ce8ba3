package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/afamplan/internal/core"
)

// writeJSON encodes v as JSON. Encoding errors are only logged since the
// headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json encode error", "error", err)
	}
}

// decodeJSON reads a JSON body of at most the configured size into v. Every
// failure wraps core.ErrInvalidRequest.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Export.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: body exceeds %d bytes", core.ErrInvalidRequest, tooLarge.Limit)
		}
		return fmt.Errorf("%w: decode body: %w", core.ErrInvalidRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: body must hold a single JSON value", core.ErrInvalidRequest)
	}
	return nil
}

// queryBool parses a boolean query parameter. Missing means false.
func queryBool(r *http.Request, name string) (bool, error) {
	val := strings.TrimSpace(r.URL.Query().Get(name))
	if val == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", core.ErrInvalidRequest, name)
	}
	return b, nil
}

// pathParam returns the unescaped URL parameter, so %2F arrives as "/".
func pathParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	v, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: bad path parameter %q", core.ErrInvalidRequest, raw)
	}
	return strings.TrimSpace(v), nil
}
