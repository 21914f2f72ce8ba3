package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestResponseWriter_Captures(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := wrap(rec)

	ww.WriteHeader(http.StatusTeapot)
	ww.WriteHeader(http.StatusOK)
	ww.Write([]byte("hello"))

	if ww.status != http.StatusTeapot {
		t.Errorf("status = %d, want first header", ww.status)
	}
	if ww.bytes != 5 {
		t.Errorf("bytes = %d, want 5", ww.bytes)
	}
	if wrap(ww) != ww {
		t.Error("wrap should reuse an existing wrapper")
	}
}

func TestRoutePattern(t *testing.T) {
	var inside string
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req)
			inside = routePattern(req)
		})
	})
	r.Get("/api/codes/{code}", func(w http.ResponseWriter, req *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/codes/AFAM001", nil))
	if inside != "/api/codes/{code}" {
		t.Errorf("routePattern = %q", inside)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	if inside != "unmatched" {
		t.Errorf("routePattern for 404 = %q, want unmatched", inside)
	}
}

func TestLoggerAndMetrics_PassThrough(t *testing.T) {
	h := Logger(Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}
