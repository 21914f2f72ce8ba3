package reference

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrNotLoaded is returned by Store.Require before any table is published.
var ErrNotLoaded = errors.New("reference table not loaded")

// Store publishes the current reference table.
//
// Readers call Current and keep the returned snapshot for as long as they
// need a consistent view; a concurrent reload never changes a table already
// handed out.
type Store struct {
	src    Source
	schema Schema

	current atomic.Pointer[Table]
	group   singleflight.Group
}

// NewStore returns a store that reloads from src. Nothing is loaded until
// Reload or Replace is called.
func NewStore(src Source, schema Schema) *Store {
	return &Store{src: src, schema: schema}
}

// Current returns the published table, or nil if none has loaded yet.
func (s *Store) Current() *Table {
	return s.current.Load()
}

// Require returns the published table or ErrNotLoaded.
func (s *Store) Require() (*Table, error) {
	t := s.current.Load()
	if t == nil {
		return nil, ErrNotLoaded
	}
	return t, nil
}

// Replace publishes t. A nil table is ignored.
func (s *Store) Replace(t *Table) {
	if t == nil {
		return
	}
	s.current.Store(t)
	tableRecords.Set(float64(t.Len()))
}

// Source returns the configured source.
func (s *Store) Source() Source {
	return s.src
}

// Reload fetches and decodes the source and publishes the result. Callers
// that arrive while a reload is in flight share its outcome. On failure
// the previously published table stays in place.
func (s *Store) Reload(ctx context.Context) (*Table, error) {
	v, err, shared := s.group.Do("reload", func() (any, error) {
		return s.reload(ctx)
	})
	if shared {
		slog.Debug("reference reload shared with concurrent caller")
	}
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

func (s *Store) reload(ctx context.Context) (*Table, error) {
	start := time.Now()
	t, err := Fetch(ctx, s.src, s.schema)
	reloadDuration.Observe(time.Since(start).Seconds())
	reloadTotal.WithLabelValues(reloadResult(err)).Inc()

	if err != nil {
		slog.Error("reference reload failed",
			"source", s.src.String(),
			"error", err,
			"kept_version", versionOf(s.Current()),
		)
		return nil, err
	}

	s.Replace(t)
	slog.Info("reference table loaded",
		"source", t.Source,
		"schema", t.Schema,
		"records", t.Len(),
		"version", t.Version,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return t, nil
}

func versionOf(t *Table) string {
	if t == nil {
		return ""
	}
	return t.Version
}
