package reference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5"
)

// ErrFetch wraps failures to reach a reference source, as opposed to a
// source whose content does not decode (see LoadError).
var ErrFetch = errors.New("reference source unavailable")

// Source yields the raw reference JSON document.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads the document from a local path.
type FileSource struct {
	Path string
}

// Open opens the file.
func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return f, nil
}

func (s FileSource) String() string {
	return "file:" + s.Path
}

// HTTPSource fetches the document with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Open performs the request. Any non-2xx status is a fetch error.
func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned status %d", ErrFetch, s.URL, resp.StatusCode)
	}
	return resp.Body, nil
}

func (s HTTPSource) String() string {
	return s.URL
}

// Querier is the subset of *pgxpool.Pool used by PostgresSource.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DefaultRecordsQuery aggregates reference rows into one JSON array, ordered
// by their position column.
const DefaultRecordsQuery = `SELECT json_agg(payload ORDER BY position) FROM reference_records`

// PostgresSource reads the document from a reference_records table whose
// payload column holds one record object per row.
type PostgresSource struct {
	DB    Querier
	Query string
}

// Open runs the aggregate query. A table with no rows yields "[]", which
// Load reports as Empty.
func (s PostgresSource) Open(ctx context.Context) (io.ReadCloser, error) {
	query := s.Query
	if query == "" {
		query = DefaultRecordsQuery
	}

	var doc []byte
	if err := s.DB.QueryRow(ctx, query).Scan(&doc); err != nil {
		return nil, fmt.Errorf("%w: query reference records: %w", ErrFetch, err)
	}
	if doc == nil {
		doc = []byte("[]")
	}
	return io.NopCloser(bytes.NewReader(doc)), nil
}

func (s PostgresSource) String() string {
	return "postgres:reference_records"
}

// Fetch opens src and loads its content.
func Fetch(ctx context.Context, src Source, schema Schema) (*Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Load(rc, LoadOptions{Schema: schema, Source: src.String()})
}
