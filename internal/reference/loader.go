package reference

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Schema names an external layout of the reference JSON.
type Schema string

const (
	// SchemaAuto picks nested or flat by inspecting the first object.
	SchemaAuto Schema = "auto"
	// SchemaNested is the canonical layout: one object per old code with a
	// "SAD nuovi" array of new codes, each with its own "Profili" array.
	SchemaNested Schema = "nested"
	// SchemaFlat is the older layout: one object per new code with scalar
	// "... 1" columns.
	SchemaFlat Schema = "flat"
)

// ParseSchema converts a config value into a Schema.
func ParseSchema(s string) (Schema, error) {
	switch Schema(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemaAuto:
		return SchemaAuto, nil
	case SchemaNested:
		return SchemaNested, nil
	case SchemaFlat:
		return SchemaFlat, nil
	default:
		return "", fmt.Errorf("unknown reference schema %q (want auto, nested or flat)", s)
	}
}

// Canonical key names.
const (
	keyArea          = "Area"
	keyOldCode       = "SAD vecchio"
	keyOldCodeName   = "SAD vecchio nome"
	keyNewCodes      = "SAD nuovi"
	keyNewCode       = "SAD nuovo"
	keyNewCodeName   = "SAD nuovo nome"
	keyProfiles      = "Profili"
	keyFields        = "Campi disciplinari"
	keyFlatOldCode   = "SAD vecchio 1"
	keyFlatOldName   = "SAD vecchio nome 1"
	keyFlatNewCode   = "SAD nuovo 1"
	keyFlatNewName   = "SAD nuovo nome 1"
	keyFlatProfile   = keyProfiles
	keyFlatDiscField = keyFields
)

// LoadErrorKind classifies a load failure.
type LoadErrorKind int

const (
	// Malformed means the source did not decode into a sequence of objects.
	Malformed LoadErrorKind = iota + 1
	// Empty means the source decoded to a sequence with no records.
	Empty
)

func (k LoadErrorKind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a *LoadError.
var (
	ErrMalformed = errors.New("reference data is malformed")
	ErrEmpty     = errors.New("reference data is empty")
)

// LoadError reports why a reference source could not become a Table.
type LoadError struct {
	Kind LoadErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load reference table: %s", e.Kind)
	}
	return fmt.Sprintf("load reference table: %s: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrMalformed) and errors.Is(err, ErrEmpty) work.
func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrMalformed:
		return e.Kind == Malformed
	case ErrEmpty:
		return e.Kind == Empty
	}
	return false
}

// LoadOptions controls decoding.
type LoadOptions struct {
	Schema Schema
	// Source is recorded on the table for diagnostics.
	Source string
}

// Load decodes a reference table from r.
//
// The input must be a JSON array of objects. Individual fields are read
// defensively: anything missing, null or of the wrong type contributes
// nothing instead of failing the load.
func Load(r io.Reader, opts LoadOptions) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Kind: Malformed, Err: fmt.Errorf("read source: %w", err)}
	}
	return Decode(data, opts)
}

// Decode is Load over an in-memory document.
func Decode(data []byte, opts LoadOptions) (*Table, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &LoadError{Kind: Malformed, Err: err}
	}
	if rows == nil {
		return nil, &LoadError{Kind: Malformed, Err: errors.New("document is null, want an array")}
	}
	if len(rows) == 0 {
		return nil, &LoadError{Kind: Empty}
	}

	objects := make([]map[string]json.RawMessage, 0, len(rows))
	for i, raw := range rows {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			return nil, &LoadError{Kind: Malformed, Err: fmt.Errorf("record %d is not an object", i)}
		}
		objects = append(objects, obj)
	}

	schema := opts.Schema
	if schema == "" || schema == SchemaAuto {
		schema = detectSchema(objects[0])
	}

	var records []Record
	switch schema {
	case SchemaFlat:
		records = decodeFlat(objects)
	case SchemaNested:
		records = decodeNested(objects)
	default:
		return nil, &LoadError{Kind: Malformed, Err: fmt.Errorf("unknown schema %q", schema)}
	}

	t := NewTable(records)
	t.Schema = schema
	t.Source = opts.Source
	return t, nil
}

// detectSchema guesses the layout from the keys of the first object.
func detectSchema(obj map[string]json.RawMessage) Schema {
	if _, ok := obj[keyNewCodes]; ok {
		return SchemaNested
	}
	if _, ok := obj[keyFlatNewCode]; ok {
		return SchemaFlat
	}
	return SchemaNested
}

func decodeNested(objects []map[string]json.RawMessage) []Record {
	records := make([]Record, 0, len(objects))
	for _, obj := range objects {
		rec := Record{
			Area:               Area(deref(optString(obj[keyArea]))),
			OldCode:            optString(obj[keyOldCode]),
			OldCodeName:        optString(obj[keyOldCodeName]),
			DisciplinaryFields: optStrings(obj[keyFields]),
		}
		for _, raw := range optObjects(obj[keyNewCodes]) {
			rec.NewCodes = append(rec.NewCodes, NewCode{
				Code:     deref(optString(raw[keyNewCode])),
				Name:     optString(raw[keyNewCodeName]),
				Profiles: optStrings(raw[keyProfiles]),
			})
		}
		records = append(records, rec)
	}
	return records
}

// optString returns the string value of raw, or nil when raw is absent,
// null or not a string.
func optString(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// optStrings returns the string elements of a JSON array. Non-string
// elements are skipped. Absent, null or non-array input yields nil; an
// empty array yields an empty non-nil slice.
func optStrings(raw json.RawMessage) []string {
	if isNull(raw) {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if s := optString(e); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// optObjects returns the object elements of a JSON array.
func optObjects(raw json.RawMessage) []map[string]json.RawMessage {
	if isNull(raw) {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	out := make([]map[string]json.RawMessage, 0, len(elems))
	for _, e := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(e, &obj); err != nil || obj == nil {
			continue
		}
		out = append(out, obj)
	}
	return out
}

// isNull reports whether raw is missing or the JSON literal null.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func newVersion() string {
	return ulid.Make().String()
}
