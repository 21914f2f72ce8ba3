package reference

import (
	"errors"
	"strings"
	"testing"
)

const nestedDoc = `[
  {
    "Area": "ABA",
    "SAD vecchio": "OLD01",
    "SAD vecchio nome": "Classical Painting",
    "SAD nuovi": [
      {"SAD nuovo": "AFAM001", "SAD nuovo nome": "Painting", "Profili": ["Fine Arts"]}
    ],
    "Campi disciplinari": ["Visual Arts"]
  }
]`

func TestLoad_Nested(t *testing.T) {
	tbl, err := Load(strings.NewReader(nestedDoc), LoadOptions{Source: "test"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}
	if tbl.Schema != SchemaNested {
		t.Errorf("Schema = %q, want %q", tbl.Schema, SchemaNested)
	}
	if tbl.Source != "test" {
		t.Errorf("Source = %q, want %q", tbl.Source, "test")
	}
	if tbl.Version == "" {
		t.Error("Version should be set")
	}

	rec := tbl.Records()[0]
	if rec.Area != "ABA" || rec.Legacy() != "OLD01" || rec.LegacyName() != "Classical Painting" {
		t.Errorf("unexpected record header: %+v", rec)
	}
	if len(rec.NewCodes) != 1 || rec.NewCodes[0].Code != "AFAM001" || rec.NewCodes[0].Label() != "Painting" {
		t.Errorf("unexpected new codes: %+v", rec.NewCodes)
	}
	if len(rec.DisciplinaryFields) != 1 || rec.DisciplinaryFields[0] != "Visual Arts" {
		t.Errorf("DisciplinaryFields = %v", rec.DisciplinaryFields)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind LoadErrorKind
		sentinel error
	}{
		{"empty array", `[]`, Empty, ErrEmpty},
		{"invalid json", `[{"Area":`, Malformed, ErrMalformed},
		{"object instead of array", `{"Area":"ABA"}`, Malformed, ErrMalformed},
		{"null document", `null`, Malformed, ErrMalformed},
		{"empty input", ``, Malformed, ErrMalformed},
		{"scalar element", `[1, 2]`, Malformed, ErrMalformed},
		{"null element", `[null]`, Malformed, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), LoadOptions{})
			if err == nil {
				t.Fatal("Load() expected error")
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("error %T is not *LoadError", err)
			}
			if le.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", le.Kind, tt.wantKind)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(err, %v) = false", tt.sentinel)
			}
		})
	}
}

func TestLoad_DefensiveFields(t *testing.T) {
	doc := `[
	  {"Area": 7, "SAD vecchio": null, "SAD nuovi": "nope", "Campi disciplinari": ["A", 3, "B"]},
	  {"Area": "ISSM", "SAD nuovi": [{"SAD nuovo": "AFAM010", "Profili": []}, 5, {"SAD nuovo": "AFAM011"}]}
	]`
	tbl, err := Load(strings.NewReader(doc), LoadOptions{Schema: SchemaNested})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	recs := tbl.Records()
	if recs[0].Area != "" {
		t.Errorf("mistyped Area should be absent, got %q", recs[0].Area)
	}
	if recs[0].OldCode != nil {
		t.Errorf("null old code should be absent, got %q", *recs[0].OldCode)
	}
	if recs[0].NewCodes != nil {
		t.Errorf("non-array new codes should be absent, got %v", recs[0].NewCodes)
	}
	if got := strings.Join(recs[0].DisciplinaryFields, ","); got != "A,B" {
		t.Errorf("DisciplinaryFields = %q, want %q", got, "A,B")
	}

	if len(recs[1].NewCodes) != 2 {
		t.Fatalf("expected non-object entries to be skipped, got %d codes", len(recs[1].NewCodes))
	}
	if recs[1].NewCodes[0].Profiles == nil || len(recs[1].NewCodes[0].Profiles) != 0 {
		t.Errorf("empty profile array should stay present and empty, got %#v", recs[1].NewCodes[0].Profiles)
	}
	if recs[1].NewCodes[1].Profiles != nil {
		t.Errorf("missing profiles should be nil, got %#v", recs[1].NewCodes[1].Profiles)
	}
	if recs[1].NewCodes[1].Name != nil {
		t.Error("missing name should be nil")
	}
}

func TestLoad_Flat(t *testing.T) {
	doc := `[
	  {"Area":"ABA","SAD vecchio 1":"ABAV01","SAD vecchio nome 1":"Pittura","SAD nuovo 1":"AFAM001","SAD nuovo nome 1":"Painting","Profili":"Fine Arts","Campi disciplinari":"Visual Arts"},
	  {"Area":"ABA","SAD vecchio 1":"ABAV01","SAD vecchio nome 1":"Pittura","SAD nuovo 1":"AFAM001","SAD nuovo nome 1":"Painting","Profili":"","Campi disciplinari":"Drawing"},
	  {"Area":"ABA","SAD vecchio 1":null}
	]`
	tbl, err := Load(strings.NewReader(doc), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tbl.Schema != SchemaFlat {
		t.Fatalf("Schema = %q, want auto-detected %q", tbl.Schema, SchemaFlat)
	}

	recs := tbl.Records()
	if len(recs) != 3 {
		t.Fatalf("len = %d, want 3", len(recs))
	}
	if got := recs[0].NewCodes[0].Profiles; len(got) != 1 || got[0] != "Fine Arts" {
		t.Errorf("row 0 profiles = %v", got)
	}
	if got := recs[1].NewCodes[0].Profiles; got == nil || len(got) != 0 {
		t.Errorf("row 1 profiles = %#v, want empty non-nil", got)
	}
	if recs[2].NewCodes != nil {
		t.Errorf("row without new code should have no entries, got %v", recs[2].NewCodes)
	}

	fields := tbl.DisciplinaryFields("ABAV01")
	if strings.Join(fields, "|") != "Drawing|Visual Arts" {
		t.Errorf("DisciplinaryFields = %v, want union across rows", fields)
	}
}

func TestParseSchema(t *testing.T) {
	tests := []struct {
		in      string
		want    Schema
		wantErr bool
	}{
		{"", SchemaAuto, false},
		{"auto", SchemaAuto, false},
		{"Nested", SchemaNested, false},
		{" flat ", SchemaFlat, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSchema(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSchema(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSchema(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad_NewVersionPerLoad(t *testing.T) {
	a, err := Decode([]byte(nestedDoc), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Decode([]byte(nestedDoc), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if a.Version == b.Version {
		t.Errorf("two loads share version %q", a.Version)
	}
}
