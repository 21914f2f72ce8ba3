package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/afamplan/internal/core"
	"github.com/JonMunkholm/afamplan/internal/reference"
)

const fixture = `[
  {"Area":"ISSM","SAD vecchio":"COMJ/09","SAD vecchio nome":"Pianoforte jazz",
   "SAD nuovi":[{"SAD nuovo":"AFAM032","SAD nuovo nome":"Jazz","Profili":["Pianoforte jazz","Canto jazz"]}],
   "Campi disciplinari":["Pianoforte jazz","Tastiere elettroniche"]},
  {"Area":"ISSM","SAD vecchio":"CODI/23","SAD vecchio nome":"Canto",
   "SAD nuovi":[{"SAD nuovo":"AFAM002","SAD nuovo nome":"Canto","Profili":[]}],
   "Campi disciplinari":["Canto","Canto barocco"]},
  {"Area":"XYZ","SAD vecchio":"X/01","SAD nuovi":[]}
]`

func writeFixture(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	path := writeFixture(t, fixture)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"validate", []string{"validate", path}, []string{"records: 3", "schema: nested", "areas: ISSM, XYZ", "not in catalog: XYZ"}},
		{"codes", []string{"codes", path, "--area", "ISSM"}, []string{"AFAM002\tCanto\nAFAM032\tJazz\n"}},
		{"legacy", []string{"legacy", path, "--area", "ISSM", "--code", "AFAM032"}, []string{"COMJ/09\tPianoforte jazz"}},
		{"legacy with fallback", []string{"legacy", path, "--area", "ISSM", "--code", "AFAM002", "--profile", "Violino", "--fallback"}, []string{"CODI/23\tCanto"}},
		{"fields", []string{"fields", path, "--old-code", "CODI/23"}, []string{"Canto\nCanto barocco\n"}},
		{"match", []string{"match", path, "--code", "AFAM032", "--profile", "pianoforte jazz"}, []string{"old code: COMJ/09", "field: Pianoforte jazz", "score: 1.00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
		})
	}
}

func TestCommands_JSON(t *testing.T) {
	path := writeFixture(t, fixture)
	out, err := run(t, "codes", path, "--area", "ISSM", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var items []labelled
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(items) != 2 || items[1].Code != "AFAM032" || items[1].Label != "Jazz" {
		t.Errorf("items = %+v", items)
	}
}

func TestCommands_Errors(t *testing.T) {
	path := writeFixture(t, fixture)

	tests := []struct {
		name     string
		args     []string
		sentinel error
	}{
		{"no match", []string{"match", path, "--code", "AFAM032", "--profile", "Arpa"}, core.ErrNoMatch},
		{"missing file", []string{"validate", filepath.Join(t.TempDir(), "none.json")}, reference.ErrFetch},
		{"empty table", []string{"validate", writeFixture(t, `[]`)}, reference.ErrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Execute() error = %v, want %v", err, tt.sentinel)
			}
		})
	}

	t.Run("missing required flag", func(t *testing.T) {
		if _, err := run(t, "codes", path); err == nil {
			t.Error("expected an error without --area")
		}
	})
	t.Run("bad schema", func(t *testing.T) {
		if _, err := run(t, "validate", path, "--schema", "csv"); err == nil {
			t.Error("expected an error for an unknown schema")
		}
	})
}
