// Package reference loads the AFAM program-code reference table and resolves
// the cascading option lists derived from it.
//
// A [Table] is immutable once loaded. Every query is a method on *Table that
// scans the records in order and returns a fresh slice, so a snapshot can be
// shared freely between goroutines. A reload produces a new Table; the [Store]
// swaps the published pointer atomically.
//
// # Cascade
//
// The presentation layer walks a fixed chain of dependent selections:
//
//	Area -> CodesForArea
//	New code -> LabelForCode, ProfilesForCode, LegacyCodesForSelection
//	Old code -> LegacyLabel, DisciplinaryFields
//
// A missing or unknown value at any level yields an empty result rather than
// an error, so the UI degrades to "no options".
package reference

import (
	"time"
)

// Placeholder is returned by ProfilesForCode when a code has no real profile.
// It is display text, not selectable data.
const Placeholder = "- - -"

// Area is a top-level AFAM category tag, e.g. "ABA" or "ISSM".
type Area string

// NewCode is one current-scheme entry (SAD nuovo) attached to a record.
type NewCode struct {
	Code string
	// Name is nil when the source row carries no label.
	Name *string
	// Profiles is nil when absent and empty when present with no entries.
	Profiles []string
}

// Label returns the entry label or "" when absent.
func (n NewCode) Label() string {
	return deref(n.Name)
}

// Record is one row of the reference table: a legacy code (SAD vecchio) and
// the new codes it maps to.
type Record struct {
	Area               Area
	OldCode            *string
	OldCodeName        *string
	NewCodes           []NewCode
	DisciplinaryFields []string
}

// Legacy returns the old code or "" when absent.
func (r Record) Legacy() string {
	return deref(r.OldCode)
}

// LegacyName returns the old code label or "" when absent.
func (r Record) LegacyName() string {
	return deref(r.OldCodeName)
}

// hasNewCode reports whether any new-code entry equals code exactly.
func (r Record) hasNewCode(code string) bool {
	for _, nc := range r.NewCodes {
		if nc.Code == code {
			return true
		}
	}
	return false
}

// Table is an immutable snapshot of the reference data.
type Table struct {
	records []Record

	// Version identifies this snapshot. Each successful load gets a new one.
	Version  string
	LoadedAt time.Time
	Source   string
	Schema   Schema
}

// NewTable builds a table from already-decoded records. The slice is copied.
func NewTable(records []Record) *Table {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Table{
		records:  cp,
		Version:  newVersion(),
		LoadedAt: time.Now(),
	}
}

// Len returns the number of records. A nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of the records in table order.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	cp := make([]Record, len(t.records))
	copy(cp, t.records)
	return cp
}

// Areas returns the distinct areas present in the table, in encounter order.
func (t *Table) Areas() []Area {
	out := []Area{}
	if t == nil {
		return out
	}
	seen := make(map[Area]bool)
	for _, r := range t.records {
		if r.Area == "" || seen[r.Area] {
			continue
		}
		seen[r.Area] = true
		out = append(out, r.Area)
	}
	return out
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strPtr(s string) *string {
	return &s
}
