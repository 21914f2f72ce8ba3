// Package cascade drives the dependent selection chain of one plan activity:
//
//	area -> new code -> profile -> old code -> disciplinary field
//
// Every function takes the reference snapshot and the caller's State by
// value and returns a new State. Nothing here keeps state between calls.
package cascade

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/afamplan/internal/reference"
)

// ErrUnknownLevel is returned by Apply for a level name outside the chain.
var ErrUnknownLevel = errors.New("unknown cascade level")

// Level names one step of the chain.
type Level string

const (
	LevelArea    Level = "area"
	LevelCode    Level = "code"
	LevelProfile Level = "profile"
	LevelOldCode Level = "oldCode"
	LevelField   Level = "field"
)

// Levels lists the chain in dependency order.
var Levels = []Level{LevelArea, LevelCode, LevelProfile, LevelOldCode, LevelField}

// ParseLevel returns the Level called name.
func ParseLevel(name string) (Level, error) {
	for _, l := range Levels {
		if string(l) == name {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// State is the selection of one activity. Labels are derived from the
// reference table when the matching level is selected.
type State struct {
	Area              reference.Area `json:"area"`
	NewCode           string         `json:"newCode"`
	NewCodeLabel      string         `json:"newCodeLabel"`
	Profile           string         `json:"profile"`
	OldCode           string         `json:"oldCode"`
	OldCodeLabel      string         `json:"oldCodeLabel"`
	DisciplinaryField string         `json:"disciplinaryField"`
}

// Depth returns how many levels are selected, counting from the area and
// stopping at the first blank one.
func (s State) Depth() int {
	vals := []string{string(s.Area), s.NewCode, s.Profile, s.OldCode, s.DisciplinaryField}
	for i, v := range vals {
		if v == "" {
			return i
		}
	}
	return len(vals)
}

// HasProfile reports whether a real profile is selected. The placeholder
// does not count.
func (s State) HasProfile() bool {
	return s.Profile != "" && s.Profile != reference.Placeholder
}

// Change is one user edit of the chain.
type Change struct {
	Level Level  `json:"level"`
	Value string `json:"value"`
}

// SelectArea sets the area and clears everything below it.
func SelectArea(s State, area reference.Area) State {
	return State{Area: reference.Area(strings.TrimSpace(string(area)))}
}

// SelectCode sets the new code, resolves its label and clears the levels
// below it.
func SelectCode(t *reference.Table, s State, code string) State {
	code = strings.TrimSpace(code)
	return State{
		Area:         s.Area,
		NewCode:      code,
		NewCodeLabel: t.LabelForCode(code),
	}
}

// SelectProfile sets the profile and clears the old code and field, since
// the profile narrows the old-code options.
func SelectProfile(s State, profile string) State {
	s.Profile = strings.TrimSpace(profile)
	s.OldCode, s.OldCodeLabel, s.DisciplinaryField = "", "", ""
	return s
}

// SelectLegacyCode sets the old code, resolves its label and clears the
// field.
func SelectLegacyCode(t *reference.Table, s State, oldCode string) State {
	s.OldCode = strings.TrimSpace(oldCode)
	s.OldCodeLabel = t.LegacyLabel(s.OldCode)
	s.DisciplinaryField = ""
	return s
}

// SelectField sets the disciplinary field.
func SelectField(s State, field string) State {
	s.DisciplinaryField = strings.TrimSpace(field)
	return s
}

// Apply dispatches c to the matching Select function.
func Apply(t *reference.Table, s State, c Change) (State, error) {
	switch c.Level {
	case LevelArea:
		return SelectArea(s, reference.Area(c.Value)), nil
	case LevelCode:
		return SelectCode(t, s, c.Value), nil
	case LevelProfile:
		return SelectProfile(s, c.Value), nil
	case LevelOldCode:
		return SelectLegacyCode(t, s, c.Value), nil
	case LevelField:
		return SelectField(s, c.Value), nil
	}
	return s, fmt.Errorf("%w: %q", ErrUnknownLevel, c.Level)
}

// Refresh re-derives the labels of s against t. Used after a reload so a
// stored selection shows the current names.
func Refresh(t *reference.Table, s State) State {
	s.NewCodeLabel = t.LabelForCode(s.NewCode)
	s.OldCodeLabel = t.LegacyLabel(s.OldCode)
	return s
}
