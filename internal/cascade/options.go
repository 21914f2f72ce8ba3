package cascade

import (
	"github.com/JonMunkholm/afamplan/internal/reference"
)

// Options holds the choices offered for every level reachable from a State.
// A list for a level whose parent is unset is empty.
type Options struct {
	Codes       []string `json:"codes"`
	Profiles    []string `json:"profiles"`
	LegacyCodes []string `json:"legacyCodes"`
	Fields      []string `json:"fields"`
}

// Query tunes how OptionsFor computes the old-code list.
type Query struct {
	// HintFromProfile narrows old codes to those whose label shares a word
	// with the selected profile.
	HintFromProfile bool
	// FallbackToUnfiltered returns every old code when the hint leaves none.
	FallbackToUnfiltered bool
}

// DefaultQuery uses the profile as a hint with no fallback.
var DefaultQuery = Query{HintFromProfile: true}

// OptionsFor computes the option lists for s. Profiles and old codes both
// depend only on the chosen code; the profile additionally acts as a hint
// on the old codes when q asks for it.
func OptionsFor(t *reference.Table, s State, q Query) Options {
	opts := Options{
		Codes:       []string{},
		Profiles:    []string{},
		LegacyCodes: []string{},
		Fields:      []string{},
	}
	if s.Area == "" {
		return opts
	}
	opts.Codes = t.CodesForArea(s.Area)

	if s.NewCode == "" {
		return opts
	}
	opts.Profiles = t.ProfilesForCode(s.NewCode)
	opts.LegacyCodes = t.LegacyCodesForSelection(s.Area, s.NewCode, q.legacy(s))

	if s.OldCode == "" {
		return opts
	}
	opts.Fields = t.DisciplinaryFields(s.OldCode)
	return opts
}

func (q Query) legacy(s State) reference.LegacyQuery {
	lq := reference.LegacyQuery{FallbackToUnfiltered: q.FallbackToUnfiltered}
	if q.HintFromProfile && s.HasProfile() {
		lq.ProfileHint = s.Profile
	}
	return lq
}

// Suggestion is a proposed old code and field for the selected code and
// profile. It is never applied automatically.
type Suggestion struct {
	OldCode      string  `json:"oldCode"`
	OldCodeLabel string  `json:"oldCodeLabel"`
	Field        string  `json:"field"`
	Score        float64 `json:"score"`
}

// Suggest proposes the best-matching old code and field once a code and a
// real profile are chosen.
func Suggest(t *reference.Table, s State) (Suggestion, bool) {
	if s.NewCode == "" || !s.HasProfile() {
		return Suggestion{}, false
	}
	m, ok := t.BestDisciplinaryField(s.NewCode, s.Profile, true)
	if !ok || m.LegacyCode == "" {
		return Suggestion{}, false
	}
	return Suggestion{
		OldCode:      m.LegacyCode,
		OldCodeLabel: m.LegacyName,
		Field:        m.BestField,
		Score:        m.Score,
	}, true
}

// Accept applies sg to s as if the user had picked its old code and field.
func Accept(t *reference.Table, s State, sg Suggestion) State {
	s = SelectLegacyCode(t, s, sg.OldCode)
	return SelectField(s, sg.Field)
}
