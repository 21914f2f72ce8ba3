package reference

import (
	"slices"
	"sort"
	"strings"
)

// CodesForArea lists the new codes of every record in area, without
// duplicates, ordered by the numeric suffix of the code (AFAM002 before
// AFAM020). Codes with no trailing digits keep their positions; the
// suffixed codes are ordered among themselves in the remaining slots.
func (t *Table) CodesForArea(area Area) []string {
	out := []string{}
	if t == nil || area == "" {
		return out
	}

	seen := make(map[string]bool)
	for _, r := range t.records {
		if r.Area != area {
			continue
		}
		for _, nc := range r.NewCodes {
			if nc.Code == "" || seen[nc.Code] {
				continue
			}
			seen[nc.Code] = true
			out = append(out, nc.Code)
		}
	}

	sortBySuffix(out)
	return out
}

// sortBySuffix stably orders the codes that end in digits, leaving every
// other code where it is.
func sortBySuffix(codes []string) {
	var slots []int
	var suffixed []string
	for i, c := range codes {
		if trailingDigits(c) != "" {
			slots = append(slots, i)
			suffixed = append(suffixed, c)
		}
	}
	slices.SortStableFunc(suffixed, compareNumericSuffix)
	for i, slot := range slots {
		codes[slot] = suffixed[i]
	}
}

// compareNumericSuffix orders two codes by their trailing digit runs.
// If either code lacks one the codes compare equal.
func compareNumericSuffix(a, b string) int {
	da, db := trailingDigits(a), trailingDigits(b)
	if da == "" || db == "" {
		return 0
	}
	da, db = strings.TrimLeft(da, "0"), strings.TrimLeft(db, "0")
	if len(da) != len(db) {
		return len(da) - len(db)
	}
	return strings.Compare(da, db)
}

func trailingDigits(s string) string {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[i:]
}

// LabelForCode returns the label of the first new-code entry equal to code
// that carries one, scanning records in order. First listed wins.
func (t *Table) LabelForCode(code string) string {
	if t == nil || code == "" {
		return ""
	}
	for _, r := range t.records {
		for _, nc := range r.NewCodes {
			if nc.Code == code && nc.Label() != "" {
				return nc.Label()
			}
		}
	}
	return ""
}

// ProfilesForCode returns the profiles of the first new-code entry equal to
// code that has a profile list. When that list is empty, or no entry
// matches, the result is []string{Placeholder}; callers must not treat the
// placeholder as a real profile.
func (t *Table) ProfilesForCode(code string) []string {
	if code == "" {
		return []string{}
	}
	if t != nil {
		for _, r := range t.records {
			for _, nc := range r.NewCodes {
				if nc.Code != code || nc.Profiles == nil {
					continue
				}
				if len(nc.Profiles) == 0 {
					return []string{Placeholder}
				}
				return slices.Clone(nc.Profiles)
			}
		}
	}
	return []string{Placeholder}
}

// LegacyQuery narrows LegacyCodesForSelection.
type LegacyQuery struct {
	// ProfileHint keeps only old codes whose label shares a word with it.
	// Empty or Placeholder means no hint.
	ProfileHint string
	// FallbackToUnfiltered returns the unfiltered candidates when the hint
	// removes all of them.
	FallbackToUnfiltered bool
}

// LegacyCodesForSelection lists the old codes linked to code within area,
// de-duplicated and sorted.
func (t *Table) LegacyCodesForSelection(area Area, code string, q LegacyQuery) []string {
	if t == nil || area == "" || code == "" {
		return []string{}
	}

	var candidates []Record
	for _, r := range t.records {
		if r.Area == area && r.Legacy() != "" && r.hasNewCode(code) {
			candidates = append(candidates, r)
		}
	}

	hint := q.ProfileHint
	if hint != "" && hint != Placeholder {
		filtered := make([]Record, 0, len(candidates))
		for _, r := range candidates {
			if ShareWord(hint, r.LegacyName()) {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) > 0 || !q.FallbackToUnfiltered {
			candidates = filtered
		}
	}

	return sortedUnique(candidates, func(r Record) []string {
		return []string{r.Legacy()}
	})
}

// LegacyLabel returns the label of the first record whose old code equals
// oldCode.
func (t *Table) LegacyLabel(oldCode string) string {
	if t == nil || oldCode == "" {
		return ""
	}
	for _, r := range t.records {
		if r.Legacy() == oldCode {
			return r.LegacyName()
		}
	}
	return ""
}

// DisciplinaryFields returns the union of the disciplinary fields of every
// record whose old code equals oldCode, de-duplicated and sorted.
func (t *Table) DisciplinaryFields(oldCode string) []string {
	if t == nil || oldCode == "" {
		return []string{}
	}
	var matches []Record
	for _, r := range t.records {
		if r.Legacy() == oldCode {
			matches = append(matches, r)
		}
	}
	return sortedUnique(matches, func(r Record) []string {
		return r.DisciplinaryFields
	})
}

// sortedUnique collects the non-empty strings pick yields for each record,
// drops duplicates and sorts the result.
func sortedUnique(records []Record, pick func(Record) []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range records {
		for _, v := range pick(r) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Match is the outcome of BestDisciplinaryField.
type Match struct {
	LegacyCode string  `json:"legacyCode"`
	LegacyName string  `json:"legacyName"`
	NewCode    string  `json:"newCode"`
	Profile    string  `json:"profile"`
	BestField  string  `json:"bestField"`
	Score      float64 `json:"score"`
}

// BestDisciplinaryField finds the first record with a new-code entry equal
// to code whose profiles contain profile, then picks the record field most
// similar to that profile by Jaccard score. Ties keep the earlier field. A
// record with no fields yields an empty BestField and a Score of -1.
//
// The search stops at the first matching record, so the result depends on
// table order rather than being a global best.
func (t *Table) BestDisciplinaryField(code, profile string, caseInsensitive bool) (Match, bool) {
	if t == nil || code == "" || profile == "" {
		return Match{}, false
	}

	eq := func(a, b string) bool { return a == b }
	if caseInsensitive {
		eq = func(a, b string) bool {
			return strings.ToLower(strings.TrimSpace(a)) == strings.ToLower(strings.TrimSpace(b))
		}
	}

	for _, r := range t.records {
		for _, nc := range r.NewCodes {
			if !eq(nc.Code, code) {
				continue
			}
			found, ok := findProfile(nc.Profiles, profile, eq)
			if !ok {
				continue
			}

			m := Match{
				LegacyCode: r.Legacy(),
				LegacyName: r.LegacyName(),
				NewCode:    nc.Code,
				Profile:    found,
				Score:      -1,
			}
			target := Tokenize(found)
			for _, field := range r.DisciplinaryFields {
				if score := jaccardSets(target, Tokenize(field)); score > m.Score {
					m.Score = score
					m.BestField = field
				}
			}
			return m, true
		}
	}
	return Match{}, false
}

func findProfile(profiles []string, want string, eq func(a, b string) bool) (string, bool) {
	for _, p := range profiles {
		if eq(p, want) {
			return p, true
		}
	}
	return "", false
}
