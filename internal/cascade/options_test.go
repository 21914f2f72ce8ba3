package cascade

import (
	"reflect"
	"testing"

	"github.com/JonMunkholm/afamplan/internal/reference"
)

func TestOptionsFor(t *testing.T) {
	tbl := loadFixture(t)

	tests := []struct {
		name string
		s    State
		q    Query
		want Options
	}{
		{
			name: "nothing selected",
			s:    State{},
			q:    DefaultQuery,
			want: Options{Codes: []string{}, Profiles: []string{}, LegacyCodes: []string{}, Fields: []string{}},
		},
		{
			name: "area only",
			s:    State{Area: "ISSM"},
			q:    DefaultQuery,
			want: Options{Codes: []string{"AFAM002", "AFAM032"}, Profiles: []string{}, LegacyCodes: []string{}, Fields: []string{}},
		},
		{
			name: "code without profile",
			s:    State{Area: "ISSM", NewCode: "AFAM032"},
			q:    DefaultQuery,
			want: Options{
				Codes:       []string{"AFAM002", "AFAM032"},
				Profiles:    []string{"Pianoforte jazz", "Canto jazz"},
				LegacyCodes: []string{"COMJ/09", "COMJ/12"},
				Fields:      []string{},
			},
		},
		{
			name: "profile narrows old codes",
			s:    State{Area: "ISSM", NewCode: "AFAM032", Profile: "Pianoforte jazz"},
			q:    DefaultQuery,
			want: Options{
				Codes:       []string{"AFAM002", "AFAM032"},
				Profiles:    []string{"Pianoforte jazz", "Canto jazz"},
				LegacyCodes: []string{"COMJ/09", "COMJ/12"},
				Fields:      []string{},
			},
		},
		{
			name: "hint disabled",
			s:    State{Area: "ISSM", NewCode: "AFAM002", Profile: "Violino"},
			q:    Query{},
			want: Options{
				Codes:       []string{"AFAM002", "AFAM032"},
				Profiles:    []string{reference.Placeholder},
				LegacyCodes: []string{"CODI/23"},
				Fields:      []string{},
			},
		},
		{
			name: "hint without match",
			s:    State{Area: "ISSM", NewCode: "AFAM002", Profile: "Violino"},
			q:    DefaultQuery,
			want: Options{
				Codes:       []string{"AFAM002", "AFAM032"},
				Profiles:    []string{reference.Placeholder},
				LegacyCodes: []string{},
				Fields:      []string{},
			},
		},
		{
			name: "hint without match falls back",
			s:    State{Area: "ISSM", NewCode: "AFAM002", Profile: "Violino"},
			q:    Query{HintFromProfile: true, FallbackToUnfiltered: true},
			want: Options{
				Codes:       []string{"AFAM002", "AFAM032"},
				Profiles:    []string{reference.Placeholder},
				LegacyCodes: []string{"CODI/23"},
				Fields:      []string{},
			},
		},
		{
			name: "placeholder profile is no hint",
			s:    State{Area: "ISSM", NewCode: "AFAM002", Profile: reference.Placeholder},
			q:    DefaultQuery,
			want: Options{
				Codes:       []string{"AFAM002", "AFAM032"},
				Profiles:    []string{reference.Placeholder},
				LegacyCodes: []string{"CODI/23"},
				Fields:      []string{},
			},
		},
		{
			name: "old code lists fields",
			s:    full(),
			q:    DefaultQuery,
			want: Options{
				Codes:       []string{"AFAM002", "AFAM032"},
				Profiles:    []string{"Pianoforte jazz", "Canto jazz"},
				LegacyCodes: []string{"COMJ/09", "COMJ/12"},
				Fields:      []string{"Canto jazz"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OptionsFor(tbl, tt.s, tt.q)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("OptionsFor() = %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestOptionsFor_NilTable(t *testing.T) {
	got := OptionsFor(nil, full(), DefaultQuery)
	if len(got.Codes) != 0 || len(got.LegacyCodes) != 0 || len(got.Fields) != 0 {
		t.Errorf("nil table should give no options, got %+v", got)
	}
	if !reflect.DeepEqual(got.Profiles, []string{reference.Placeholder}) {
		t.Errorf("Profiles = %v, want placeholder", got.Profiles)
	}
}

func TestSuggest(t *testing.T) {
	tbl := loadFixture(t)

	t.Run("profile chosen", func(t *testing.T) {
		s := State{Area: "ISSM", NewCode: "AFAM032", Profile: "Canto jazz"}
		sg, ok := Suggest(tbl, s)
		if !ok {
			t.Fatal("expected a suggestion")
		}
		want := Suggestion{OldCode: "COMJ/09", OldCodeLabel: "Pianoforte jazz", Field: "Pianoforte jazz", Score: 1.0 / 3.0}
		if sg != want {
			t.Errorf("Suggest() = %+v, want %+v", sg, want)
		}

		applied := Accept(tbl, s, sg)
		if applied.OldCode != "COMJ/09" || applied.OldCodeLabel != "Pianoforte jazz" || applied.DisciplinaryField != "Pianoforte jazz" {
			t.Errorf("Accept() = %+v", applied)
		}
		if s.OldCode != "" {
			t.Error("Suggest must not apply the suggestion")
		}
	})

	t.Run("no profile", func(t *testing.T) {
		for _, s := range []State{
			{Area: "ISSM", NewCode: "AFAM032"},
			{Area: "ISSM", NewCode: "AFAM002", Profile: reference.Placeholder},
			{Area: "ISSM", Profile: "Canto jazz"},
		} {
			if _, ok := Suggest(tbl, s); ok {
				t.Errorf("Suggest(%+v) should not match", s)
			}
		}
	})
}
