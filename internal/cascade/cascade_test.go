package cascade

import (
	"errors"
	"testing"

	"github.com/JonMunkholm/afamplan/internal/reference"
)

const fixture = `[
  {"Area":"ISSM","SAD vecchio":"COMJ/09","SAD vecchio nome":"Pianoforte jazz",
   "SAD nuovi":[{"SAD nuovo":"AFAM032","SAD nuovo nome":"Jazz","Profili":["Pianoforte jazz","Canto jazz"]}],
   "Campi disciplinari":["Pianoforte jazz","Tastiere elettroniche"]},
  {"Area":"ISSM","SAD vecchio":"COMJ/12","SAD vecchio nome":"Canto jazz",
   "SAD nuovi":[{"SAD nuovo":"AFAM032","Profili":["Canto jazz"]}],
   "Campi disciplinari":["Canto jazz"]},
  {"Area":"ISSM","SAD vecchio":"CODI/23","SAD vecchio nome":"Canto",
   "SAD nuovi":[{"SAD nuovo":"AFAM002","SAD nuovo nome":"Canto","Profili":[]}],
   "Campi disciplinari":["Canto","Canto barocco"]}
]`

func loadFixture(t *testing.T) *reference.Table {
	t.Helper()
	tbl, err := reference.Decode([]byte(fixture), reference.LoadOptions{})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return tbl
}

func full() State {
	return State{
		Area:              "ISSM",
		NewCode:           "AFAM032",
		NewCodeLabel:      "Jazz",
		Profile:           "Canto jazz",
		OldCode:           "COMJ/12",
		OldCodeLabel:      "Canto jazz",
		DisciplinaryField: "Canto jazz",
	}
}

func TestSelect_ClearsDownstream(t *testing.T) {
	tbl := loadFixture(t)

	tests := []struct {
		name string
		got  State
		want State
	}{
		{
			name: "area",
			got:  SelectArea(full(), "ABA"),
			want: State{Area: "ABA"},
		},
		{
			name: "code",
			got:  SelectCode(tbl, full(), "AFAM002"),
			want: State{Area: "ISSM", NewCode: "AFAM002", NewCodeLabel: "Canto"},
		},
		{
			name: "profile",
			got:  SelectProfile(full(), "Pianoforte jazz"),
			want: State{Area: "ISSM", NewCode: "AFAM032", NewCodeLabel: "Jazz", Profile: "Pianoforte jazz"},
		},
		{
			name: "old code",
			got:  SelectLegacyCode(tbl, full(), "COMJ/09"),
			want: State{Area: "ISSM", NewCode: "AFAM032", NewCodeLabel: "Jazz", Profile: "Canto jazz",
				OldCode: "COMJ/09", OldCodeLabel: "Pianoforte jazz"},
		},
		{
			name: "field",
			got:  SelectField(full(), " Tastiere elettroniche "),
			want: func() State { s := full(); s.DisciplinaryField = "Tastiere elettroniche"; return s }(),
		},
		{
			name: "unknown code keeps no label",
			got:  SelectCode(tbl, State{Area: "ISSM"}, "NOPE"),
			want: State{Area: "ISSM", NewCode: "NOPE"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %+v\nwant %+v", tt.got, tt.want)
			}
		})
	}
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	tbl := loadFixture(t)
	in := full()
	_ = SelectCode(tbl, in, "AFAM002")
	_ = SelectProfile(in, "x")
	_ = SelectLegacyCode(tbl, in, "COMJ/09")
	if in != full() {
		t.Errorf("input state changed: %+v", in)
	}
}

func TestApply(t *testing.T) {
	tbl := loadFixture(t)

	s, err := Apply(tbl, State{}, Change{Level: LevelArea, Value: "ISSM"})
	if err != nil {
		t.Fatal(err)
	}
	steps := []Change{
		{LevelCode, "AFAM032"},
		{LevelProfile, "Canto jazz"},
		{LevelOldCode, "COMJ/12"},
		{LevelField, "Canto jazz"},
	}
	for _, c := range steps {
		if s, err = Apply(tbl, s, c); err != nil {
			t.Fatalf("Apply(%v) error = %v", c, err)
		}
	}
	if s != full() {
		t.Errorf("state = %+v, want %+v", s, full())
	}
	if s.Depth() != 5 {
		t.Errorf("Depth() = %d, want 5", s.Depth())
	}

	_, err = Apply(tbl, s, Change{Level: "semester", Value: "1"})
	if !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("error = %v, want ErrUnknownLevel", err)
	}
}

func TestParseLevel(t *testing.T) {
	for _, l := range Levels {
		got, err := ParseLevel(string(l))
		if err != nil || got != l {
			t.Errorf("ParseLevel(%q) = %q, %v", l, got, err)
		}
	}
	if _, err := ParseLevel("Area"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("ParseLevel is case sensitive, got %v", err)
	}
}

func TestDepth(t *testing.T) {
	tests := []struct {
		s    State
		want int
	}{
		{State{}, 0},
		{State{Area: "ABA"}, 1},
		{State{Area: "ABA", NewCode: "AFAM001"}, 2},
		{State{Area: "ABA", OldCode: "X"}, 1},
	}
	for _, tt := range tests {
		if got := tt.s.Depth(); got != tt.want {
			t.Errorf("Depth(%+v) = %d, want %d", tt.s, got, tt.want)
		}
	}
}

func TestRefresh(t *testing.T) {
	tbl := loadFixture(t)
	s := State{Area: "ISSM", NewCode: "AFAM032", NewCodeLabel: "stale", OldCode: "CODI/23", OldCodeLabel: "stale"}
	got := Refresh(tbl, s)
	if got.NewCodeLabel != "Jazz" || got.OldCodeLabel != "Canto" {
		t.Errorf("Refresh() = %+v", got)
	}
}
