package plan

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/afamplan/internal/cascade"
	"github.com/JonMunkholm/afamplan/internal/reference"
)

func samplePlan() *Plan {
	return &Plan{
		Title:      "Diploma in Pianoforte",
		MaxCredits: 30,
		Activities: []Activity{
			{
				Type: TypeTeaching,
				Name: "Prassi esecutiva",
				Selection: cascade.State{
					Area: "ISSM", NewCode: "AFAM020", NewCodeLabel: "Pianoforte",
					Profile: "Pianoforte", OldCode: "CODI/21", DisciplinaryField: "Pianoforte storico",
				},
				Credits: 12,
				Mode:    ModeField,
			},
			{
				Type:     TypeSeminar,
				Name:     "Seminario <barocco>",
				Teaching: "Prassi storiche",
				Credits:  2,
			},
			{
				Type:      TypeTeaching,
				Selection: cascade.State{Area: "ISSM", NewCode: "AFAM002", Profile: reference.Placeholder},
				Teaching:  "Canto I",
				Credits:   6,
			},
		},
		FinalExam: FinalExam{Description: "Recital", Credits: 10},
	}
}

func TestRows(t *testing.T) {
	rows, err := Rows(samplePlan())
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}

	want := []Row{
		{RowActivity, []string{"1", "Insegnamento", "Prassi esecutiva", "ISSM", "AFAM020", "Pianoforte", "Pianoforte", "12", "Pianoforte storico"}},
		{RowActivity, []string{"2", "Seminari", "Seminario <barocco>", "-", "-", "Prassi storiche", "-", "2", "-"}},
		{RowActivity, []string{"3", "Insegnamento", "-", "ISSM", "AFAM002", "-", "-", "6", "Canto I"}},
		{RowFinalExam, []string{"PF", "Prova Finale", "-", "-", "-", "Recital", "-", "10", "-"}},
		{RowTotal, []string{"", "", "", "", "", "", "TOTALE", "30", ""}},
	}
	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i].Kind != want[i].Kind || !equal(rows[i].Cells, want[i].Cells) {
			t.Errorf("row %d = %v %q\nwant %v %q", i, rows[i].Kind, rows[i].Cells, want[i].Kind, want[i].Cells)
		}
		if len(rows[i].Cells) != len(Header) {
			t.Errorf("row %d has %d cells, header has %d", i, len(rows[i].Cells), len(Header))
		}
	}
}

func TestRows_FinalExamOnlyWithContent(t *testing.T) {
	p := &Plan{}
	p.Add(TypeOther)
	rows, err := Rows(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1].Kind != RowTotal {
		t.Errorf("rows = %+v, want activity and total only", rows)
	}

	exam := &Plan{FinalExam: FinalExam{Credits: 3}}
	rows, err = Rows(exam)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Kind != RowFinalExam || rows[0].Cells[5] != "-" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestRows_Empty(t *testing.T) {
	for _, p := range []*Plan{nil, {}, {Title: "x", MaxCredits: 10}} {
		if _, err := Rows(p); !errors.Is(err, ErrEmptyPlan) {
			t.Errorf("Rows(%+v) error = %v, want ErrEmptyPlan", p, err)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, samplePlan()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("len(records) = %d, want 6", len(records))
	}
	if !equal(records[0], Header) {
		t.Errorf("header = %v", records[0])
	}
	if records[5][6] != "TOTALE" || records[5][7] != "30" {
		t.Errorf("total row = %v", records[5])
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, &Plan{}); !errors.Is(err, ErrEmptyPlan) {
		t.Errorf("error = %v, want ErrEmptyPlan", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written, got %q", buf.String())
	}
}

func TestDocument(t *testing.T) {
	now := time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := Document(samplePlan(), now).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<h1>Diploma in Pianoforte</h1>",
		"Data: 07/03/2026",
		"<th>Denominazione</th>",
		"Seminario &lt;barocco&gt;",
		`<tr class="final">`,
		`<tr class="total">`,
		"Totale CFA: 30 / 30 (rimanenti 0)",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(html, "<barocco>") {
		t.Error("cell text must be escaped")
	}
}

func TestDocument_Budget(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		max  int
		want string
	}{
		{"no budget", 0, "Totale CFA: 30</p>"},
		{"over", 20, "Totale CFA: 30 / 20 (superati di 10)"},
		{"under", 40, "Totale CFA: 30 / 40 (rimanenti 10)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := samplePlan()
			p.MaxCredits = tt.max
			p.Title = ""
			var buf bytes.Buffer
			if err := Document(p, now).Render(context.Background(), &buf); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("document missing %q", tt.want)
			}
			if !strings.Contains(buf.String(), DefaultTitle) {
				t.Error("document should fall back to the default title")
			}
		})
	}
}

func TestDocument_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := Document(&Plan{}, time.Now()).Render(context.Background(), &buf)
	if !errors.Is(err, ErrEmptyPlan) {
		t.Errorf("error = %v, want ErrEmptyPlan", err)
	}
}
