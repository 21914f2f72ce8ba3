package plan

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/afamplan/internal/cascade"
)

// ErrEmptyPlan is returned by exports of a plan with no activities and no
// final exam.
var ErrEmptyPlan = errors.New("empty plan: add at least one activity")

// Header is the first row of every export.
var Header = []string{"#", "Tipo", "Nome", "Area", "SAD", "Denominazione", "Profilo", "CFA", "Dettagli"}

const (
	blank          = "-"
	finalExamIndex = "PF"
	finalExamType  = "Prova Finale"
	totalLabel     = "TOTALE"
)

// Row kinds, used by the document to style rows.
const (
	RowActivity  = "activity"
	RowFinalExam = "final"
	RowTotal     = "total"
)

// Row is one line of the export table. Cells align with Header.
type Row struct {
	Kind  string
	Cells []string
}

// Rows builds the export table body: one row per activity, a final exam row
// when the exam has content, and a closing total. Header is not included.
func Rows(p *Plan) ([]Row, error) {
	if p == nil || p.Empty() {
		return nil, ErrEmptyPlan
	}

	rows := make([]Row, 0, len(p.Activities)+2)
	for i, a := range p.Activities {
		rows = append(rows, Row{Kind: RowActivity, Cells: activityCells(i+1, a)})
	}
	if p.FinalExam.Present() {
		rows = append(rows, Row{Kind: RowFinalExam, Cells: []string{
			finalExamIndex, finalExamType, blank, blank, blank,
			orBlank(p.FinalExam.Description), blank,
			strconv.Itoa(p.FinalExam.Credits), blank,
		}})
	}
	rows = append(rows, Row{Kind: RowTotal, Cells: []string{
		"", "", "", "", "", "", totalLabel, strconv.Itoa(p.TotalCredits()), "",
	}})
	return rows, nil
}

func activityCells(n int, a Activity) []string {
	if a.IsTeaching() {
		s := a.Selection
		return []string{
			strconv.Itoa(n),
			orBlank(string(a.Type)),
			orBlank(a.Name),
			orBlank(string(s.Area)),
			orBlank(s.NewCode),
			orBlank(s.NewCodeLabel),
			orBlank(profileCell(s)),
			strconv.Itoa(a.Credits),
			orBlank(a.Details()),
		}
	}
	return []string{
		strconv.Itoa(n),
		orBlank(string(a.Type)),
		orBlank(a.Name),
		blank,
		blank,
		orBlank(a.Teaching),
		blank,
		strconv.Itoa(a.Credits),
		blank,
	}
}

// profileCell hides the placeholder profile.
func profileCell(s cascade.State) string {
	if !s.HasProfile() {
		return ""
	}
	return s.Profile
}

func orBlank(s string) string {
	if s == "" {
		return blank
	}
	return s
}

// WriteCSV writes the header and the export rows to w.
func WriteCSV(w io.Writer, p *Plan) error {
	rows, err := Rows(p)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Cells); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
