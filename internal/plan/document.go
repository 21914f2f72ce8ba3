package plan

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// italianDate is the dd/mm/yyyy layout used on printed plans.
const italianDate = "02/01/2006"

// Document renders p as a standalone HTML page: title, date, the export
// table and the budget line. An empty plan renders ErrEmptyPlan.
func Document(p *Plan, now time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		rows, err := Rows(p)
		if err != nil {
			return err
		}
		d := &docWriter{w: w}

		title := templ.EscapeString(p.DisplayTitle())
		d.printf(`<!DOCTYPE html><html lang="it"><head><meta charset="utf-8"><title>%s</title>`, title)
		d.print(`<style>` + documentCSS + `</style></head><body>`)
		d.printf(`<h1>%s</h1>`, title)
		d.printf(`<p class="date">Data: %s</p>`, now.Format(italianDate))

		d.print(`<table><thead><tr>`)
		for _, h := range Header {
			d.printf(`<th>%s</th>`, templ.EscapeString(h))
		}
		d.print(`</tr></thead><tbody>`)
		for _, r := range rows {
			d.printf(`<tr class="%s">`, r.Kind)
			for _, c := range r.Cells {
				d.printf(`<td>%s</td>`, templ.EscapeString(c))
			}
			d.print(`</tr>`)
		}
		d.print(`</tbody></table>`)

		d.print(budgetLine(p))
		d.print(`</body></html>`)
		return d.err
	})
}

func budgetLine(p *Plan) string {
	total := strconv.Itoa(p.TotalCredits())
	switch {
	case p.MaxCredits <= 0:
		return `<p class="budget">Totale CFA: ` + total + `</p>`
	case p.OverBudget():
		return fmt.Sprintf(`<p class="budget over">Totale CFA: %s / %d (superati di %d)</p>`,
			total, p.MaxCredits, -p.Remaining())
	default:
		return fmt.Sprintf(`<p class="budget">Totale CFA: %s / %d (rimanenti %d)</p>`,
			total, p.MaxCredits, p.Remaining())
	}
}

// docWriter keeps the first write error so rendering reads top to bottom.
type docWriter struct {
	w   io.Writer
	err error
}

func (d *docWriter) print(s string) {
	if d.err != nil {
		return
	}
	_, d.err = io.WriteString(d.w, s)
}

func (d *docWriter) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

const documentCSS = `body{font-family:Helvetica,Arial,sans-serif;color:#292929;margin:2em}` +
	`h1{color:#36348e;font-size:18pt}` +
	`.date{color:#666;font-size:10pt}` +
	`table{border-collapse:collapse;width:100%;font-size:8pt}` +
	`th{background:#36348e;color:#fff;padding:4px}` +
	`td{padding:4px;border-bottom:1px solid #eee}` +
	`td:nth-child(8){text-align:center;font-weight:bold;color:#f75838}` +
	`tr.final td{background:#f8f9fa}` +
	`tr.total td{background:#f0f0f0;font-weight:bold;color:#292929}` +
	`.budget.over{color:#c0392b;font-weight:bold}`
