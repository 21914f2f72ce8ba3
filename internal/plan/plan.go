// Package plan holds a caller-owned curriculum plan: an ordered list of
// activities, a final exam and a credit budget. It renders the plan as the
// export table, a CSV spreadsheet and an HTML document.
package plan

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/JonMunkholm/afamplan/internal/cascade"
)

// DefaultTitle is used when a plan has no title.
const DefaultTitle = "Piano Didattico di Corso di Studi AFAM"

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrIndexOutOfRange  = errors.New("activity index out of range")
)

// ActivityType classifies an activity. Only teaching activities carry a
// cascade selection.
type ActivityType string

const (
	TypeTeaching    ActivityType = "Insegnamento"
	TypeLaboratory  ActivityType = "Laboratori"
	TypeSeminar     ActivityType = "Seminari"
	TypeMasterclass ActivityType = "Masterclass"
	TypeOther       ActivityType = "Altro"
)

// ActivityTypes lists the types in display order.
var ActivityTypes = []ActivityType{TypeTeaching, TypeLaboratory, TypeSeminar, TypeMasterclass, TypeOther}

// TeachingMode selects how a teaching activity is described: by a free-text
// name or by the chosen disciplinary field.
type TeachingMode string

const (
	ModeFree  TeachingMode = "libero"
	ModeField TeachingMode = "campoDisciplinare"
)

// Activity is one entry of the plan. For non-teaching types Teaching holds
// the free-text description.
type Activity struct {
	ID        uuid.UUID     `json:"id"`
	Type      ActivityType  `json:"type" validate:"activitytype"`
	Name      string        `json:"name" validate:"max=200"`
	Selection cascade.State `json:"selection"`
	Credits   int           `json:"credits" validate:"gte=0,lte=1000"`
	Teaching  string        `json:"teaching" validate:"max=500"`
	Mode      TeachingMode  `json:"mode" validate:"omitempty,teachingmode"`
}

// NewActivity returns an empty activity of type t with a fresh ID.
func NewActivity(t ActivityType) Activity {
	return Activity{ID: uuid.New(), Type: t, Mode: ModeFree}
}

// IsTeaching reports whether a is a teaching activity.
func (a Activity) IsTeaching() bool {
	return a.Type == TypeTeaching
}

// Complete reports whether a has what the export needs: teaching needs an
// area, a code and credits; other types need credits.
func (a Activity) Complete() bool {
	if a.Credits <= 0 {
		return false
	}
	if a.IsTeaching() {
		return a.Selection.Area != "" && a.Selection.NewCode != ""
	}
	return true
}

// SetMode switches the teaching mode and clears the value the other mode
// used.
func (a *Activity) SetMode(m TeachingMode) {
	a.Mode = m
	switch m {
	case ModeFree:
		a.Selection.DisciplinaryField = ""
	case ModeField:
		a.Teaching = ""
	}
}

// Details is the text shown in the Dettagli column.
func (a Activity) Details() string {
	if a.Teaching != "" {
		return a.Teaching
	}
	return a.Selection.DisciplinaryField
}

// FinalExam is the closing exam (prova finale).
type FinalExam struct {
	Description string `json:"description" validate:"max=500"`
	Credits     int    `json:"credits" validate:"gte=0,lte=1000"`
}

// Present reports whether the exam has any content.
func (f FinalExam) Present() bool {
	return f.Description != "" || f.Credits > 0
}

// Plan is the curriculum being built. The zero value is an empty plan with
// no budget.
type Plan struct {
	Title      string     `json:"title" validate:"max=200"`
	MaxCredits int        `json:"maxCredits" validate:"gte=0"`
	Activities []Activity `json:"activities" validate:"dive"`
	FinalExam  FinalExam  `json:"finalExam"`
}

// DisplayTitle returns the title or DefaultTitle.
func (p *Plan) DisplayTitle() string {
	if p.Title == "" {
		return DefaultTitle
	}
	return p.Title
}

// Add appends a new activity of type t and returns it.
func (p *Plan) Add(t ActivityType) Activity {
	a := NewActivity(t)
	p.Activities = append(p.Activities, a)
	return a
}

// Activity returns the activity with the given ID.
func (p *Plan) Activity(id uuid.UUID) (Activity, bool) {
	i := p.index(id)
	if i < 0 {
		return Activity{}, false
	}
	return p.Activities[i], true
}

// Update applies fn to the activity with the given ID. The ID is kept even
// if fn changes it.
func (p *Plan) Update(id uuid.UUID, fn func(*Activity)) error {
	i := p.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}
	fn(&p.Activities[i])
	p.Activities[i].ID = id
	return nil
}

// Remove deletes the activity with the given ID.
func (p *Plan) Remove(id uuid.UUID) error {
	i := p.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}
	p.Activities = append(p.Activities[:i], p.Activities[i+1:]...)
	return nil
}

// Move relocates the activity at index from to index to, shifting the ones
// in between.
func (p *Plan) Move(from, to int) error {
	n := len(p.Activities)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d to %d with %d activities", ErrIndexOutOfRange, from, to, n)
	}
	if from == to {
		return nil
	}
	a := p.Activities[from]
	if from < to {
		copy(p.Activities[from:to], p.Activities[from+1:to+1])
	} else {
		copy(p.Activities[to+1:from+1], p.Activities[to:from])
	}
	p.Activities[to] = a
	return nil
}

func (p *Plan) index(id uuid.UUID) int {
	for i, a := range p.Activities {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// TotalCredits sums the activity credits and the final exam.
func (p *Plan) TotalCredits() int {
	total := p.FinalExam.Credits
	for _, a := range p.Activities {
		total += a.Credits
	}
	return total
}

// Remaining returns the credits left in the budget. It is negative when the
// plan is over budget and zero when there is no budget.
func (p *Plan) Remaining() int {
	if p.MaxCredits <= 0 {
		return 0
	}
	return p.MaxCredits - p.TotalCredits()
}

// OverBudget reports whether the plan exceeds a set budget.
func (p *Plan) OverBudget() bool {
	return p.MaxCredits > 0 && p.TotalCredits() > p.MaxCredits
}

// Incomplete returns the IDs of activities that are not Complete, in plan
// order.
func (p *Plan) Incomplete() []uuid.UUID {
	out := []uuid.UUID{}
	for _, a := range p.Activities {
		if !a.Complete() {
			out = append(out, a.ID)
		}
	}
	return out
}

// Empty reports whether there is nothing to export.
func (p *Plan) Empty() bool {
	return len(p.Activities) == 0 && !p.FinalExam.Present()
}

// Summary is the running totals shown next to the plan.
type Summary struct {
	Title        string      `json:"title"`
	Activities   int         `json:"activities"`
	TotalCredits int         `json:"totalCredits"`
	MaxCredits   int         `json:"maxCredits"`
	Remaining    int         `json:"remaining"`
	OverBudget   bool        `json:"overBudget"`
	Incomplete   []uuid.UUID `json:"incomplete"`
}

// Summarize computes the plan totals.
func (p *Plan) Summarize() Summary {
	return Summary{
		Title:        p.DisplayTitle(),
		Activities:   len(p.Activities),
		TotalCredits: p.TotalCredits(),
		MaxCredits:   p.MaxCredits,
		Remaining:    p.Remaining(),
		OverBudget:   p.OverBudget(),
		Incomplete:   p.Incomplete(),
	}
}
