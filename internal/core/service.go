package core

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/afamplan/internal/cascade"
	"github.com/JonMunkholm/afamplan/internal/plan"
	"github.com/JonMunkholm/afamplan/internal/reference"
)

// DefaultFetchTimeout bounds a reload when Options leaves it unset.
const DefaultFetchTimeout = 10 * time.Second

// Options tunes the Service.
type Options struct {
	// HintFallback returns unfiltered old codes when the profile hint
	// leaves none.
	HintFallback bool
	// MaxActivities caps plan size; 0 disables.
	MaxActivities int
	// DefaultTitle replaces an empty plan title on export.
	DefaultTitle string
	// FetchTimeout bounds each reload.
	FetchTimeout time.Duration
	// Exports limits concurrent renders. Nil means unlimited.
	Exports *ExportLimiter
}

// Service answers reference queries against the current table snapshot and
// builds plan exports. It is safe for concurrent use.
type Service struct {
	store *reference.Store
	areas reference.AreaCatalog
	opts  Options

	now func() time.Time
}

// NewService creates a Service over store.
func NewService(store *reference.Store, areas reference.AreaCatalog, opts Options) *Service {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	return &Service{
		store: store,
		areas: areas,
		opts:  opts,
		now:   time.Now,
	}
}

// Store returns the underlying table store.
func (s *Service) Store() *reference.Store {
	return s.store
}

// Table returns the current snapshot or reference.ErrNotLoaded.
func (s *Service) Table() (*reference.Table, error) {
	return s.store.Require()
}

// Areas returns the area catalog.
func (s *Service) Areas() reference.AreaCatalog {
	return s.areas
}

// Query returns the cascade settings derived from the options.
func (s *Service) Query() cascade.Query {
	return cascade.Query{HintFromProfile: true, FallbackToUnfiltered: s.opts.HintFallback}
}

// TableInfo describes the published snapshot.
type TableInfo struct {
	Version  string    `json:"version"`
	LoadedAt time.Time `json:"loadedAt"`
	Source   string    `json:"source"`
	Schema   string    `json:"schema"`
	Records  int       `json:"records"`
	Areas    []string  `json:"areas"`
}

// Info describes the current snapshot.
func (s *Service) Info() (TableInfo, error) {
	t, err := s.Table()
	if err != nil {
		return TableInfo{}, err
	}
	areas := []string{}
	for _, a := range t.Areas() {
		areas = append(areas, string(a))
	}
	return TableInfo{
		Version:  t.Version,
		LoadedAt: t.LoadedAt,
		Source:   t.Source,
		Schema:   string(t.Schema),
		Records:  t.Len(),
		Areas:    areas,
	}, nil
}

// Codes lists the new codes of area.
func (s *Service) Codes(area string) ([]string, error) {
	t, err := s.Table()
	if err != nil {
		return nil, err
	}
	return t.CodesForArea(reference.Area(strings.TrimSpace(area))), nil
}

// CodeInfo is the label and profiles of one new code.
type CodeInfo struct {
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Profiles []string `json:"profiles"`
}

// Code resolves a new code.
func (s *Service) Code(code string) (CodeInfo, error) {
	t, err := s.Table()
	if err != nil {
		return CodeInfo{}, err
	}
	code = strings.TrimSpace(code)
	return CodeInfo{
		Code:     code,
		Label:    t.LabelForCode(code),
		Profiles: t.ProfilesForCode(code),
	}, nil
}

// LegacyCodes lists the old codes for a selected area and new code,
// narrowed by the profile when one is given.
func (s *Service) LegacyCodes(area, code, profile string) ([]string, error) {
	t, err := s.Table()
	if err != nil {
		return nil, err
	}
	q := reference.LegacyQuery{
		ProfileHint:          strings.TrimSpace(profile),
		FallbackToUnfiltered: s.opts.HintFallback,
	}
	return t.LegacyCodesForSelection(reference.Area(strings.TrimSpace(area)), strings.TrimSpace(code), q), nil
}

// LegacyInfo is the label and disciplinary fields of one old code.
type LegacyInfo struct {
	OldCode string   `json:"oldCode"`
	Label   string   `json:"label"`
	Fields  []string `json:"fields"`
}

// Legacy resolves an old code.
func (s *Service) Legacy(oldCode string) (LegacyInfo, error) {
	t, err := s.Table()
	if err != nil {
		return LegacyInfo{}, err
	}
	oldCode = strings.TrimSpace(oldCode)
	return LegacyInfo{
		OldCode: oldCode,
		Label:   t.LegacyLabel(oldCode),
		Fields:  t.DisciplinaryFields(oldCode),
	}, nil
}

// Match runs the best-field search. strict disables case folding.
func (s *Service) Match(code, profile string, strict bool) (reference.Match, bool, error) {
	t, err := s.Table()
	if err != nil {
		return reference.Match{}, false, err
	}
	m, ok := t.BestDisciplinaryField(code, profile, !strict)
	return m, ok, nil
}

// CascadeResult is the outcome of one cascade step.
type CascadeResult struct {
	State      cascade.State       `json:"state"`
	Options    cascade.Options     `json:"options"`
	Suggestion *cascade.Suggestion `json:"suggestion,omitempty"`
}

// Cascade applies change to state and returns the new state with its
// options. An empty change level only recomputes the options.
func (s *Service) Cascade(state cascade.State, change cascade.Change) (CascadeResult, error) {
	t, err := s.Table()
	if err != nil {
		return CascadeResult{}, err
	}

	next := state
	if change.Level != "" {
		next, err = cascade.Apply(t, state, change)
		if err != nil {
			return CascadeResult{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}

	res := CascadeResult{
		State:   next,
		Options: cascade.OptionsFor(t, next, s.Query()),
	}
	if sg, ok := cascade.Suggest(t, next); ok {
		res.Suggestion = &sg
	}
	return res, nil
}

// PreparePlan validates p, enforces the activity cap and fills the default
// title.
func (s *Service) PreparePlan(p *plan.Plan) error {
	if p == nil {
		return fmt.Errorf("%w: missing plan", ErrInvalidRequest)
	}
	if err := p.CheckLimit(s.opts.MaxActivities); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Title == "" && s.opts.DefaultTitle != "" {
		p.Title = s.opts.DefaultTitle
	}
	return nil
}

// Summary validates p and returns its totals.
func (s *Service) Summary(p *plan.Plan) (plan.Summary, error) {
	if err := s.PreparePlan(p); err != nil {
		return plan.Summary{}, err
	}
	return p.Summarize(), nil
}

// ExportCSV writes p as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, p *plan.Plan) error {
	return s.export(ctx, p, func() error {
		return plan.WriteCSV(w, p)
	})
}

// ExportHTML renders p as an HTML document dated now.
func (s *Service) ExportHTML(ctx context.Context, w io.Writer, p *plan.Plan) error {
	return s.export(ctx, p, func() error {
		return plan.Document(p, s.now()).Render(ctx, w)
	})
}

func (s *Service) export(ctx context.Context, p *plan.Plan, render func() error) error {
	if err := s.PreparePlan(p); err != nil {
		return err
	}
	if p.Empty() {
		return plan.ErrEmptyPlan
	}
	if l := s.opts.Exports; l != nil {
		if err := l.Acquire(ctx); err != nil {
			return err
		}
		defer l.Release()
	}
	return render()
}

// Reload refreshes the reference table, bounded by the fetch timeout. The
// previous table stays published on failure.
func (s *Service) Reload(ctx context.Context) (*reference.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()
	return s.store.Reload(ctx)
}
