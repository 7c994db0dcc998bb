package testutil

import (
	"time"

	"github.com/CBirkbeck/modulechoices/internal/catalogue"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/google/uuid"
)

// DefaultSnapshots are the academic years every fixture catalogue knows about.
var DefaultSnapshots = []string{"2024/5", "2025/6"}

// Module options
type ModuleOption func(*catalogue.Module)

func WithCredits(n int) ModuleOption {
	return func(m *catalogue.Module) {
		m.Credits = catalogue.FlexInt(n)
	}
}

func WithPeriod(p string) ModuleOption {
	return func(m *catalogue.Module) {
		m.Period = p
	}
}

func WithSection(label string) ModuleOption {
	return func(m *catalogue.Module) {
		m.Section = label
	}
}

func WithNotes(notes string) ModuleOption {
	return func(m *catalogue.Module) {
		m.Notes = notes
	}
}

func WithRules(texts ...string) ModuleOption {
	return func(m *catalogue.Module) {
		m.ModuleRules = catalogue.Texts(texts)
	}
}

func WithRulesForYear(year string, texts ...string) ModuleOption {
	return func(m *catalogue.Module) {
		if m.RulesByYear == nil {
			m.RulesByYear = make(map[string]catalogue.Texts)
		}
		m.RulesByYear[year] = catalogue.Texts(texts)
	}
}

func WithAvailableYears(years ...string) ModuleOption {
	return func(m *catalogue.Module) {
		m.AvailableYears = years
	}
}

func Discontinued() ModuleOption {
	return func(m *catalogue.Module) {
		m.Discontinued = true
	}
}

// NewTestModule returns a 15-credit first-term row in Range A that is taught
// in every default snapshot.
func NewTestModule(code string, year int, opts ...ModuleOption) catalogue.Module {
	m := catalogue.Module{
		ModuleCode:     code,
		Description:    code + " description",
		Credits:        15,
		Period:         "SEM1",
		Year:           catalogue.YearLabel(yearLabel(year)),
		Section:        "Options Range A",
		AvailableYears: append([]string(nil), DefaultSnapshots...),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// NewTestCatalogue wraps rows in a combined catalogue file.
func NewTestCatalogue(mods ...catalogue.Module) *catalogue.File {
	return &catalogue.File{
		Course:        "MASTER OF MATHEMATICS",
		AcademicYears: append([]string(nil), DefaultSnapshots...),
		Modules:       mods,
	}
}

// Plan options
type PlanOption func(*domain.Plan)

func WithPlanUIDs(uids ...string) PlanOption {
	return func(p *domain.Plan) {
		p.UIDs = uids
	}
}

func WithEntryYear(y int) PlanOption {
	return func(p *domain.Plan) {
		p.EntryYear = y
	}
}

func NewTestPlan(name string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Plan{
		ID:        uuid.New().String(),
		Name:      name,
		EntryYear: 2025,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func yearLabel(year int) string {
	return "Year " + string(rune('0'+year)) + "U"
}
