package scrape

import (
	"errors"
	"time"

	"github.com/CBirkbeck/modulechoices/internal/catalogue"
)

// Snapshot builds the per-year catalogue file for a profile. details is
// keyed by module code; rows without a detail page keep empty rules.
func Snapshot(p *Profile, details map[string]ModuleDetail, school string, scrapedAt time.Time) (*catalogue.File, error) {
	if p.AcademicYear == "" {
		return nil, errors.New("snapshot needs an academic year")
	}
	f := &catalogue.File{
		Course:       p.Course,
		School:       school,
		AcademicYear: p.AcademicYear,
		ScrapedAt:    scrapedAt.UTC().Format("2006-01-02 15:04:05"),
		Modules:      make([]catalogue.Module, 0, len(p.Rows)),
	}
	for _, row := range p.Rows {
		m := row.Module
		m.PrerequisiteCodes = []string{}
		if d, ok := details[m.ModuleCode]; ok {
			if d.Rules != "" {
				m.ModuleRules = catalogue.Texts{d.Rules}
			}
			m.PrerequisiteCodes = d.PrerequisiteCodes
			m.TableInfo = catalogue.CleanTableInfo(d.TableInfo())
		}
		f.Modules = append(f.Modules, m)
	}
	return f, nil
}
