package catalogue

import (
	"fmt"
	"sort"

	"github.com/CBirkbeck/modulechoices/internal/calendar"
)

type combineKey struct {
	code string
	year YearLabel
}

// Combine merges per-year snapshot files into one catalogue. Rows are keyed
// by (code, year of study), since a module can be listed under more than one
// year. The most recent snapshot's row wins, available_years accumulates
// every snapshot the row appears in, content sections are merged, and
// rules_by_year is kept only when the rule text differs between snapshots.
func Combine(snapshots []*File) (*File, error) {
	type snap struct {
		year calendar.AcademicYear
		file *File
	}
	ordered := make([]snap, 0, len(snapshots))
	seenYears := make(map[calendar.AcademicYear]bool)
	for _, f := range snapshots {
		y, err := calendar.ParseAcademicYear(f.AcademicYear)
		if err != nil {
			return nil, fmt.Errorf("snapshot without a usable academic_year: %w", err)
		}
		if seenYears[y] {
			return nil, fmt.Errorf("duplicate snapshot for %s", y)
		}
		seenYears[y] = true
		ordered = append(ordered, snap{year: y, file: f})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].year < ordered[j].year })

	combined := make(map[combineKey]*Module)
	var keys []combineKey
	rules := make(map[combineKey]map[string]Texts)

	out := &File{}
	for _, s := range ordered {
		label := s.year.Key()
		out.AcademicYears = append(out.AcademicYears, label)
		if s.file.Course != "" {
			out.Course = s.file.Course
		}
		if s.file.School != "" {
			out.School = s.file.School
		}

		for i := range s.file.Modules {
			mod := s.file.Modules[i]
			key := combineKey{code: mod.CodeValue(), year: mod.Year}

			prev, exists := combined[key]
			var avail []string
			sections := make(map[string]string)
			if exists {
				avail = prev.AvailableYears
				for k, v := range prev.ContentSections {
					sections[k] = v
				}
			} else {
				keys = append(keys, key)
				rules[key] = make(map[string]Texts)
			}
			for k, v := range mod.ContentSections {
				sections[k] = v
			}
			if !containsString(avail, label) {
				avail = append(avail, label)
			}

			mod.AvailableYears = avail
			mod.ContentSections = sections
			mod.RulesByYear = nil
			mod.FullDetailText = ""
			combined[key] = &mod
			rules[key][label] = mod.ModuleRules
		}
	}

	for _, key := range keys {
		byYear := rules[key]
		if distinctTexts(byYear) > 1 {
			combined[key].RulesByYear = byYear
		}
	}

	out.Modules = make([]Module, 0, len(keys))
	for _, key := range keys {
		out.Modules = append(out.Modules, *combined[key])
	}
	SortModules(out.Modules)
	return out, nil
}

// SortModules orders rows by year of study, section, then code.
func SortModules(mods []Module) {
	sort.SliceStable(mods, func(i, j int) bool {
		a, b := &mods[i], &mods[j]
		if ya, yb := a.Year.Number(), b.Year.Number(); ya != yb {
			return ya < yb
		}
		if ra, rb := SectionRank(SectionKeyFor(a.Section)), SectionRank(SectionKeyFor(b.Section)); ra != rb {
			return ra < rb
		}
		return a.CodeValue() < b.CodeValue()
	})
}

func distinctTexts(byYear map[string]Texts) int {
	var uniq []Texts
	for _, t := range byYear {
		dup := false
		for _, u := range uniq {
			if u.Equal(t) {
				dup = true
				break
			}
		}
		if !dup {
			uniq = append(uniq, t)
		}
	}
	return len(uniq)
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
