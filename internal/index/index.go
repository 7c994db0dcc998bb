// Package index assembles catalogue records into the offering graph for one
// entry cohort.
//
// An Index is built from scratch and never modified afterwards. Changing the
// cohort means building a new Index and swapping the pointer, so reverse
// edges from a previous build can never leak into the next one.
package index

import (
	"sort"

	"github.com/CBirkbeck/modulechoices/internal/calendar"
	"github.com/CBirkbeck/modulechoices/internal/catalogue"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/rules"
)

// Index is the enriched offering graph for one entry cohort.
type Index struct {
	entry     calendar.AcademicYear
	resolver  *calendar.Resolver
	offerings map[string]*domain.Offering
	byCode    map[string][]*domain.Offering
	ghosts    map[string]bool
	sections  map[domain.Bucket]*domain.CreditRange
	order     []string
	skipped   int
}

// Build enriches every record for the cohort that entered in entry and
// derives the reverse edges. Records without a code or with a year of study
// outside 1-4 are skipped; a repeated (code, year) keeps the first row.
func Build(f *catalogue.File, entry calendar.AcademicYear) *Index {
	idx := &Index{
		entry:     entry,
		resolver:  calendar.NewResolver(f.SnapshotKeys()),
		offerings: make(map[string]*domain.Offering),
		byCode:    make(map[string][]*domain.Offering),
		ghosts:    make(map[string]bool),
		sections:  make(map[domain.Bucket]*domain.CreditRange),
	}

	for i := range f.Modules {
		o := idx.enrich(&f.Modules[i])
		if o == nil {
			idx.skipped++
			continue
		}
		if _, dup := idx.offerings[o.UID]; dup {
			idx.skipped++
			continue
		}
		idx.offerings[o.UID] = o
		idx.byCode[o.Code] = append(idx.byCode[o.Code], o)
		idx.order = append(idx.order, o.UID)

		b := o.Bucket()
		if idx.sections[b] == nil && o.SectionRange != nil {
			idx.sections[b] = o.SectionRange
		}
	}

	for _, offs := range idx.byCode {
		sort.SliceStable(offs, func(i, j int) bool { return offs[i].ProgramYear < offs[j].ProgramYear })
	}
	// Every offering in a bucket shares the bucket's range, whichever row
	// declared it.
	for _, o := range idx.offerings {
		o.SectionRange = idx.sections[o.Bucket()]
	}

	idx.link()
	return idx
}

func (idx *Index) enrich(m *catalogue.Module) *domain.Offering {
	code := m.CodeValue()
	year := m.Year.Number()
	if code == "" || !domain.ValidProgramYear(year) {
		return nil
	}

	label := catalogue.NormalizeSpace(m.Section)
	calYear := calendar.CalendarYear(idx.entry, year)
	resolved, visible := idx.resolver.Visible(calYear, m.AvailableYears, m.Discontinued)
	raw := rulesFor(m, resolved)

	credits := int(m.Credits)
	if credits < 0 {
		credits = 0
	}

	return &domain.Offering{
		UID:             domain.OfferingUID(code, year),
		Code:            code,
		Description:     catalogue.NormalizeSpace(m.Description),
		Assessment:      m.Assessment,
		Credits:         credits,
		Period:          catalogue.ParsePeriod(m.Period),
		ProgramYear:     year,
		SectionLabel:    label,
		SectionKey:      catalogue.SectionKeyFor(label),
		SectionRange:    catalogue.ParseSectionRange(label, m.Notes, m.CreditRule),
		Notes:           m.Notes,
		AvailableYears:  append([]string(nil), m.AvailableYears...),
		Discontinued:    m.Discontinued,
		Visible:         visible,
		ResolvedYear:    resolved.Key(),
		RawRuleText:     raw,
		Rules:           rules.ParseAll(raw),
		ContentSections: m.ContentSections,
	}
}

// rulesFor picks the rule text in force for the resolved snapshot. A
// rules_by_year entry for that snapshot wins, even when it is empty;
// otherwise module_rules applies.
func rulesFor(m *catalogue.Module, resolved calendar.AcademicYear) []string {
	for key, texts := range m.RulesByYear {
		if y, err := calendar.ParseAcademicYear(key); err == nil && y == resolved {
			return append([]string(nil), texts...)
		}
	}
	return append([]string(nil), m.ModuleRules...)
}

// link derives ghosts, exclusion peers and dependents from the parsed rules.
func (idx *Index) link() {
	peers := make(map[string]map[string]bool)
	dependents := make(map[string]map[string]bool)
	addPeer := func(a, b string) {
		if peers[a] == nil {
			peers[a] = make(map[string]bool)
		}
		peers[a][b] = true
	}

	for _, uid := range idx.order {
		src := idx.offerings[uid]
		for _, clause := range src.Rules {
			for _, code := range clause.Codes() {
				targets := idx.byCode[code]
				if len(targets) == 0 {
					idx.ghosts[code] = true
					continue
				}
				for _, t := range targets {
					if clause.IsExclusion() {
						if t.UID == src.UID {
							continue
						}
						addPeer(src.UID, t.UID)
						addPeer(t.UID, src.UID)
						continue
					}
					if dependents[t.UID] == nil {
						dependents[t.UID] = make(map[string]bool)
					}
					dependents[t.UID][src.UID] = true
				}
			}
		}
	}

	for uid, o := range idx.offerings {
		o.ExclusionPeers = sortedKeys(peers[uid])
		o.Dependents = sortedKeys(dependents[uid])
	}
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Entry returns the cohort the index was built for.
func (idx *Index) Entry() calendar.AcademicYear {
	return idx.entry
}

// Resolver returns the snapshot resolver used for the build.
func (idx *Index) Resolver() *calendar.Resolver {
	return idx.resolver
}

// Get returns the offering with uid.
func (idx *Index) Get(uid string) (*domain.Offering, bool) {
	o, ok := idx.offerings[uid]
	return o, ok
}

// ByCode returns every offering of code, earliest program year first.
func (idx *Index) ByCode(code string) []*domain.Offering {
	return idx.byCode[code]
}

// Offerings returns all offerings in catalogue order.
func (idx *Index) Offerings() []*domain.Offering {
	out := make([]*domain.Offering, 0, len(idx.order))
	for _, uid := range idx.order {
		out = append(out, idx.offerings[uid])
	}
	return out
}

// Len is the number of offerings in the index.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Skipped is the number of records Build could not use.
func (idx *Index) Skipped() int {
	return idx.skipped
}

// IsGhost reports whether code is referenced by a rule but not offered.
func (idx *Index) IsGhost(code string) bool {
	return idx.ghosts[code]
}

// Ghosts returns every ghost code, sorted.
func (idx *Index) Ghosts() []string {
	return sortedKeys(idx.ghosts)
}

// SectionRange returns the credit range declared for a bucket, or nil when
// the bucket is unconstrained.
func (idx *Index) SectionRange(b domain.Bucket) *domain.CreditRange {
	return idx.sections[b]
}

// Lookup resolves a uid, or a bare code to its earliest visible offering
// (earliest offering of any visibility when none is visible).
func (idx *Index) Lookup(ref string) (*domain.Offering, bool) {
	if o, ok := idx.offerings[ref]; ok {
		return o, true
	}
	offs := idx.byCode[ref]
	if len(offs) == 0 {
		return nil, false
	}
	for _, o := range offs {
		if o.Visible {
			return o, true
		}
	}
	return offs[0], true
}
