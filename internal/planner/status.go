package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/calendar"
	"github.com/CBirkbeck/modulechoices/internal/catalogue"
	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/index"
)

// Report summarises the selection per year of study: annual and semester
// loads, section buckets against their ranges, orphaned uids, ghost
// references and unmet prerequisite clauses.
func Report(idx *index.Index, state *domain.SelectionState, limits Limits, req contract.StatusRequest) *contract.StatusResponse {
	resp := &contract.StatusResponse{EntryYear: idx.Entry().Key()}
	active := Active(idx, state)

	for year := domain.MinProgramYear; year <= domain.MaxProgramYear; year++ {
		if req.ProgramYear != 0 && req.ProgramYear != year {
			continue
		}
		calYear := calendar.CalendarYear(idx.Entry(), year)
		resolved, _ := idx.Resolver().Resolve(calYear)
		load := YearLoad(idx, state, year)
		yl := contract.YearLoad{
			ProgramYear:    year,
			CalendarYear:   calYear.Key(),
			ResolvedYear:   resolved.Key(),
			Credits:        load.Credits,
			AnnualMax:      limits.AnnualMax,
			Semester1:      load.Semester1(),
			Semester2:      load.Semester2(),
			SemesterMax:    limits.SemesterMax,
			SemesterCapped: year >= limits.SemesterCapFromYear,
		}

		buckets := make(map[domain.SectionKey]int)
		for _, o := range active {
			if o.ProgramYear != year {
				continue
			}
			buckets[o.SectionKey] += o.Credits
			yl.Offerings = append(yl.Offerings, selectedView(idx, o))
		}
		for _, key := range sortedSections(buckets) {
			bl := contract.BucketLoad{Section: key, Credits: buckets[key]}
			if r := idx.SectionRange(domain.Bucket{ProgramYear: year, Section: key}); r != nil {
				bl.Range = r
				bl.Under = bl.Credits < r.Min
				bl.Over = bl.Credits > r.Max
			}
			yl.Buckets = append(yl.Buckets, bl)
		}
		resp.Years = append(resp.Years, yl)
	}

	if req.IncludeOrphans {
		resp.Orphaned = Orphans(idx, state)
	}
	resp.Ghosts = idx.Ghosts()
	for _, o := range active {
		if req.ProgramYear != 0 && o.ProgramYear != req.ProgramYear {
			continue
		}
		resp.Warnings = append(resp.Warnings, UnmetClauses(idx, state, o)...)
	}
	return resp
}

func selectedView(idx *index.Index, o *domain.Offering) contract.SelectedOffering {
	v := contract.SelectedOffering{
		UID:         o.UID,
		Code:        o.Code,
		Description: o.Description,
		Credits:     o.Credits,
		ProgramYear: o.ProgramYear,
		Period:      o.Period,
		Section:     o.SectionKey,
	}
	for _, c := range o.Rules {
		for _, code := range c.Codes() {
			if idx.IsGhost(code) {
				v.GhostRefs = append(v.GhostRefs, code)
			}
		}
	}
	return v
}

// UnmetClauses describes each prerequisite or corequisite clause of o that
// the active selection does not satisfy. A group is satisfied when every
// member that is not a ghost has a selected, visible offering.
func UnmetClauses(idx *index.Index, state *domain.SelectionState, o *domain.Offering) []string {
	selectedCodes := make(map[string]bool)
	for _, a := range Active(idx, state) {
		selectedCodes[a.Code] = true
	}

	var out []string
	for _, clause := range o.Rules {
		if clause.IsExclusion() {
			continue
		}
		met := false
		for _, group := range clause.OrGroups {
			ok := true
			for _, code := range group {
				if !idx.IsGhost(code) && !selectedCodes[code] {
					ok = false
					break
				}
			}
			if ok {
				met = true
				break
			}
		}
		if met {
			continue
		}
		alts := make([]string, len(clause.OrGroups))
		for i, g := range clause.OrGroups {
			alts[i] = strings.Join(g, " and ")
		}
		out = append(out, fmt.Sprintf("%s: %s not met (%s)", o.Code, strings.ReplaceAll(string(clause.Kind), "_", " "), strings.Join(alts, " or ")))
	}
	return out
}

func sortedSections(m map[domain.SectionKey]int) []domain.SectionKey {
	keys := make([]domain.SectionKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := catalogue.SectionRank(keys[i]), catalogue.SectionRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}
