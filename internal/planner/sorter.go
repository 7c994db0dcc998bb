package planner

import (
	"sort"

	"github.com/CBirkbeck/modulechoices/internal/catalogue"
	"github.com/CBirkbeck/modulechoices/internal/domain"
)

// CommitOrder sorts closure candidates so that chains are satisfied bottom-up:
// 1. Program year: earliest first
// 2. Code: lexical ascending
// 3. UID: lexical ascending
func CommitOrder(offs []*domain.Offering) {
	sort.SliceStable(offs, func(i, j int) bool {
		a, b := offs[i], offs[j]
		if a.ProgramYear != b.ProgramYear {
			return a.ProgramYear < b.ProgramYear
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.UID < b.UID
	})
}

// CanonicalSort sorts offerings for display:
// 1. Program year: earliest first
// 2. Section: Compulsory/Core, Range A, B, C, then others
// 3. Section label: lexical, so unranked sections group together
// 4. Code: lexical ascending
func CanonicalSort(offs []*domain.Offering) {
	sort.SliceStable(offs, func(i, j int) bool {
		a, b := offs[i], offs[j]
		if a.ProgramYear != b.ProgramYear {
			return a.ProgramYear < b.ProgramYear
		}
		rankA, rankB := catalogue.SectionRank(a.SectionKey), catalogue.SectionRank(b.SectionKey)
		if rankA != rankB {
			return rankA < rankB
		}
		if a.SectionKey != b.SectionKey {
			return a.SectionKey < b.SectionKey
		}
		return a.Code < b.Code
	})
}
