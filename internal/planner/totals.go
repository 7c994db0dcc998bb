package planner

import (
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/index"
)

// Load is the selected credit load for one year of study. Semester totals
// are kept in half credits so a full-year module splits exactly.
type Load struct {
	Credits  int
	HalfSem1 int
	HalfSem2 int
}

func (l Load) Semester1() float64 { return float64(l.HalfSem1) / 2 }
func (l Load) Semester2() float64 { return float64(l.HalfSem2) / 2 }

func (l Load) plus(o *domain.Offering) Load {
	s1, s2 := semesterHalves(o)
	return Load{Credits: l.Credits + o.Credits, HalfSem1: l.HalfSem1 + s1, HalfSem2: l.HalfSem2 + s2}
}

// semesterHalves returns the offering's contribution to each semester in
// half credits. Offerings with an unknown period count towards neither.
func semesterHalves(o *domain.Offering) (int, int) {
	switch o.Period {
	case domain.PeriodFirstTerm:
		return 2 * o.Credits, 0
	case domain.PeriodSecondTerm:
		return 0, 2 * o.Credits
	case domain.PeriodFullYear:
		return o.Credits, o.Credits
	default:
		return 0, 0
	}
}

// Active returns the selected offerings that count towards totals: present
// in the index and visible for the cohort.
func Active(idx *index.Index, state *domain.SelectionState) []*domain.Offering {
	var out []*domain.Offering
	for _, uid := range state.UIDs() {
		if o, ok := idx.Get(uid); ok && o.Visible {
			out = append(out, o)
		}
	}
	return out
}

// Orphans returns selected uids that no longer count: absent from the index
// or not visible for the cohort.
func Orphans(idx *index.Index, state *domain.SelectionState) []string {
	var out []string
	for _, uid := range state.UIDs() {
		if o, ok := idx.Get(uid); !ok || !o.Visible {
			out = append(out, uid)
		}
	}
	return out
}

// YearLoad sums the active selection for one year of study.
func YearLoad(idx *index.Index, state *domain.SelectionState, programYear int) Load {
	var l Load
	for _, o := range Active(idx, state) {
		if o.ProgramYear == programYear {
			l = l.plus(o)
		}
	}
	return l
}

// BucketCredits sums the active selection in one section bucket.
func BucketCredits(idx *index.Index, state *domain.SelectionState, b domain.Bucket) int {
	total := 0
	for _, o := range Active(idx, state) {
		if o.Bucket() == b {
			total += o.Credits
		}
	}
	return total
}
