// Package planner validates selections and computes prerequisite closures
// against an index.Index and an explicit domain.SelectionState.
package planner

import (
	"fmt"

	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/index"
)

// Limits are the credit caps applied to every year of study.
type Limits struct {
	SemesterMax         int
	AnnualMax           int
	SemesterCapFromYear int
}

func DefaultLimits() Limits {
	return Limits{
		SemesterMax:         70,
		AnnualMax:           120,
		SemesterCapFromYear: 2,
	}
}

// Violation describes why a check refused a candidate.
type Violation struct {
	Detail  string
	Message string
}

// Check is one validation rule. Evaluate must not mutate state.
type Check interface {
	Name() contract.CheckName
	Evaluate(idx *index.Index, state *domain.SelectionState, cand *domain.Offering) *Violation
}

// Validator runs its checks in order and stops at the first violation.
type Validator struct {
	checks []Check
}

// NewValidator returns the standard battery: exclusion, cross-range policy,
// section credits, semester load, annual load.
func NewValidator(limits Limits, policy CrossRangePolicy) *Validator {
	return NewValidatorWithChecks(
		exclusionCheck{},
		policy,
		sectionCheck{},
		semesterCheck{limits: limits},
		annualCheck{limits: limits},
	)
}

func NewValidatorWithChecks(checks ...Check) *Validator {
	return &Validator{checks: checks}
}

// Checks returns the check names in evaluation order.
func (v *Validator) Checks() []contract.CheckName {
	names := make([]contract.CheckName, len(v.checks))
	for i, c := range v.checks {
		names[i] = c.Name()
	}
	return names
}

// DryRun reports whether uid could be added without changing state.
// Adding an offering that is already selected is always accepted. An
// offering that is not taught for the entry cohort is refused before any
// check runs.
func (v *Validator) DryRun(idx *index.Index, state *domain.SelectionState, uid string) contract.Verdict {
	cand, ok := idx.Get(uid)
	if !ok {
		return contract.Rejected(uid, contract.CheckUnknown, uid+" not in catalogue", fmt.Sprintf("%s is not in the catalogue", uid))
	}
	if state.Has(uid) {
		return contract.Accepted(uid)
	}
	if !cand.Visible {
		return contract.Rejected(uid, contract.CheckNotOffered,
			fmt.Sprintf("%s not taught in %s", uid, cand.ResolvedYear),
			fmt.Sprintf("%s is not offered for this cohort", cand.Code))
	}
	for _, c := range v.checks {
		if viol := c.Evaluate(idx, state, cand); viol != nil {
			return contract.Rejected(uid, c.Name(), viol.Detail, viol.Message)
		}
	}
	return contract.Accepted(uid)
}

// Add validates uid and, on success, adds it to state. A rejected
// candidate leaves state untouched.
func (v *Validator) Add(idx *index.Index, state *domain.SelectionState, uid string) contract.Verdict {
	verdict := v.DryRun(idx, state, uid)
	if verdict.Accepted {
		state.Add(uid)
	}
	return verdict
}

type exclusionCheck struct{}

func (exclusionCheck) Name() contract.CheckName { return contract.CheckExclusion }

func (exclusionCheck) Evaluate(idx *index.Index, state *domain.SelectionState, cand *domain.Offering) *Violation {
	for _, peer := range cand.ExclusionPeers {
		if !state.Has(peer) {
			continue
		}
		code := peer
		if o, ok := idx.Get(peer); ok {
			code = o.Code
		}
		return &Violation{
			Detail:  fmt.Sprintf("%s excludes %s", cand.Code, peer),
			Message: fmt.Sprintf("%s cannot be taken with %s", cand.Code, code),
		}
	}
	return nil
}

type sectionCheck struct{}

func (sectionCheck) Name() contract.CheckName { return contract.CheckSectionCredits }

func (sectionCheck) Evaluate(idx *index.Index, state *domain.SelectionState, cand *domain.Offering) *Violation {
	b := cand.Bucket()
	r := idx.SectionRange(b)
	if r == nil {
		return nil
	}
	total := BucketCredits(idx, state, b) + cand.Credits
	if total <= r.Max {
		return nil
	}
	return &Violation{
		Detail:  fmt.Sprintf("year %d %s %d > %d", b.ProgramYear, b.Section, total, r.Max),
		Message: fmt.Sprintf("Year %d %s would reach %d credits (allowed %s)", b.ProgramYear, b.Section, total, r),
	}
}

type semesterCheck struct {
	limits Limits
}

func (semesterCheck) Name() contract.CheckName { return contract.CheckSemesterLoad }

func (c semesterCheck) Evaluate(idx *index.Index, state *domain.SelectionState, cand *domain.Offering) *Violation {
	if cand.ProgramYear < c.limits.SemesterCapFromYear {
		return nil
	}
	load := YearLoad(idx, state, cand.ProgramYear).plus(cand)
	capHalves := 2 * c.limits.SemesterMax
	for sem, halves := range [2]int{load.HalfSem1, load.HalfSem2} {
		if halves <= capHalves {
			continue
		}
		total := formatCredits(halves)
		return &Violation{
			Detail:  fmt.Sprintf("year %d semester %d %s > %d", cand.ProgramYear, sem+1, total, c.limits.SemesterMax),
			Message: fmt.Sprintf("Semester %d of year %d would reach %s credits (max %d)", sem+1, cand.ProgramYear, total, c.limits.SemesterMax),
		}
	}
	return nil
}

type annualCheck struct {
	limits Limits
}

func (annualCheck) Name() contract.CheckName { return contract.CheckAnnualLoad }

func (c annualCheck) Evaluate(idx *index.Index, state *domain.SelectionState, cand *domain.Offering) *Violation {
	total := YearLoad(idx, state, cand.ProgramYear).Credits + cand.Credits
	if total <= c.limits.AnnualMax {
		return nil
	}
	return &Violation{
		Detail:  fmt.Sprintf("year %d %d > %d", cand.ProgramYear, total, c.limits.AnnualMax),
		Message: fmt.Sprintf("Year %d would reach %d credits (max %d)", cand.ProgramYear, total, c.limits.AnnualMax),
	}
}

func formatCredits(halves int) string {
	if halves%2 == 0 {
		return fmt.Sprintf("%d", halves/2)
	}
	return fmt.Sprintf("%d.5", halves/2)
}
