package planner

import (
	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/index"
)

// GroupScore summarises how an OR-group would be satisfied.
type GroupScore struct {
	// Resolved counts members that map to a real offering; ghosts are skipped.
	Resolved int
	// New counts resolved members that are neither selected nor queued.
	New int
}

// PreferGroup reports whether a is strictly better than b: a group that
// resolves to at least one real offering beats one that resolves to nothing,
// then fewer new selections win. Equal scores keep declaration order.
func PreferGroup(a, b GroupScore) bool {
	realA, realB := a.Resolved > 0, b.Resolved > 0
	if realA != realB {
		return realA
	}
	return a.New < b.New
}

// Closure finds and commits the prerequisites of a selected offering.
type Closure struct {
	validator *Validator
}

func NewClosure(v *Validator) *Closure {
	return &Closure{validator: v}
}

// FindBestEntryForCode picks the offering of code that should satisfy a rule
// on an offering in requiringYear. Only visible offerings are considered: a
// selected one wins, then the latest program year strictly before
// requiringYear, then the same year, then the earliest.
func FindBestEntryForCode(idx *index.Index, state *domain.SelectionState, code string, requiringYear int) (*domain.Offering, bool) {
	var visible []*domain.Offering
	for _, o := range idx.ByCode(code) {
		if o.Visible {
			visible = append(visible, o)
		}
	}
	if len(visible) == 0 {
		return nil, false
	}
	for _, o := range visible {
		if state.Has(o.UID) {
			return o, true
		}
	}

	var earlier, same *domain.Offering
	for _, o := range visible {
		switch {
		case o.ProgramYear < requiringYear:
			if earlier == nil || o.ProgramYear > earlier.ProgramYear {
				earlier = o
			}
		case o.ProgramYear == requiringYear && same == nil:
			same = o
		}
	}
	if earlier != nil {
		return earlier, true
	}
	if same != nil {
		return same, true
	}
	return visible[0], true
}

type groupChoice struct {
	score   GroupScore
	members []*domain.Offering
}

// resolveGroup maps an AND-group to offerings. ok is false when a non-ghost
// member has no visible offering.
func resolveGroup(idx *index.Index, state *domain.SelectionState, group []string, year int, queued map[string]bool) (groupChoice, bool) {
	var ch groupChoice
	for _, code := range group {
		if idx.IsGhost(code) {
			continue
		}
		o, ok := FindBestEntryForCode(idx, state, code, year)
		if !ok {
			return groupChoice{}, false
		}
		ch.members = append(ch.members, o)
		ch.score.Resolved++
		if !state.Has(o.UID) && !queued[o.UID] {
			ch.score.New++
		}
	}
	return ch, true
}

// GatherPrereqs returns the offerings that would have to be added for uid's
// prerequisite and corequisite clauses to hold, following the chosen
// candidates' own clauses recursively. Order is not significant.
func GatherPrereqs(idx *index.Index, state *domain.SelectionState, uid string) []*domain.Offering {
	origin, ok := idx.Get(uid)
	if !ok {
		return nil
	}

	visited := map[string]bool{origin.UID: true}
	queued := make(map[string]bool)
	var out []*domain.Offering

	var walk func(o *domain.Offering)
	walk = func(o *domain.Offering) {
		for _, clause := range o.Rules {
			if clause.IsExclusion() {
				continue
			}
			var best *groupChoice
			for _, group := range clause.OrGroups {
				ch, viable := resolveGroup(idx, state, group, o.ProgramYear, queued)
				if !viable {
					continue
				}
				if best == nil || PreferGroup(ch.score, best.score) {
					c := ch
					best = &c
				}
			}
			if best == nil {
				continue
			}

			var fresh []*domain.Offering
			for _, m := range best.members {
				if state.Has(m.UID) || queued[m.UID] || m.UID == origin.UID {
					continue
				}
				queued[m.UID] = true
				out = append(out, m)
				fresh = append(fresh, m)
			}
			for _, m := range fresh {
				if !visited[m.UID] {
					visited[m.UID] = true
					walk(m)
				}
			}
		}
	}
	walk(origin)
	return out
}

// AutoSelectPrerequisites commits uid's closure one candidate at a time,
// earliest year first. Each candidate is dry-run against the state as it
// stands; failures are reported and earlier successes are kept.
func (c *Closure) AutoSelectPrerequisites(idx *index.Index, state *domain.SelectionState, uid string) contract.AutoSelectResult {
	var res contract.AutoSelectResult
	cands := GatherPrereqs(idx, state, uid)
	CommitOrder(cands)

	for _, cand := range cands {
		verdict := c.validator.DryRun(idx, state, cand.UID)
		if !verdict.Accepted {
			res.Failed = append(res.Failed, contract.FailedPrereq{Code: cand.Code, UID: cand.UID, Reason: verdict.Reason})
			continue
		}
		state.Add(cand.UID)
		res.Selected = append(res.Selected, cand.Code)
		res.SelectedUIDs = append(res.SelectedUIDs, cand.UID)
	}
	return res
}
