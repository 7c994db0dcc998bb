package planner

import (
	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/index"
)

// Engine ties the validator to the closure engine for direct selections.
type Engine struct {
	Validator *Validator
	Closure   *Closure
	Limits    Limits
}

func NewEngine(limits Limits, policy CrossRangePolicy) *Engine {
	v := NewValidator(limits, policy)
	return &Engine{Validator: v, Closure: NewClosure(v), Limits: limits}
}

// Select validates uid and, once accepted, auto-selects its prerequisites.
// Re-selecting an already selected offering is a no-op.
func (e *Engine) Select(idx *index.Index, state *domain.SelectionState, uid string) contract.SelectResult {
	already := state.Has(uid)
	verdict := e.Validator.Add(idx, state, uid)
	res := contract.SelectResult{Verdict: verdict}
	if verdict.Accepted && !already {
		res.AutoSelect = e.Closure.AutoSelectPrerequisites(idx, state, uid)
	}
	return res
}

// Deselect removes uid. Removal is always allowed and never cascades.
func (e *Engine) Deselect(state *domain.SelectionState, uid string) bool {
	return state.Remove(uid)
}
