package planner

import (
	"fmt"

	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/index"
)

// CrossRangePolicy makes one anchor module mutually exclusive with the
// modules of a given level in one option range, whatever their rule text
// says. An empty AnchorCode disables it.
type CrossRangePolicy struct {
	AnchorCode string
	Section    domain.SectionKey
	Level      int
}

func (p CrossRangePolicy) Name() contract.CheckName {
	return contract.CheckCrossRange
}

func (p CrossRangePolicy) Enabled() bool {
	return p.AnchorCode != ""
}

// covers reports whether o is one of the range modules the anchor excludes.
func (p CrossRangePolicy) covers(o *domain.Offering) bool {
	return o.Code != p.AnchorCode && o.SectionKey == p.Section && domain.Level(o.Code) == p.Level
}

func (p CrossRangePolicy) Evaluate(idx *index.Index, state *domain.SelectionState, cand *domain.Offering) *Violation {
	if !p.Enabled() {
		return nil
	}
	anchor := cand.Code == p.AnchorCode
	if !anchor && !p.covers(cand) {
		return nil
	}
	for _, o := range Active(idx, state) {
		switch {
		case anchor && p.covers(o):
			return &Violation{
				Detail:  fmt.Sprintf("%s conflicts with level %d %s module %s", cand.Code, p.Level, p.Section, o.Code),
				Message: fmt.Sprintf("%s cannot be taken alongside %s modules at level %d (%s is selected)", cand.Code, p.Section, p.Level, o.Code),
			}
		case !anchor && o.Code == p.AnchorCode:
			return &Violation{
				Detail:  fmt.Sprintf("%s conflicts with %s", cand.Code, p.AnchorCode),
				Message: fmt.Sprintf("Level %d %s modules cannot be taken alongside %s", p.Level, p.Section, p.AnchorCode),
			}
		}
	}
	return nil
}
