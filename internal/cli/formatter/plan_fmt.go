package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/CBirkbeck/modulechoices/internal/calendar"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/repository"
)

// FormatPlanList renders saved plans.
func FormatPlanList(plans []repository.PlanSummary, now time.Time) string {
	if len(plans) == 0 {
		return Dim("No saved plans.") + "\n"
	}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			Bold(p.Name),
			calendar.AcademicYear(p.EntryYear).Key(),
			strconv.Itoa(p.Modules),
			HumanTimestamp(p.UpdatedAt, now),
		})
	}
	return RenderTable([]string{"NAME", "ENTRY", "MODULES", "UPDATED"}, rows, 2)
}

// FormatPlan confirms a saved or loaded plan.
func FormatPlan(verb string, p *domain.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s plan %s (entry %s, %d modules)\n",
		verb, Bold(p.Name), calendar.AcademicYear(p.EntryYear).Key(), len(p.UIDs))
	return b.String()
}
