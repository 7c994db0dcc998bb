package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/contract"
)

const loadBarWidth = 12

// FormatStatus renders the per-year credit report.
func FormatStatus(resp *contract.StatusResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Dim("Entry cohort:"), Bold(resp.EntryYear))

	for _, y := range resp.Years {
		b.WriteString("\n")
		title := fmt.Sprintf("Year %d  %s", y.ProgramYear, y.CalendarYear)
		if y.ResolvedYear != "" && y.ResolvedYear != y.CalendarYear {
			title += fmt.Sprintf(" (data %s)", y.ResolvedYear)
		}
		b.WriteString(Header(title) + "\n")
		fmt.Fprintf(&b, "  %s %s\n", Dim("Annual:"), RenderLoadBar(float64(y.Credits), y.AnnualMax, loadBarWidth))
		if y.SemesterCapped {
			fmt.Fprintf(&b, "  %s %s  %s %s\n",
				Dim("Sem 1:"), LoadCell(y.Semester1, y.SemesterMax),
				Dim("Sem 2:"), LoadCell(y.Semester2, y.SemesterMax))
		} else {
			fmt.Fprintf(&b, "  %s %s  %s %s\n",
				Dim("Sem 1:"), FormatCredits(y.Semester1),
				Dim("Sem 2:"), FormatCredits(y.Semester2))
		}

		if len(y.Buckets) > 0 {
			rows := make([][]string, 0, len(y.Buckets))
			for _, bk := range y.Buckets {
				rng, state := Dim("--"), Dim("unconstrained")
				if bk.Range != nil {
					rng = bk.Range.String()
					switch {
					case bk.Over:
						state = StyleRed.Render("over")
					case bk.Under:
						state = StyleYellow.Render("under")
					default:
						state = StyleGreen.Render("ok")
					}
				}
				rows = append(rows, []string{string(bk.Section), strconv.Itoa(bk.Credits), rng, state})
			}
			b.WriteString(indent(RenderTable([]string{"SECTION", "CREDITS", "RANGE", ""}, rows, 1)))
		}
		for _, o := range y.Offerings {
			line := fmt.Sprintf("  %s %s %s", PeriodBadge(o.Period), Bold(o.UID), Truncate(o.Description, 40))
			if len(o.GhostRefs) > 0 {
				line += " " + StyleYellow.Render("ghost: "+strings.Join(o.GhostRefs, ", "))
			}
			b.WriteString(line + "\n")
		}
	}

	if len(resp.Orphaned) > 0 {
		b.WriteString("\n" + StyleRed.Render("Not offered for this cohort: "+strings.Join(resp.Orphaned, ", ")) + "\n")
	}
	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(StyleYellow.Render("  WARNING: "+w) + "\n")
		}
	}
	return RenderBox("Status", b.String())
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
