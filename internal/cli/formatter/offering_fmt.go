package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/domain"
)

// FormatOfferings renders offerings as a table, marking selected ones.
func FormatOfferings(offs []*domain.Offering, selected func(uid string) bool) string {
	if len(offs) == 0 {
		return Dim("No offerings.") + "\n"
	}
	headers := []string{"", "UID", "DESCRIPTION", "CR", "PERIOD", "SECTION"}
	rows := make([][]string, 0, len(offs))
	for _, o := range offs {
		mark := " "
		if selected != nil && selected(o.UID) {
			mark = StyleGreen.Render("●")
		}
		rows = append(rows, []string{
			mark,
			Bold(o.UID),
			Truncate(o.Description, 48),
			strconv.Itoa(o.Credits),
			PeriodBadge(o.Period),
			SectionBadge(o.SectionKey, o.SectionRange),
		})
	}
	return RenderTable(headers, rows, 3)
}

// FormatOffering renders one offering's detail view.
func FormatOffering(o *domain.Offering) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(o.UID), o.Description)
	fmt.Fprintf(&b, "%s %d credits, %s, year %d\n", Dim("Listing:"), o.Credits, PeriodBadge(o.Period), o.ProgramYear)
	fmt.Fprintf(&b, "%s %s\n", Dim("Section:"), SectionBadge(o.SectionKey, o.SectionRange))

	visibility := StyleGreen.Render("offered")
	if !o.Visible {
		visibility = StyleRed.Render("not offered")
	}
	fmt.Fprintf(&b, "%s %s (data %s)\n", Dim("Status: "), visibility, o.ResolvedYear)
	if o.Assessment != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("Assessment:"), o.Assessment)
	}

	if len(o.RawRuleText) > 0 {
		b.WriteString("\n" + Header("Rules") + "\n")
		for _, r := range o.RawRuleText {
			b.WriteString("  " + r + "\n")
		}
	}
	writeList(&b, "Required by", o.Dependents)
	writeList(&b, "Cannot be taken with", o.ExclusionPeers)

	if len(o.ContentSections) > 0 {
		keys := make([]string, 0, len(o.ContentSections))
		for k := range o.ContentSections {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("\n" + Header(k) + "\n")
			b.WriteString(o.ContentSections[k] + "\n")
		}
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + Header(title) + "\n")
	for _, it := range items {
		b.WriteString("  " + it + "\n")
	}
}

// FormatGhosts lists codes that rules reference but no catalogue row offers.
func FormatGhosts(ghosts []string) string {
	if len(ghosts) == 0 {
		return Dim("No ghost codes.") + "\n"
	}
	var b strings.Builder
	b.WriteString(Header("Ghost codes") + "\n")
	for _, g := range ghosts {
		b.WriteString("  " + StyleYellow.Render(g) + "\n")
	}
	b.WriteString(Dim(fmt.Sprintf("%d codes referenced by rules but not offered", len(ghosts))) + "\n")
	return b.String()
}
