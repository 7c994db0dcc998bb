package formatter

import (
	"fmt"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/contract"
)

// FormatSelectResult renders a verdict and any prerequisites it pulled in.
func FormatSelectResult(res *contract.SelectResult) string {
	var b strings.Builder
	v := res.Verdict
	fmt.Fprintf(&b, "%s %s\n", VerdictIndicator(v.Accepted), Bold(v.UID))
	if !v.Accepted {
		msg := v.Message
		if msg == "" {
			msg = v.Reason
		}
		fmt.Fprintf(&b, "  %s\n", StyleRed.Render(msg))
		if v.Message != "" && v.Reason != "" {
			fmt.Fprintf(&b, "  %s\n", Dim(v.Reason))
		}
	}
	for _, uid := range res.AutoSelect.SelectedUIDs {
		fmt.Fprintf(&b, "  %s %s\n", StyleGreen.Render("+"), uid+Dim(" (prerequisite)"))
	}
	for _, f := range res.AutoSelect.Failed {
		ref := f.Code
		if f.UID != "" {
			ref = f.UID
		}
		fmt.Fprintf(&b, "  %s %s %s\n", StyleYellow.Render("!"), ref, Dim(f.Reason))
	}
	return b.String()
}

// FormatRebuild summarises an index rebuild.
func FormatRebuild(resp *contract.RebuildResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %d offerings, %d offered",
		Dim("Entry cohort"), Bold(resp.EntryYear), resp.Offerings, resp.Visible)
	if resp.Skipped > 0 {
		fmt.Fprintf(&b, ", %d rows skipped", resp.Skipped)
	}
	b.WriteString("\n")
	if len(resp.Ghosts) > 0 {
		fmt.Fprintf(&b, "%s %d\n", Dim("Ghost codes:"), len(resp.Ghosts))
	}
	if len(resp.Orphaned) > 0 {
		b.WriteString(StyleRed.Render("Not offered for this cohort: "+strings.Join(resp.Orphaned, ", ")) + "\n")
	}
	return b.String()
}
