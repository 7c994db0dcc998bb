package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatCredits prints a credit total, keeping a half credit when present.
func FormatCredits(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

// LoadCell renders "used/max", red when over and yellow when within 10%.
func LoadCell(used float64, max int) string {
	text := fmt.Sprintf("%s/%d", FormatCredits(used), max)
	switch {
	case max <= 0:
		return StyleFg.Render(FormatCredits(used))
	case used > float64(max):
		return StyleRed.Render(text)
	case used >= float64(max)*0.9:
		return StyleYellow.Render(text)
	default:
		return StyleGreen.Render(text)
	}
}

// HumanTimestamp renders a stored RFC3339 time relative to now.
func HumanTimestamp(stored string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, stored)
	if err != nil {
		return Dim("--")
	}
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 2 {
		return s
	}
	return string(r[:n-1]) + "…"
}
