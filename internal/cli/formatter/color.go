package formatter

import (
	"fmt"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// VerdictIndicator returns "✔ ACCEPTED" or "✖ REJECTED", colored.
func VerdictIndicator(accepted bool) string {
	if accepted {
		return StyleGreen.Render("✔ ACCEPTED")
	}
	return StyleRed.Render("✖ REJECTED")
}

// PeriodBadge returns a short colored label for a teaching period.
func PeriodBadge(p domain.Period) string {
	switch p {
	case domain.PeriodFirstTerm:
		return StyleBlue.Render("SEM1")
	case domain.PeriodSecondTerm:
		return StylePurple.Render("SEM2")
	case domain.PeriodFullYear:
		return StyleGreen.Render("YEAR")
	default:
		return StyleDim.Render("?")
	}
}

// SectionBadge renders a section key, dimming sections with no range.
func SectionBadge(key domain.SectionKey, r *domain.CreditRange) string {
	if r == nil {
		return StyleDim.Render(string(key))
	}
	return StyleFg.Render(string(key)) + Dim(" ("+r.String()+")")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
