package cli

import (
	"fmt"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/calendar"
	"github.com/CBirkbeck/modulechoices/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func plannerHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// cohortOptions lists the cohorts around current, most recent first.
func cohortOptions(current calendar.AcademicYear) []huh.Option[calendar.AcademicYear] {
	var opts []huh.Option[calendar.AcademicYear]
	for y := current + 1; y >= current-3; y-- {
		label := y.Key()
		if y == current {
			label += " (current)"
		}
		opts = append(opts, huh.NewOption(label, y))
	}
	return opts
}

// entryForm asks which cohort the student entered with.
func entryForm(current calendar.AcademicYear, value *calendar.AcademicYear) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[calendar.AcademicYear]().
				Title("Entry cohort").
				Description("The academic year you started year 1").
				Options(cohortOptions(current)...).
				Value(value),
		),
	).WithTheme(plannerHuhTheme()).WithShowHelp(false)
}

// planNameForm collects a plan name.
func planNameForm(value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Plan name").
				Placeholder("main").
				Value(value).
				Validate(validatePlanName),
		),
	).WithTheme(plannerHuhTheme()).WithShowHelp(false)
}

func validatePlanName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
