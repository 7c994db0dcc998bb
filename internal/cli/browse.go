package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/cli/formatter"
	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const browsePageSize = 20

type browseKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Detail key.Binding
	Filter key.Binding
	Year   key.Binding
	Quit   key.Binding
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Detail, k.Filter, k.Year, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}

func defaultBrowseKeys() browseKeyMap {
	return browseKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Detail: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Year:   key.NewBinding(key.WithKeys("0", "1", "2", "3", "4"), key.WithHelp("0-4", "year")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// offeringsLoadedMsg carries a fresh offering list.
type offeringsLoadedMsg struct {
	offerings []*domain.Offering
	err       error
}

// verdictMsg reports the outcome of toggling an offering.
type verdictMsg struct {
	text string
	err  error
}

// browseModel is a navigable catalogue with selection toggling.
type browseModel struct {
	ctx     context.Context
	planner service.PlannerService
	keys    browseKeyMap
	help    help.Model

	offerings []*domain.Offering
	cursor    int
	year      int
	detail    bool
	status    string
	err       error

	filtering bool
	filter    string
}

func newBrowseModel(ctx context.Context, p service.PlannerService) *browseModel {
	return &browseModel{
		ctx:     ctx,
		planner: p,
		keys:    defaultBrowseKeys(),
		help:    help.New(),
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load()
}

func (m *browseModel) load() tea.Cmd {
	p, ctx, year := m.planner, m.ctx, m.year
	return func() tea.Msg {
		offs, err := p.Offerings(ctx, year)
		return offeringsLoadedMsg{offerings: offs, err: err}
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case offeringsLoadedMsg:
		m.err = msg.err
		m.offerings = msg.offerings
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}
		return m, nil

	case verdictMsg:
		m.err = msg.err
		m.status = msg.text
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *browseModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visible()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Detail):
		m.detail = !m.detail
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter = ""
	case key.Matches(msg, m.keys.Year):
		m.year = int(msg.String()[0] - '0')
		m.cursor = 0
		return m, m.load()
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(visible) {
			return m, m.toggle(visible[m.cursor].UID)
		}
	}
	return m, nil
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
		m.cursor = 0
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyBackspace:
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.cursor = 0
		}
	default:
		if len(msg.String()) == 1 {
			m.filter += msg.String()
			m.cursor = 0
		}
	}
	return m, nil
}

// toggle selects or deselects uid. It runs synchronously so the list
// marks are current when the next key arrives.
func (m *browseModel) toggle(uid string) tea.Cmd {
	if m.planner.Selection().Has(uid) {
		_, err := m.planner.Deselect(m.ctx, uid)
		text := "Removed " + uid
		return func() tea.Msg { return verdictMsg{text: text, err: err} }
	}
	res, err := m.planner.Select(m.ctx, uid)
	if err != nil {
		return func() tea.Msg { return verdictMsg{err: err} }
	}
	text := verdictLine(res)
	return func() tea.Msg { return verdictMsg{text: text} }
}

func verdictLine(res *contract.SelectResult) string {
	v := res.Verdict
	if !v.Accepted {
		msg := v.Message
		if msg == "" {
			msg = v.Reason
		}
		return fmt.Sprintf("%s: %s", v.UID, msg)
	}
	line := "Selected " + v.UID
	if n := len(res.AutoSelect.SelectedUIDs); n > 0 {
		line += fmt.Sprintf(" (+%d prerequisites)", n)
	}
	if n := len(res.AutoSelect.Failed); n > 0 {
		line += fmt.Sprintf(", %d unresolved", n)
	}
	return line
}

func (m *browseModel) visible() []*domain.Offering {
	if m.filter == "" {
		return m.offerings
	}
	lf := strings.ToLower(m.filter)
	var out []*domain.Offering
	for _, o := range m.offerings {
		if strings.Contains(strings.ToLower(o.UID), lf) || strings.Contains(strings.ToLower(o.Description), lf) {
			out = append(out, o)
		}
	}
	return out
}

func (m *browseModel) View() string {
	var b strings.Builder

	title := "Offerings, all years"
	if m.year != 0 {
		title = fmt.Sprintf("Offerings, year %d", m.year)
	}
	b.WriteString(formatter.StyleHeader.Render(title))
	b.WriteString(formatter.Dim(fmt.Sprintf("  entry %s", m.planner.EntryYear().Key())) + "\n\n")

	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n\n")
	}

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(formatter.Dim("No offerings match.") + "\n")
	}
	start := 0
	if m.cursor >= browsePageSize {
		start = m.cursor - browsePageSize + 1
	}
	sel := m.planner.Selection()
	for i := start; i < len(visible) && i < start+browsePageSize; i++ {
		o := visible[i]
		pointer := "  "
		if i == m.cursor {
			pointer = formatter.StyleHeader.Render("▸ ")
		}
		mark := "[ ]"
		if sel.Has(o.UID) {
			mark = formatter.StyleGreen.Render("[x]")
		}
		fmt.Fprintf(&b, "%s%s %-14s %s %s\n", pointer, mark, o.UID,
			formatter.PeriodBadge(o.Period), formatter.Truncate(o.Description, 50))
	}

	if m.detail && m.cursor < len(visible) {
		b.WriteString("\n" + formatter.FormatOffering(visible[m.cursor]))
	}
	if m.filtering || m.filter != "" {
		b.WriteString("\n" + formatter.Dim("filter: ") + m.filter + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalogue and toggle selections interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("browse needs an interactive terminal")
			}
			ctx := cmd.Context()
			if err := app.session(ctx); err != nil {
				return err
			}
			prog := tea.NewProgram(newBrowseModel(ctx, app.Planner),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := prog.Run(); err != nil {
				return err
			}
			return app.persist(ctx)
		},
	}
}
