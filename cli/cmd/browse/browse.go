// Package browse implements an interactive terminal viewer for a cafeteria
// menu.
//
// Left/right (or tab/shift+tab) switch between days. Typing filters the
// current day's meals by fuzzy name match; esc clears the filter. Ctrl+c
// quits, as does q while the filter is empty.
package browse

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/jidelnicek/format"
	"github.com/ardnew/jidelnicek/log"
	"github.com/ardnew/jidelnicek/menu"
	"github.com/ardnew/jidelnicek/pkg"
)

// ErrEmpty is returned when there is nothing to browse.
var ErrEmpty = pkg.NewError("menu has no days")

const (
	filterPrompt = "filter> "
	defaultWidth = 80
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	courseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	matchStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)

// Run shows m until the user quits or ctx is done.
func Run(
	ctx context.Context,
	m menu.Menu,
	logger log.Logger,
	opts ...tea.ProgramOption,
) error {
	if len(m.Days) == 0 {
		return ErrEmpty.With(slog.Int("cafeteria", m.CafeteriaID))
	}

	logger.TraceContext(ctx, "browse start",
		slog.Int("cafeteria", m.CafeteriaID),
		slog.Int("days", len(m.Days)),
	)

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)

	_, err := tea.NewProgram(newModel(ctx, m, logger), opts...).Run()
	if err != nil {
		return pkg.WrapError(err)
	}

	return nil
}

// model is the Bubble Tea model of the browser.
type model struct {
	ctxFunc  func() context.Context
	menu     menu.Menu
	logger   log.Logger
	input    textinput.Model
	matches  fuzzy.Matches // fuzzy results for the current day and filter
	day      int           // index into menu.Days
	width    int
	quitting bool
}

func newModel(ctx context.Context, m menu.Menu, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(filterPrompt)
	ti.Placeholder = "type to filter meals"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = defaultWidth - len(filterPrompt) - 2

	return model{
		ctxFunc: func() context.Context { return ctx },
		menu:    m,
		logger:  logger,
		input:   ti,
		width:   defaultWidth,
	}
}

// meals adapts a day for fuzzy.FindFrom.
type meals []menu.Meal

func (s meals) String(i int) string { return s[i].Name }
func (s meals) Len() int            { return len(s) }

func (m model) current() menu.Day { return m.menu.Days[m.day] }

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(filterPrompt)-2, 1)

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "browse keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEsc:
		m.input.SetValue("")
		m.refresh()

		return m, nil

	case tea.KeyLeft, tea.KeyShiftTab:
		m.day = (m.day + len(m.menu.Days) - 1) % len(m.menu.Days)
		m.refresh()

		return m, nil

	case tea.KeyRight, tea.KeyTab:
		m.day = (m.day + 1) % len(m.menu.Days)
		m.refresh()

		return m, nil

	case tea.KeyRunes:
		if m.input.Value() == "" && msg.String() == "q" {
			m.quitting = true

			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

// refresh recomputes the fuzzy matches for the current day and filter.
func (m *model) refresh() {
	pattern := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if pattern == "" {
		m.matches = nil

		return
	}

	m.matches = fuzzy.FindFrom(pattern, meals(m.current().Meals))
}

// visible returns the meals to display with their highlight offsets.
func (m model) visible() ([]menu.Meal, [][]int) {
	day := m.current()

	if strings.TrimSpace(m.input.Value()) == "" {
		return day.Meals, make([][]int, len(day.Meals))
	}

	out := make([]menu.Meal, 0, len(m.matches))
	idx := make([][]int, 0, len(m.matches))

	for _, match := range m.matches {
		out = append(out, day.Meals[match.Index])
		idx = append(idx, match.MatchedIndexes)
	}

	return out, idx
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	day := m.current()

	b.WriteString(titleStyle.Render(day.Date))
	b.WriteString(hintStyle.Render(
		"  (" + strconv.Itoa(m.day+1) + "/" + strconv.Itoa(len(m.menu.Days)) + ")"))
	b.WriteString("\n\n")

	shown, hits := m.visible()

	if len(shown) == 0 {
		b.WriteString(hintStyle.Render("  no meals"))
		b.WriteString("\n")
	}

	width := 0
	for _, meal := range shown {
		width = max(width, lipgloss.Width(meal.Type))
	}

	for i, meal := range shown {
		course := meal.Type + strings.Repeat(" ", width-lipgloss.Width(meal.Type))

		b.WriteString("  ")
		b.WriteString(courseStyle.Render(course))
		b.WriteString("  ")
		b.WriteString(format.Highlight(meal.Name, hits[i], matchStyle))

		if len(meal.Allergens) > 0 {
			b.WriteString(hintStyle.Render("  [" + strings.Join(meal.Allergens, ", ") + "]"))
		}

		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("←/→ day • esc clear • q/ctrl+c quit"))
	b.WriteString("\n")

	return b.String()
}
