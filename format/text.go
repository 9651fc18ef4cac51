package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/jidelnicek/allergen"
	"github.com/ardnew/jidelnicek/menu"
)

// styles used by the text format. Bound to a renderer for the output, so
// plain text is produced when the output is not a terminal.
type styles struct {
	title, date, course, allergens, empty, match lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)

	return styles{
		title:     r.NewStyle().Bold(true).Underline(true),
		date:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		course:    r.NewStyle().Foreground(lipgloss.Color("6")),
		allergens: r.NewStyle().Foreground(lipgloss.Color("8")),
		empty:     r.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
		match:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	}
}

func writeText(w io.Writer, v any) error {
	s := newStyles(w)

	var b strings.Builder

	switch t := v.(type) {
	case menu.Menu:
		s.menu(&b, t)
	case *menu.Menu:
		s.menu(&b, *t)
	case menu.Day:
		s.day(&b, t)
	case *menu.Day:
		s.day(&b, *t)
	case []menu.Match:
		s.matches(&b, t)
	case []allergen.Entry:
		s.entries(&b, t)
	case Nothing:
		b.WriteString(s.empty.Render(t.Reason))
		b.WriteByte('\n')
	default:
		fmt.Fprintln(&b, v)
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func (s styles) menu(b *strings.Builder, m menu.Menu) {
	b.WriteString(s.title.Render("cafeteria " + strconv.Itoa(m.CafeteriaID)))
	b.WriteByte('\n')

	if len(m.Days) == 0 {
		b.WriteString(s.empty.Render("no days listed"))
		b.WriteByte('\n')
	}

	for i, d := range m.Days {
		if i > 0 {
			b.WriteByte('\n')
		}

		s.day(b, d)
	}
}

func (s styles) day(b *strings.Builder, d menu.Day) {
	b.WriteString(s.date.Render(d.Date))
	b.WriteByte('\n')

	if len(d.Meals) == 0 {
		b.WriteString("  " + s.empty.Render("no meals"))
		b.WriteByte('\n')

		return
	}

	width := 0
	for _, m := range d.Meals {
		width = max(width, lipgloss.Width(m.Type))
	}

	for _, m := range d.Meals {
		b.WriteString("  ")
		b.WriteString(s.course.Render(pad(m.Type, width)))
		b.WriteString("  ")
		b.WriteString(m.Name)

		if len(m.Allergens) > 0 {
			b.WriteString("  ")
			b.WriteString(s.allergens.Render("[" + strings.Join(m.Allergens, ", ") + "]"))
		}

		b.WriteByte('\n')
	}
}

func (s styles) matches(b *strings.Builder, found []menu.Match) {
	if len(found) == 0 {
		b.WriteString(s.empty.Render("no matches"))
		b.WriteByte('\n')

		return
	}

	width := 0
	for _, m := range found {
		width = max(width, lipgloss.Width(m.Meal.Type))
	}

	for _, m := range found {
		b.WriteString(s.date.Render(m.Date))
		b.WriteString("  ")
		b.WriteString(s.course.Render(pad(m.Meal.Type, width)))
		b.WriteString("  ")
		b.WriteString(Highlight(m.Meal.Name, m.Indexes, s.match))
		b.WriteByte('\n')
	}
}

func (s styles) entries(b *strings.Builder, entries []allergen.Entry) {
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Code))
	}

	for _, e := range entries {
		b.WriteString(s.course.Render(pad(e.Code, width)))
		b.WriteString("  ")
		b.WriteString(e.Name)
		b.WriteByte('\n')
	}
}

// Highlight renders the runes of s starting at the given byte offsets with
// style.
func Highlight(s string, offsets []int, style lipgloss.Style) string {
	if len(offsets) == 0 {
		return s
	}

	hit := make(map[int]bool, len(offsets))
	for _, i := range offsets {
		hit[i] = true
	}

	var b strings.Builder

	for i, r := range s {
		if hit[i] {
			b.WriteString(style.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}

	return s
}
