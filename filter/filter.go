package filter

import (
	"log/slog"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/jidelnicek/menu"
	"github.com/ardnew/jidelnicek/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrCompile  = pkg.NewError("filter compilation failed")
	ErrEvaluate = pkg.NewError("filter evaluation failed")
)

// Filter is a compiled meal predicate. The zero value and a nil *Filter
// match every meal. A Filter is safe for concurrent use.
type Filter struct {
	source  string
	program *vm.Program
}

// exemplar declares the variable types available to expressions.
func exemplar() map[string]any {
	return map[string]any{
		"date":      "",
		"weekday":   "",
		"name":      "",
		"course":    "",
		"allergens": []string{},
	}
}

// Compile parses src into a Filter. Blank source yields a Filter matching
// everything. Expressions must be boolean.
func Compile(src string) (*Filter, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return &Filter{}, nil
	}

	program, err := expr.Compile(src, expr.Env(exemplar()), expr.AsBool())
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("source", src))
	}

	return &Filter{source: src, program: program}, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}

	return f.source
}

// Match evaluates the filter against meal m served on date.
func (f *Filter) Match(date string, m menu.Meal) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}

	allergens := m.Allergens
	if allergens == nil {
		allergens = []string{}
	}

	env := map[string]any{
		"date":      date,
		"weekday":   weekday(date),
		"name":      m.Name,
		"course":    m.Type,
		"allergens": allergens,
	}

	out, err := vm.Run(f.program, env)
	if err != nil {
		return false, ErrEvaluate.Wrap(err).With(
			slog.String("source", f.source),
			slog.String("date", date),
			slog.String("meal", m.Name),
		)
	}

	ok, isBool := out.(bool)
	if !isBool {
		return false, ErrEvaluate.With(
			slog.String("source", f.source),
			slog.Any("result", out),
		)
	}

	return ok, nil
}

// Day returns d with only the meals matching f, in their original order.
// The day is returned even when no meal matches.
func (f *Filter) Day(d menu.Day) (menu.Day, error) {
	out := menu.Day{Date: d.Date, Meals: make([]menu.Meal, 0, len(d.Meals))}

	for _, m := range d.Meals {
		ok, err := f.Match(d.Date, m)
		if err != nil {
			return menu.Day{}, err
		}

		if ok {
			out.Meals = append(out.Meals, m)
		}
	}

	return out, nil
}

// Menu applies [Filter.Day] to every day of m. Days keep their position
// even if all of their meals are filtered out.
func (f *Filter) Menu(m menu.Menu) (menu.Menu, error) {
	out := menu.Menu{
		CafeteriaID: m.CafeteriaID,
		Days:        make([]menu.Day, 0, len(m.Days)),
	}

	for _, d := range m.Days {
		day, err := f.Day(d)
		if err != nil {
			return menu.Menu{}, err
		}

		out.Days = append(out.Days, day)
	}

	return out, nil
}

// weekday names the day of week of a feed date, or "" if it does not parse.
func weekday(date string) string {
	t, err := time.Parse(menu.DateLayout, strings.TrimSpace(date))
	if err != nil {
		return ""
	}

	return t.Weekday().String()
}
