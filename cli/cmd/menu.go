package cmd

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ardnew/jidelnicek/format"
	"github.com/ardnew/jidelnicek/log"
	"github.com/ardnew/jidelnicek/menu"
)

// Menu prints every day listed in the feed.
type Menu struct{}

// Run executes the menu command.
func (*Menu) Run(ctx context.Context) error {
	feed, out := feedFrom(ctx), outputFrom(ctx)

	f, err := out.filter()
	if err != nil {
		return err
	}

	p, text, err := feed.load(ctx)
	if err != nil {
		return err
	}

	m, err := p.WholeMenu(text, out.Names)
	if err != nil {
		return err
	}

	if m, err = f.Menu(m); err != nil {
		return err
	}

	log.DebugContext(ctx, "menu decoded",
		slog.Int("cafeteria", m.CafeteriaID),
		slog.Int("days", len(m.Days)),
	)

	return out.write(ctx, m)
}

// Closest prints the first day listed in the feed.
type Closest struct{}

// Run executes the closest command.
func (*Closest) Run(ctx context.Context) error {
	feed, out := feedFrom(ctx), outputFrom(ctx)

	f, err := out.filter()
	if err != nil {
		return err
	}

	p, text, err := feed.load(ctx)
	if err != nil {
		return err
	}

	day, err := p.ClosestDay(text, out.Names)
	if err != nil {
		return err
	}

	if day, err = f.Day(day); err != nil {
		return err
	}

	return out.write(ctx, day)
}

// today selects the current local date in the date command.
const today = "today"

// Date prints the menu of one date. A date missing from the feed is not an
// error; an empty object (or a notice in text format) is printed.
type Date struct {
	Date string `arg:"" help:"Date as DD-MM-YYYY, e.g. 23-06-2025, or 'today'."`
}

// Run executes the date command.
func (d *Date) Run(ctx context.Context) error {
	feed, out := feedFrom(ctx), outputFrom(ctx)

	if strings.EqualFold(strings.TrimSpace(d.Date), today) {
		d.Date = menu.FormatDate(time.Now())
	}

	// Checked before anything is fetched.
	if err := menu.ValidateDate(d.Date); err != nil {
		return err
	}

	f, err := out.filter()
	if err != nil {
		return err
	}

	p, text, err := feed.load(ctx)
	if err != nil {
		return err
	}

	day, found, err := p.DateMenu(text, d.Date, out.Names)
	if err != nil {
		return err
	}

	if !found {
		log.DebugContext(ctx, "date not listed", slog.String("date", d.Date))

		return out.write(ctx, format.Nothing{Reason: "no menu listed for " + d.Date})
	}

	if day, err = f.Day(day); err != nil {
		return err
	}

	return out.write(ctx, day)
}

// Search fuzzily matches meal names across all listed days.
type Search struct {
	Pattern string `arg:"" help:"Text to look for in meal names."`
}

// Run executes the search command.
func (s *Search) Run(ctx context.Context) error {
	feed, out := feedFrom(ctx), outputFrom(ctx)

	f, err := out.filter()
	if err != nil {
		return err
	}

	p, text, err := feed.load(ctx)
	if err != nil {
		return err
	}

	m, err := p.WholeMenu(text, out.Names)
	if err != nil {
		return err
	}

	if m, err = f.Menu(m); err != nil {
		return err
	}

	found := menu.Search(m, s.Pattern)
	if found == nil {
		found = []menu.Match{}
	}

	return out.write(ctx, found)
}
