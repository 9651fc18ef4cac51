package cmd

import (
	"context"

	"github.com/ardnew/jidelnicek/cli/cmd/browse"
	"github.com/ardnew/jidelnicek/log"
)

// Browse opens an interactive viewer of the whole menu.
type Browse struct{}

// Run executes the browse command.
func (*Browse) Run(ctx context.Context) error {
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

	return browse.Run(ctx, m, log.Default())
}
