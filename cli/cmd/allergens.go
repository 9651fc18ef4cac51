package cmd

import (
	"context"
	"strings"

	"github.com/ardnew/jidelnicek/allergen"
)

// Allergens lists the allergen dictionary, or decodes the codes found in
// the given text.
type Allergens struct {
	Text []string `arg:"" help:"Allergen text to decode, e.g. '01a,07'. Lists the dictionary when omitted." optional:""`
}

// Run executes the allergens command.
func (a *Allergens) Run(ctx context.Context) error {
	feed, out := feedFrom(ctx), outputFrom(ctx)

	dict, err := feed.dictionary()
	if err != nil {
		return err
	}

	if len(a.Text) == 0 {
		return out.write(ctx, dict.Entries())
	}

	codes := allergen.ExtractCodes(strings.Join(a.Text, " "))
	entries := make([]allergen.Entry, 0, len(codes))

	for _, code := range codes {
		name, err := dict.Lookup(code)
		if err != nil {
			return err
		}

		entries = append(entries, allergen.Entry{Code: code, Name: name})
	}

	return out.write(ctx, entries)
}
