package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jidelnicek/allergen"
	"github.com/ardnew/jidelnicek/filter"
	"github.com/ardnew/jidelnicek/format"
	"github.com/ardnew/jidelnicek/log"
	"github.com/ardnew/jidelnicek/menu"
)

// stdinSource is the --source value selecting standard input.
const stdinSource = "-"

// Feed holds the flags selecting and reaching a cafeteria feed.
type Feed struct {
	Cafeteria int           `env:"JIDELNICEK_CAFETERIA" help:"Cafeteria number (zarizeni) from the Strava.cz URL."                     short:"c"`
	FeedURL   string        `default:"${feedURL}"       help:"Feed URL template; {id} is replaced by the cafeteria number." name:"feed-url"`
	Timeout   time.Duration `default:"${feedTimeout}"   help:"Abort a fetch after this long (0 waits forever)."`
	Source    string        `help:"Read a saved feed document ('-' for stdin) instead of fetching."                        placeholder:"FILE" short:"s"`
	Allergens string        `help:"Allergen dictionary (JSON or YAML) replacing the bundled one."                          placeholder:"FILE" type:"path"`
}

// Output holds the flags shaping command output.
type Output struct {
	Format format.Format `default:"${outputFormat}" help:"Output format (${formats})."                 short:"o"`
	Indent int           `default:"2"               help:"Indent width of JSON and YAML output."`
	Names  bool          `help:"Show allergen names instead of codes."                                   short:"n"`
	Where  string        `help:"Keep only meals matching an expression, e.g. 'not (\"07\" in allergens)'." placeholder:"EXPR" short:"w"`
}

type (
	contextKey struct{}
	feedKey    struct{}
	outputKey  struct{}
	stdioKey   struct{}
	stdio      struct {
		in  io.Reader
		out io.Writer
	}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithFeed returns a new context.Context carrying the feed flags.
func WithFeed(ctx context.Context, f *Feed) context.Context {
	return context.WithValue(ctx, feedKey{}, f)
}

// WithOutput returns a new context.Context carrying the output flags.
func WithOutput(ctx context.Context, o *Output) context.Context {
	return context.WithValue(ctx, outputKey{}, o)
}

// WithStdio returns a new context.Context whose commands read documents
// from in and write results to out.
func WithStdio(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio{in: in, out: out})
}

func feedFrom(ctx context.Context) *Feed {
	if f, ok := ctx.Value(feedKey{}).(*Feed); ok && f != nil {
		return f
	}

	return &Feed{FeedURL: menu.DefaultURLTemplate}
}

func outputFrom(ctx context.Context) *Output {
	if o, ok := ctx.Value(outputKey{}).(*Output); ok && o != nil {
		return o
	}

	return &Output{Format: format.DefaultFormat, Indent: format.DefaultIndent}
}

func stdioFrom(ctx context.Context) stdio {
	if s, ok := ctx.Value(stdioKey{}).(stdio); ok {
		return s
	}

	return stdio{in: os.Stdin, out: os.Stdout}
}

// dictionary returns the allergen dictionary selected by --allergens.
func (f *Feed) dictionary() (*allergen.Dictionary, error) {
	if f.Allergens == "" {
		return allergen.Default(), nil
	}

	return allergen.Load(f.Allergens)
}

// options returns the parser options implied by the feed flags.
func (f *Feed) options() []menu.Option {
	return []menu.Option{
		menu.WithConfig(menu.Config{URLTemplate: f.FeedURL, Timeout: f.Timeout}),
		menu.WithLogger(log.Default()),
	}
}

// load builds a parser for the selected cafeteria and returns it with the
// feed document, fetched or read from --source.
func (f *Feed) load(ctx context.Context) (*menu.Parser, string, error) {
	if f.Cafeteria <= 0 && f.Source == "" {
		return nil, "", ErrNoCafeteria
	}

	dict, err := f.dictionary()
	if err != nil {
		return nil, "", err
	}

	p := menu.New(f.Cafeteria, dict, f.options()...)

	if f.Source == "" {
		text, err := p.Fetch(ctx)

		return p, text, err
	}

	r := stdioFrom(ctx).in

	if f.Source != stdinSource {
		file, err := os.Open(f.Source)
		if err != nil {
			return nil, "", ErrReadSource.With(slog.String("path", f.Source)).Wrap(err)
		}
		defer file.Close()

		r = file
	}

	log.DebugContext(ctx, "read feed document", slog.String("source", f.Source))

	text, err := p.Read(r)

	return p, text, err
}

// filter compiles --where.
func (o *Output) filter() (*filter.Filter, error) {
	return filter.Compile(o.Where)
}

// write encodes v to the command output.
func (o *Output) write(ctx context.Context, v any) error {
	return format.Write(ctx, stdioFrom(ctx).out, v, o.Format, o.Indent)
}
