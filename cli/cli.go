package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/ardnew/jidelnicek/cli/cmd"
	"github.com/ardnew/jidelnicek/format"
	"github.com/ardnew/jidelnicek/menu"
	"github.com/ardnew/jidelnicek/pkg"
)

// ErrEnvFile is returned when a .env file cannot be loaded.
var ErrEnvFile = pkg.NewError("load environment file")

// baseConfig is the base name of the configuration files read at startup.
const baseConfig = "config"

// CLI is the top-level command-line interface for jidelnicek.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Feed   cmd.Feed   `embed:"" group:"feed"`
	Output cmd.Output `embed:"" group:"output"`

	Menu      cmd.Menu      `cmd:"" default:"withargs" help:"Print every listed day"`
	Closest   cmd.Closest   `cmd:""                    help:"Print the first listed day"`
	Date      cmd.Date      `cmd:""                    help:"Print the menu of one date"`
	Search    cmd.Search    `cmd:""                    help:"Search meal names"`
	Allergens cmd.Allergens `cmd:""                    help:"List or decode allergen codes"`
	Browse    cmd.Browse    `cmd:""                    help:"Browse the menu interactively"`
	Serve     cmd.Serve     `cmd:""                    help:"Serve menus over HTTP"`
	Init      cmd.Init      `cmd:""                    help:"Initialize configuration file"`
	Version   cmd.Version   `cmd:""                    help:"Print version"`
}

// stdio is the environment a CLI invocation runs in.
type stdio struct {
	in       io.Reader
	out, err io.Writer
	config   string // path of the YAML configuration file
}

// Run executes the jidelnicek CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	if err := loadEnv(); err != nil {
		return err
	}

	return run(ctx, exit, stdio{
		in:     os.Stdin,
		out:    os.Stdout,
		err:    os.Stderr,
		config: pkg.ConfigPath(baseConfig + ".yaml"),
	}, args)
}

func run(ctx context.Context, exit func(code int), env stdio, args []string) error {
	var cli CLI

	feed, err := menu.LoadConfigFromEnv()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: env.config,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"feedURL":            feed.URLTemplate,
		"feedTimeout":        feed.Timeout.String(),
		"outputFormat":       format.DefaultFormat.String(),
		"formats":            strings.Join(slices.Collect(format.Formats()), ", "),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags apply before kong parses anything so that parse errors
	// are already logged the way the user asked.
	cli.Log.scan(args)

	base := strings.TrimSuffix(env.config, ".yaml")

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(env.out, env.err),
		kong.ExplicitGroups([]kong.Group{
			cli.Log.group(),
			cli.Pprof.group(),
			feedGroup(),
			outputGroup(),
		}),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, base+".json"),
		kong.Configuration(resolveTOML, base+".toml"),
		kong.Configuration(resolveYAML, env.config),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithFeed(ctx, &cli.Feed)
	ctx = cmd.WithOutput(ctx, &cli.Output)
	ctx = cmd.WithStdio(ctx, env.in, env.out)

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and --pprof-mode is set.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// loadEnv reads KEY=value files into the process environment: ./.env first,
// then env in the configuration directory. Variables already set are kept.
func loadEnv() error {
	for _, path := range []string{".env", pkg.ConfigPath("env")} {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			return ErrEnvFile.With(slog.String("path", path)).Wrap(err)
		}
	}

	return nil
}

func feedGroup() kong.Group {
	return kong.Group{Key: "feed", Title: "Feed options"}
}

func outputGroup() kong.Group {
	return kong.Group{Key: "output", Title: "Output options"}
}
