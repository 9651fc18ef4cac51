package menu

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ardnew/jidelnicek/pkg"
)

// DefaultURLTemplate is the Strava 5 feed endpoint. The cafeteria id
// replaces [IDPlaceholder].
const DefaultURLTemplate = "https://www.strava.cz/strava5/Jidelnicky/XML?zarizeni=" + IDPlaceholder

// IDPlaceholder marks where the cafeteria id is substituted in a URL
// template.
const IDPlaceholder = "{id}"

// RootTag is the element name of a feed document's root.
const RootTag = "jidelnicky"

// ErrConfig is returned when the environment holds an invalid setting.
var ErrConfig = pkg.NewError("invalid feed configuration")

// Config holds the feed client settings that may come from the environment.
type Config struct {
	// URLTemplate is the feed URL with [IDPlaceholder] standing for the
	// cafeteria id.
	URLTemplate string `env:"JIDELNICEK_FEED_URL" envDefault:"https://www.strava.cz/strava5/Jidelnicky/XML?zarizeni={id}"`
	// Timeout bounds a whole fetch. Zero disables the timeout.
	Timeout time.Duration `env:"JIDELNICEK_TIMEOUT" envDefault:"0s"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{URLTemplate: DefaultURLTemplate}
}

// LoadConfigFromEnv returns feed settings read from JIDELNICEK_* environment
// variables, with defaults for unset ones.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return DefaultConfig(), ErrConfig.Wrap(err)
	}

	if cfg.URLTemplate == "" {
		cfg.URLTemplate = DefaultURLTemplate
	}

	return cfg, nil
}
