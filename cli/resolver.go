package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/jidelnicek/pkg"
)

// ErrConfigFile is returned when a configuration file cannot be decoded.
var ErrConfigFile = pkg.NewError("decode configuration file")

// resolveYAML is a [kong.ConfigurationLoader] for YAML configuration files,
// such as the one written by the init command.
//
// Keys are flag names. Nested tables are joined to their parent with a
// hyphen, so both of these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may stand for hyphens (log_level). Command-line flags override
// configuration values.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, ErrConfigFile.Wrap(err)
	}

	return flatten(doc), nil
}

// resolveTOML is a [kong.ConfigurationLoader] for TOML configuration files,
// keyed the same way as [resolveYAML]:
//
//	cafeteria = 12345
//
//	[log]
//	level = "debug"
func resolveTOML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, ErrConfigFile.Wrap(err)
	}

	return flatten(doc), nil
}

// config implements [kong.Resolver] over a flat map of flag names to values
// in their command-line string form.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found; kong uses the default.
	return nil, nil
}

// flatten converts a decoded document into a config.
func flatten(doc map[string]any) config {
	out := config{}
	flattenInto(out, "", doc)

	return out
}

func flattenInto(out config, prefix string, doc map[string]any) {
	for key, val := range doc {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if table, ok := val.(map[string]any); ok {
			flattenInto(out, key, table)

			continue
		}

		out[key] = scalar(val)
	}
}

// scalar converts a decoded value to the form kong expects. Kong parses
// numbers from strings, and list flags split on commas.
func scalar(val any) any {
	switch v := val.(type) {
	case bool, string, nil:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, fmt.Sprint(scalar(e)))
		}

		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
