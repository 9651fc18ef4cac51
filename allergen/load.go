package allergen

import (
	"bytes"
	_ "embed"
	"io"
	"log/slog"
	"os"
	"regexp"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/jidelnicek/pkg"
)

// ErrLoad is returned when a dictionary resource cannot be read or decoded.
var ErrLoad = pkg.NewError("load allergen dictionary")

//go:embed allergens.json
var bundled []byte

// validCode matches a complete dictionary key.
var validCode = regexp.MustCompile(`^\d{2}[a-zA-Z]?$`)

// Default returns the dictionary bundled with the module. It is decoded once
// per process; a corrupt bundle is a build defect and panics.
//
//nolint:gochecknoglobals
var Default = sync.OnceValue(func() *Dictionary {
	d, err := Parse(bytes.NewReader(bundled))
	if err != nil {
		panic(err)
	}

	return d
})

// Parse decodes a flat code-to-name mapping. Both JSON and YAML documents are
// accepted (YAML keys must be quoted so "01" is not read as a number).
// Loading is all-or-nothing: an empty mapping, a malformed key, or an empty
// name fails the whole load.
func Parse(r io.Reader) (*Dictionary, error) {
	var names map[string]string

	if err := yaml.NewDecoder(r).Decode(&names); err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	if len(names) == 0 {
		return nil, ErrLoad.Wrap(errEmpty)
	}

	for code, name := range names {
		if !validCode.MatchString(code) {
			return nil, ErrLoad.With(slog.String("code", code)).Wrap(errBadCode)
		}

		if name == "" {
			return nil, ErrLoad.With(slog.String("code", code)).Wrap(errNoName)
		}
	}

	return &Dictionary{names: names}, nil
}

// Load reads a dictionary file (JSON or YAML) from path.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrLoad.With(slog.String("path", path)).Wrap(err)
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return nil, pkg.WrapError(err).With(slog.String("path", path))
	}

	return d, nil
}

var (
	errEmpty   = pkg.NewError("dictionary is empty")
	errBadCode = pkg.NewError("malformed code")
	errNoName  = pkg.NewError("empty name")
)
