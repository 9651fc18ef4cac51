package format

//go:generate go tool stringer --linecomment --type Format --output format_string.go

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/jidelnicek/pkg"
)

// Format selects an output encoding.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
	FormatYAML               // yaml
	FormatCBOR               // cbor
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatJSON

// DefaultIndent is the indent width of JSON and YAML output.
const DefaultIndent = 2

// Predefined errors (sentinel values).
var (
	ErrUnknownFormat = pkg.NewError("unknown output format")
	ErrEncode        = pkg.NewError("encode output")
)

// Formats returns an iterator over the names of all output formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatText, FormatJSON, FormatYAML, FormatCBOR} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat parses a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return DefaultFormat, ErrUnknownFormat.With(slog.String("format", s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = v

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// Nothing stands for an absent result, such as a date missing from the
// menu. It encodes as an empty object; the text format prints Reason.
type Nothing struct {
	Reason string
}

// Write encodes v to w in format f. Indent applies to JSON and YAML; zero
// selects compact output (a single line, or YAML flow style).
func Write(ctx context.Context, w io.Writer, v any, f Format, indent int) error {
	var err error

	switch f {
	case FormatJSON:
		err = writeJSON(w, v, indent)
	case FormatYAML:
		err = writeYAML(ctx, w, v, indent)
	case FormatCBOR:
		err = writeCBOR(w, v)
	case FormatText:
		err = writeText(w, v)
	default:
		return ErrUnknownFormat.With(slog.Int("format", int(f)))
	}

	if err != nil {
		return ErrEncode.With(slog.String("format", f.String())).Wrap(err)
	}

	return nil
}

func writeJSON(w io.Writer, v any, indent int) error {
	if _, ok := v.(Nothing); ok {
		v = struct{}{}
	}

	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	if _, ok := v.(Nothing); ok {
		_, err := fmt.Fprintln(w, "{}")

		return err
	}

	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

func writeCBOR(w io.Writer, v any) error {
	if _, ok := v.(Nothing); ok {
		v = map[string]any{}
	}

	data, err := cbor.Marshal(v)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
