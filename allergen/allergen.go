package allergen

import (
	"log/slog"
	"maps"
	"regexp"
	"slices"

	"github.com/ardnew/jidelnicek/pkg"
)

// Code is an allergen code: two digits optionally followed by one letter,
// e.g. "01a" or "07".
type Code = string

// ErrUnknownCode is returned when a code has no entry in a [Dictionary].
var ErrUnknownCode = pkg.NewError("unknown allergen code")

// codePattern matches a code not preceded by a letter, digit or underscore
// in any script; the code is the first submatch. The optional letter is
// greedy, so "01a" is preferred over "01".
var codePattern = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])(\d{2}[a-zA-Z]?)`)

// ExtractCodes returns every allergen code found in text, in order of
// appearance. Descriptive text following each code is ignored and the codes
// are not checked against any dictionary. Text without codes (including the
// empty string) yields an empty, non-nil slice.
func ExtractCodes(text string) []Code {
	found := codePattern.FindAllStringSubmatch(text, -1)
	codes := make([]Code, 0, len(found))

	for _, m := range found {
		codes = append(codes, m[1])
	}

	return codes
}

// Dictionary maps allergen codes to display names. It is immutable once
// constructed and safe for concurrent use.
type Dictionary struct {
	names map[Code]string
}

// New returns a Dictionary holding a copy of names.
func New(names map[Code]string) *Dictionary {
	return &Dictionary{names: maps.Clone(names)}
}

// Lookup returns the display name of code.
func (d *Dictionary) Lookup(code Code) (string, error) {
	if d != nil {
		if name, ok := d.names[code]; ok {
			return name, nil
		}
	}

	return "", ErrUnknownCode.With(slog.String("code", code)).
		Wrap(unknownCode(code))
}

// Names translates each code in order, failing on the first unknown one.
func (d *Dictionary) Names(codes []Code) ([]string, error) {
	names := make([]string, 0, len(codes))

	for _, code := range codes {
		name, err := d.Lookup(code)
		if err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, nil
}

// Decode extracts the codes from text and translates them to names.
func (d *Dictionary) Decode(text string) ([]string, error) {
	return d.Names(ExtractCodes(text))
}

// Codes returns all known codes in ascending order.
func (d *Dictionary) Codes() []Code {
	if d == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(d.names))
}

// Entry is one dictionary record.
type Entry struct {
	Code Code   `cbor:"code" json:"code" yaml:"code"`
	Name string `cbor:"name" json:"name" yaml:"name"`
}

// Entries returns all records ordered by code.
func (d *Dictionary) Entries() []Entry {
	codes := d.Codes()
	out := make([]Entry, 0, len(codes))

	for _, code := range codes {
		out = append(out, Entry{Code: code, Name: d.names[code]})
	}

	return out
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}

	return len(d.names)
}

// unknownCode is the cause attached to ErrUnknownCode.
type unknownCode string

func (c unknownCode) Error() string { return string(c) }
