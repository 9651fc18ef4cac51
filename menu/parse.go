package menu

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/jidelnicek/allergen"
)

// document is a decoded feed. The root element name is recorded but not
// enforced here; only [Parser.Fetch] insists on [RootTag].
type document struct {
	XMLName xml.Name
	Days    []DayElement `xml:"den"`
}

// DayElement is a <den> element of the feed.
type DayElement struct {
	Date  string        `xml:"datum,attr"`
	Meals []MealElement `xml:"jidlo"`
}

// MealElement is a <jidlo> element of the feed.
type MealElement struct {
	Name      string `xml:"nazev,attr"`
	Type      string `xml:"druh,attr"`
	Allergens string `xml:"alergeny,attr"`
}

// decodeDocument parses document text. The text is already UTF-8, so any
// encoding named by the XML declaration is ignored.
func decodeDocument(text string) (*document, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) {
		return r, nil
	}

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNoRoot
		}

		return nil, err
	}

	// Only whitespace, comments and processing instructions may follow the
	// root element.
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}

		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, errTrailing
			}
		case xml.Comment, xml.ProcInst:
		default:
			return nil, errTrailing
		}
	}
}

// parseDocument is decodeDocument with failures reported as
// ErrMalformedDocument.
func (p *Parser) parseDocument(text string) (*document, error) {
	doc, err := decodeDocument(text)
	if err != nil {
		return nil, ErrMalformedDocument.
			With(slog.Int("cafeteria", p.cafeteriaID)).
			Wrap(err)
	}

	p.logger.Trace("decoded menu document",
		slog.String("root", doc.XMLName.Local),
		slog.Int("days", len(doc.Days)),
	)

	return doc, nil
}

// normalize trims s and lower-cases it with Czech casing rules.
func normalize(s string) string {
	return cases.Lower(language.Czech).String(strings.TrimSpace(s))
}

// ParseDay converts a <den> element into a [Day]. Meal names and types are
// trimmed and lower-cased. Allergen codes are extracted from each meal's
// allergen text; when resolveNames is set they are replaced by their
// dictionary names and the first unknown code fails the whole day.
func (p *Parser) ParseDay(el DayElement, resolveNames bool) (Day, error) {
	day := Day{
		Date:  strings.TrimSpace(el.Date),
		Meals: make([]Meal, 0, len(el.Meals)),
	}

	for _, m := range el.Meals {
		allergens := []string{}

		if m.Allergens != "" {
			allergens = allergen.ExtractCodes(m.Allergens)

			if resolveNames {
				names, err := p.dict.Names(allergens)
				if err != nil {
					return Day{}, err
				}

				allergens = names
			}
		}

		day.Meals = append(day.Meals, Meal{
			Name:      normalize(m.Name),
			Type:      normalize(m.Type),
			Allergens: allergens,
		})
	}

	return day, nil
}

// WholeMenu decodes every day of the document, in document order.
func (p *Parser) WholeMenu(text string, resolveNames bool) (Menu, error) {
	doc, err := p.parseDocument(text)
	if err != nil {
		return Menu{}, err
	}

	m := Menu{
		CafeteriaID: p.cafeteriaID,
		Days:        make([]Day, 0, len(doc.Days)),
	}

	for _, el := range doc.Days {
		day, err := p.ParseDay(el, resolveNames)
		if err != nil {
			return Menu{}, err
		}

		m.Days = append(m.Days, day)
	}

	return m, nil
}

// ClosestDay decodes the first day of the document. The feed lists days
// starting with the current one, so the first day is taken to be the
// closest; no date comparison is made.
func (p *Parser) ClosestDay(text string, resolveNames bool) (Day, error) {
	doc, err := p.parseDocument(text)
	if err != nil {
		return Day{}, err
	}

	if len(doc.Days) == 0 {
		return Day{}, ErrNoDayFound.With(slog.Int("cafeteria", p.cafeteriaID))
	}

	return p.ParseDay(doc.Days[0], resolveNames)
}

// DateMenu decodes the day whose date equals target exactly. The target is
// validated with [ValidateDate] before the document is read. If the
// document has no such day, found is false and err is nil; a listed day
// without meals is returned with found set.
func (p *Parser) DateMenu(
	text, target string,
	resolveNames bool,
) (Day, bool, error) {
	if err := ValidateDate(target); err != nil {
		return Day{}, false, err
	}

	doc, err := p.parseDocument(text)
	if err != nil {
		return Day{}, false, err
	}

	for _, el := range doc.Days {
		if el.Date != target {
			continue
		}

		day, err := p.ParseDay(el, resolveNames)
		if err != nil {
			return Day{}, false, err
		}

		return day, true, nil
	}

	return Day{}, false, nil
}
