package menu

import (
	"errors"

	"github.com/ardnew/jidelnicek/allergen"
	"github.com/ardnew/jidelnicek/pkg"
)

// Predefined errors (sentinel values).
var (
	// ErrFetch reports a failed feed download: transport error, non-success
	// status, empty body, unparsable body or unexpected root element.
	ErrFetch = pkg.NewError("failed to fetch menu")
	// ErrMalformedDocument reports document text that is not well-formed XML.
	ErrMalformedDocument = pkg.NewError("failed to parse XML")
	// ErrNoDayFound reports a well-formed document without any day.
	ErrNoDayFound = pkg.NewError("no day found in menu")
	// ErrInvalidDateFormat reports a target date not in DD-MM-YYYY form.
	ErrInvalidDateFormat = pkg.NewError("invalid date format, expected DD-MM-YYYY")
)

// Kind classifies an error returned by this package.
type Kind int

const (
	KindNone                Kind = iota // none
	KindFetch                           // fetch
	KindMalformedDocument               // malformed document
	KindNoDayFound                      // no day found
	KindInvalidDateFormat               // invalid date format
	KindUnknownAllergenCode             // unknown allergen code
	KindOther                           // other
)

var kindName = [...]string{
	KindNone:                "none",
	KindFetch:               "fetch",
	KindMalformedDocument:   "malformed document",
	KindNoDayFound:          "no day found",
	KindInvalidDateFormat:   "invalid date format",
	KindUnknownAllergenCode: "unknown allergen code",
	KindOther:               "other",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return kindName[KindOther]
	}

	return kindName[k]
}

// KindOf returns the Kind of err. A nil error is [KindNone]; errors not
// produced by this package or the allergen dictionary are [KindOther].
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrFetch):
		return KindFetch
	case errors.Is(err, ErrMalformedDocument):
		return KindMalformedDocument
	case errors.Is(err, ErrNoDayFound):
		return KindNoDayFound
	case errors.Is(err, ErrInvalidDateFormat):
		return KindInvalidDateFormat
	case errors.Is(err, allergen.ErrUnknownCode):
		return KindUnknownAllergenCode
	default:
		return KindOther
	}
}

// Causes attached to the sentinels above.
var (
	errEmptyBody  = pkg.NewError("received empty response from the server")
	errNoRoot     = pkg.NewError("no element found")
	errTrailing   = pkg.NewError("junk after document element")
	errRootTag    = pkg.NewError("unexpected root element")
	errHTTPStatus = pkg.NewError("unexpected HTTP status")
)
