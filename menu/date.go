package menu

import (
	"log/slog"
	"regexp"
	"time"
)

// DateLayout is the feed's date format (DD-MM-YYYY) in [time] notation.
const DateLayout = "02-01-2006"

var datePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// ValidateDate reports whether s is a calendar date written as DD-MM-YYYY,
// e.g. "23-06-2025". It fails with [ErrInvalidDateFormat].
func ValidateDate(s string) error {
	if !datePattern.MatchString(s) {
		return ErrInvalidDateFormat.With(slog.String("date", s)).
			Wrap(statusText("got: " + s))
	}

	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDateFormat.With(slog.String("date", s)).Wrap(err)
	}

	return nil
}

// FormatDate writes t in the feed's date format.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }
