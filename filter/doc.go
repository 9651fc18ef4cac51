// Package filter selects meals with expr-lang boolean expressions.
//
// An expression sees one meal at a time through these variables:
//
//	date      string    the day's date, "DD-MM-YYYY"
//	weekday   string    English weekday name of date, e.g. "Monday"
//	name      string    meal name (lower case)
//	course    string    meal type, e.g. "polévka" or "oběd 1"
//	allergens []string  allergen codes or names, as decoded
//
// For example:
//
//	not ("07" in allergens) and course startsWith "oběd"
//	weekday == "Friday" && name contains "řízek"
//
// The meal type is exposed as course rather than type, which is an expr-lang
// builtin function.
package filter
