// Package format writes menu records to an output stream as JSON, YAML, CBOR
// or a styled plain-text listing.
//
// [Write] accepts [menu.Menu], [menu.Day], search results, allergen entries
// and [Nothing]; other values are written with their default encodings in
// the structured formats and with fmt in text.
package format
