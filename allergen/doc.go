// Package allergen decodes the allergen annotations attached to Strava.cz
// menu items.
//
// Allergen text in the feed is free-form, for example
//
//	01a-Obiloviny - pšenice,07 -Mléko,09 -Celer
//
// [ExtractCodes] pulls the codes ("01a", "07", "09") out of such text without
// ever failing. A [Dictionary] translates codes into display names; the
// dictionary bundled with the module ([Default]) follows the Czech list of
// the fourteen EU-regulated allergens, with lettered sub-codes for cereals
// and tree nuts.
package allergen
