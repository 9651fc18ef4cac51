// Package menu fetches and decodes the Strava.cz (Strava 5) XML menu feed.
//
// A [Parser] is bound to one cafeteria. [Parser.Fetch] downloads the raw
// feed document; [Parser.WholeMenu], [Parser.ClosestDay] and
// [Parser.DateMenu] decode a document into [Menu] and [Day] records. The
// decoding entry points take the document text rather than fetching it
// themselves, so a document can be fetched once and queried many times, or
// read from disk.
//
// The feed schema is
//
//	<jidelnicky>
//	  <den datum="23-06-2025">
//	    <jidlo nazev="Celerová s krutony" druh="Polévka" alergeny="01a-Obiloviny - pšenice,09 -Celer"/>
//	  </den>
//	</jidelnicky>
//
// "Closest day" means the first <den> in document order. The feed lists days
// chronologically starting with the current one, and the parser relies on
// that convention instead of comparing dates.
//
// Failures are *[pkg.Error] values matching one of [ErrFetch],
// [ErrMalformedDocument], [ErrNoDayFound], [ErrInvalidDateFormat] or
// [allergen.ErrUnknownCode] with errors.Is; [KindOf] classifies any error
// for exhaustive switches.
package menu
