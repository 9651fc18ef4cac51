// Package server exposes cafeteria menus over a JSON HTTP API.
//
// Routes:
//
//	GET /health                       liveness and version
//	GET /allergens                    allergen dictionary
//	GET /cafeterias/:id/menu          every listed day
//	GET /cafeterias/:id/closest       first listed day
//	GET /cafeterias/:id/days/:date    one day, date as DD-MM-YYYY
//
// Menu routes accept names=true to resolve allergen codes and where=<expr>
// to filter meals (see package filter). Every request fetches the feed
// afresh.
//
// Failures are JSON objects {"error": ..., "kind": ...} with status 400 for
// a bad cafeteria id, date or filter, 404 when the day is not listed, 422
// for an unknown allergen code or a failing filter, and 502 when the feed
// cannot be fetched or parsed.
package server
