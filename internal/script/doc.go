// Package script evaluates the small pieces of remote-supplied code carried
// by TuneHub method descriptors: template expressions inside URL and parameter
// templates, and transform scripts that normalize raw API responses.
//
// Both run on a fresh goja runtime per call, seeded only with the caller's
// variables, guarded by a static deny-list and a wall-clock interrupt budget.
// Descriptors are semi-trusted, so failures degrade (unexpanded span, empty
// record list) instead of propagating.
package script
