// Package logging constructs slog loggers with console and JSON handlers and
// provides the standardized attribute keys used across TuneBot components.
package logging
