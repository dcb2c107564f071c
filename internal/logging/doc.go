// Package logging configures the slog loggers used across starcut.
//
// It translates configuration values into handler options, fans output to
// stdout and an optional log file, and exposes small attribute helpers so
// call sites stay terse and field names stay consistent.
package logging
