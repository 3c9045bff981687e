// Package logging builds the slog loggers used across the capture pipeline
// and CLI.
//
// It offers a console handler for humans at the track (isatty-aware color,
// component prefixes, flattened key=value attrs) and a JSON handler for logs
// shipped elsewhere. Attr helper re-exports keep call sites terse and give
// diagnostics like dropped race events and parse failures consistent field
// names.
package logging
