// Package logging constructs slog loggers for the hardsub CLI.
//
// Two output formats are supported: a pretty console handler for interactive
// runs and a JSON handler for machine consumption. When no format is
// configured the console format is chosen if stderr is a terminal. Typed
// attribute helpers and standardized field names keep log output uniform
// across pipeline stages.
package logging
