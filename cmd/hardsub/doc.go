// Package main hosts the hardsub CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces the extraction pipeline (extract),
// source inspection (probe), detection cache maintenance (cache), external
// tool checks (deps), and configuration scaffolding (config). It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
