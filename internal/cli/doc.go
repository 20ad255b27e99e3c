// Package cli wires together the Cobra command tree for the brainctl
// binary.
//
// It defines the root command and all subcommands (configure, profile,
// brain management, train, sims, log, diagnose, version), binds global
// flags into the configuration precedence chain, builds API clients from
// resolved settings, and returns deterministic exit codes.
package cli
