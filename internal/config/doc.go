// Package config manages brainctl profiles and resolves effective settings.
//
// A profile is a named bundle of connection settings (access key, username,
// workspace, server URLs). Profiles live in a single JSON store file under
// the user config directory together with an "active" pointer naming the
// profile used when no --profile override is given.
//
// Resolve merges four tiers per setting, highest priority first:
//  1. CLI flags
//  2. Environment variables (BRAINCTL_ACCESSKEY, BRAINCTL_URL, etc.)
//  3. The selected profile from the store
//  4. Built-in defaults
//
// Settings that have no default and no value at any tier are reported in
// Settings.Missing rather than as an error; each command decides whether
// a missing setting is fatal. This package never prints to the user.
package config
