// Package config loads the fowatch configuration.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--theme, --analyzer, --debug)
//  2. Environment variables (FOWATCH_THEME, NO_COLOR, FOWATCH_DEBUG)
//  3. YAML config file (--config, .fowatch.yaml in the working directory or
//     ~/.config/fowatch/.fowatch.yaml)
//  4. Built-in defaults
//
// A job in the YAML file replaces the built-in job of the same name as a
// whole. Jobs without an analyzer get one detected from their command.
//
// # Environment Variables
//
//   - FOWATCH_THEME: theme name (default, orca, mono)
//   - NO_COLOR: any non-empty value selects the mono theme
//   - FOWATCH_DEBUG: "true" or "1" enables debug logging
//
// Ignore patterns are compiled by Validate, so a bad regular expression is
// reported when the file is loaded and never while a job runs.
package config
