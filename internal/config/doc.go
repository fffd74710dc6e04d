// Package config loads, validates, and normalizes TuneBot configuration from
// a TOML file with environment variable overrides.
package config
