// Package config loads service configuration from multiple sources (YAML file,
// environment variables, CLI flags) with precedence: CLI flags > Environment
// variables > YAML config > Defaults. It covers the HTTP server, where property
// defaults are read from, and which store backend holds runtime overrides.
package config
