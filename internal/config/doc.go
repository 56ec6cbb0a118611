// Package config loads the environment server's runtime settings from YAML
// files, environment variables and CLI flags, with precedence CLI flags >
// YAML config > Environment variables > Defaults. It also decides which
// deployment target and overlay file the environment record is loaded with.
package config
