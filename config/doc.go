// Package config loads the application configuration from YAML.
//
// Configuration is optional: a missing file yields working defaults, and
// every omitted field falls back to its default individually, so a config
// file only needs to name what it changes.
package config
