// Package config handles configuration loading, parsing, and validation
// from environment variables (MICROCASE_ prefix) and an optional config.yaml.
// It keeps configuration details separate from the micro-case engine.
package config
