// Package config loads, normalizes, and validates champtimer configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the capture pipeline and CLI need: serial device settings, lane count,
// framing limits, results/log directories, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
