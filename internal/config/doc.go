// Package config loads, normalizes, and validates starcut configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STARCUT_FFMPEG. The Config type centralizes every knob the CLI needs,
// allowing the cache base directory and external tool binaries to be
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
