// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/atest/config.cue (XDG equivalent on Linux,
// ~/Library/Application Support/atest/config.cue on macOS, %APPDATA%\atest\config.cue
// on Windows), falling back to ./config.cue. Every key can be overridden with an
// ATEST_-prefixed environment variable, for example ATEST_SEARCH_TIMEOUT=30s.
//
// Configuration files are validated against the embedded CUE schema (config_schema.cue)
// before being merged over the defaults.
package config
