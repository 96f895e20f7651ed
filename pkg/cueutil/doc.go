// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema definition
// and decodes them into Go values.
//
//	//go:embed config_schema.cue
//	var schema string
//
//	cfg, err := cueutil.Decode[map[string]any](schema, data, "#Config",
//	    cueutil.WithFilename("config.cue"))
//
// Validation failures are reported as *ValidationError values carrying the
// JSON-style path of the offending field (for example "search.exclude_dirs[1]").
package cueutil
