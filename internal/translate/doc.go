// SPDX-License-Identifier: MPL-2.0

// Package translate turns user-typed test references into build targets and
// harness run commands.
//
// Translate resolves every reference in order, trying the kinds suggested by
// the reference classifier until a finder produces a descriptor. Any fatal
// finder error, or a reference that no kind resolves, fails the whole batch.
// Resolved descriptors are flattened per module before build targets and run
// commands are computed.
//
// Resolution is traced with OpenTelemetry spans named
// "translate.Translator.Translate" and "translate.Translator.Resolve".
package translate
