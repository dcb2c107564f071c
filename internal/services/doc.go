// Package services defines shared utilities consumed by the export pipeline,
// the capture registry, and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp plan identifiers and phase names so tool
//     failures can report where in the pipeline they happened.
//   - Structured error markers plus the Wrap helper that classify failures into
//     the kinds the CLI reports (validation vs external tool vs not found).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the toolkit.
package services
