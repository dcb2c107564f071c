// Package plan compiles a user-authored project description into a validated,
// ordered timeline the export pipeline can consume.
//
// Build parses the project JSON (assets, clips, tracks), resolves every
// track's explicit clip order into concrete placed clips, and routes them onto
// the main or overlay track by the owning track's role. The main track is
// sorted by timeline start and rejected when consecutive clips overlap; trim
// windows are validated per clip with identifier-qualified messages.
//
// An EditPlan is immutable after construction. Callers rebuild it wholesale
// from a new project description rather than patching it in place.
package plan
