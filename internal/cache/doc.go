// Package cache derives the on-disk layout for intermediate and output
// artifacts beneath the application base directory.
//
// The layout mirrors what the rest of the toolkit expects: cache/previews,
// cache/segments, and cache/captures for intermediates, a sibling projects
// directory for finished renders, and cache/media for ingested sources. All
// directories are created eagerly by New; path derivation itself is pure.
//
// Segment and manifest paths are keyed by a per-invocation token rather than
// the plan identifier alone so concurrent exports of the same plan never
// collide on shared intermediates.
package cache
