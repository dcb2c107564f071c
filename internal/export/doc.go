// Package export turns a validated edit plan into a single rendered artifact.
//
// The pipeline runs three strictly sequential phases: per-clip segment
// extraction, concat manifest generation, and finalization through FFmpeg's
// concat demuxer. Every tool invocation follows the lossless-first policy:
// attempt a stream copy, retry exactly once with the fixed fallback encoder
// profile, and surface only the fallback's diagnostic when both fail.
//
// Intermediate and output paths are keyed by a per-invocation token so
// concurrent exports of the same plan cannot collide. Progress events are
// purely observational; the sink never influences control flow.
package export
