// Package ffmpeg mediates access to the FFmpeg CLI used for segment
// extraction, concatenation, capture, and device enumeration.
//
// It normalizes command invocation, carries the tool's diagnostic output in
// returned errors, and exposes a testable Executor seam so the export pipeline
// and capture registry can be exercised without spawning real processes.
//
// Prefer this package over ad-hoc exec.Command usage when interacting with
// FFmpeg so argument construction and error reporting remain consistent.
package ffmpeg
