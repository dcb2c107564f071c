// Package capture manages live screen and audio recording subprocesses.
//
// A Registry tracks every running capture under an opaque session id. Sessions
// are created by StartSession, which spawns the recording tool writing into
// the captures cache directory, and torn down by StopSession, which asks the
// process to stop gracefully and blocks until it has exited. The registry is
// the only owner of a session's process handle; callers interact purely
// through session ids.
//
// Device discovery parses the recording tool's diagnostic enumeration output.
// The text classification lives in a pure function so the heuristic can be
// tested without spawning anything.
package capture
