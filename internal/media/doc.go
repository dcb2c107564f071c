// Package media inspects source files with ffprobe and reduces the stream
// report to the attributes the editor cares about.
//
// The prober is an external collaborator to the export core: plan building and
// export never depend on it, but ingest and the CLI use it to surface
// duration, dimensions, and codec information for authored assets.
package media
