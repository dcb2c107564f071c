// Package history persists one record per export invocation in SQLite.
//
// The exporter creates a row when a job starts, streams progress updates into
// it while phases run, and stamps the terminal status plus artifact details
// when the job completes or fails. The CLI reads the table back for the jobs
// listing. This is invocation history only; projects themselves are never
// serialized.
package history
