// Package archive stores synchronization run artifacts in S3-compatible
// object storage (MinIO, S3).
//
// Every run produces a database event snapshot, a remote event snapshot, the
// downloaded export spreadsheet and a statistics report. When archiving is
// enabled these are uploaded under runs/<year>/<run_id>/ so past runs can be
// inspected without access to the machine that executed them.
//
// Archiving is strictly best-effort: an upload failure is logged and never
// fails the synchronization run itself.
package archive
