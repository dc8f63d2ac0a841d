// Package hours orchestrates a full synchronization run: it loads hour
// registrations from the database, validates them against the events JSON
// Schema, drives the e-boekhouden session, hands both event sets to the
// reconciliation engine and reports the resulting statistics. Snapshots of
// both sides and the statistics record are written to the output directory
// on every run, and optionally archived to object storage.
package hours
