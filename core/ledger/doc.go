// Package ledger persists the report of every synchronisation run in MySQL.
//
// The ledger is optional. When the database is disabled or unreachable the
// pipeline runs without it and the runs command and status API report the
// ledger as unavailable.
//
// # Schema
//
// Two tables are managed through GORM auto-migration:
//
//   - sync_runs: one row per run with counts and the index outcome.
//   - sync_run_items: one row per catalog item with its action and outcome.
//
// CheckSchema compares the live tables against the models, so operators can
// spot a ledger created by an older release before AutoMigrate runs.
package ledger
