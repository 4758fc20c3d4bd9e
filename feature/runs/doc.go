// Package runs exposes the run ledger over the status API.
//
// # Routes
//
//   - GET /runs: latest runs, newest first (?limit=N, default 20, max 200).
//   - GET /runs/:id: one run with its per-item outcomes.
//   - GET /runs/schema: drift between the ledger tables and the models.
//
// When the ledger is disabled every route answers 503.
package runs
