// Package database handles the optional MySQL connection used by the run
// ledger, and schema inspection for verifying the ledger tables.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Run ledger disabled", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "sync_runs")
package database
