// Package logger builds the zap logger shared by the CLI, the pipeline and
// the status server.
//
// Level is any zap level name. Format "console" gives colored human output
// without stack traces; anything else gives JSON lines. The debug level
// switches to zap's development defaults.
//
// Pipeline components receive the logger explicitly and add run-scoped fields
// (run_id, path, item). HTTP handlers derive a request logger with
// WithRayID.
//
//	log, err := logger.New(&cfg.Log)
//	if err != nil {
//	    return err
//	}
//	log.Info("Synchronisation started", zap.String("target", "minio"))
package logger
