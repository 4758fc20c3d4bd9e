// Package middleware groups the Fiber middleware of the status server.
//
//   - auth: static API key check, with public path prefixes such as /health.
//   - rayid: per-request id in the X-Ray-ID header and the "ray_id" local,
//     picked up by logger.WithRayID.
//
// Register rayid first so every later log line carries the id.
package middleware
