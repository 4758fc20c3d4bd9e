// Package config loads catalog-sync settings.
//
// Values come from the environment, optionally seeded from a .env file, with
// defaults taken from the `default` struct tags of each section. Nested keys
// map to upper-case environment names joined by underscores, so
// publish.github.token is read from PUBLISH_GITHUB_TOKEN.
//
// # Configuration Structure
//
//   - Log: level and encoding
//   - Listing: Abyss API root, key and page size
//   - Enrich: normaliser choice, TMDB credentials, workers and breaker
//   - Publish: target selection (minio, github, memory) and write pacing
//   - Storage: MinIO credentials and bucket
//   - Layout: artifact directories, index and cache paths
//   - Sync: lock file, container policy, history size
//   - Database: optional MySQL run ledger
//   - Server: status API port and key
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Publish.Target)
package config
