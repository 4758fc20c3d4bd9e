package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"catalog-sync/core/database"
	"catalog-sync/core/enrich"
	"catalog-sync/core/enrich/tmdb"
	"catalog-sync/core/ledger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newEnrichment builds the normaliser and the optional artwork lookup. Without
// a TMDB key only the local parser is available and no lookup is made.
func newEnrichment(cfg enrich.Config) (enrich.Normalizer, enrich.Lookup, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Normalizer))
	if mode == "" {
		mode = "parse"
	}
	if mode != "parse" && mode != "tmdb" {
		return nil, nil, fmt.Errorf("unknown enrich normalizer %q (want parse or tmdb)", cfg.Normalizer)
	}

	if strings.TrimSpace(cfg.TMDBAPIKey) == "" {
		if mode == "tmdb" {
			return nil, nil, errors.New("enrich normalizer tmdb requires ENRICH_TMDB_API_KEY")
		}
		return enrich.NewParseNormalizer(), nil, nil
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client, err := tmdb.New(cfg.TMDBAPIKey, cfg.TMDBBaseURL, cfg.Language,
		tmdb.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, nil, fmt.Errorf("create tmdb client: %w", err)
	}

	lookup := enrich.NewBreakerLookup(
		enrich.NewTMDBLookup(client, cfg.ImageBaseURL),
		uint32(max(cfg.BreakerFailures, 0)),
		time.Duration(cfg.BreakerOpenSeconds)*time.Second,
	)

	var normalizer enrich.Normalizer = enrich.NewParseNormalizer()
	if mode == "tmdb" {
		normalizer = enrich.NewTMDBNormalizer(client)
	}
	return normalizer, lookup, nil
}

// openLedger connects to the run ledger and migrates its tables. It returns
// nil without error when the ledger is disabled.
func openLedger(ctx context.Context, cfg database.Config, logg *zap.Logger) (*ledger.Store, *gorm.DB, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}

	store := ledger.NewStore(db, time.Duration(cfg.TimeoutSeconds)*time.Second)
	if err := store.Migrate(ctx); err != nil {
		return nil, nil, err
	}
	logg.Info("Connected to run ledger", zap.String("database", cfg.Name))
	return store, db, nil
}
