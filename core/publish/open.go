package publish

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog-sync/core/storage"
)

// Open builds the target selected by cfg. The minio target creates its
// bucket when missing.
func Open(ctx context.Context, cfg Config, storageCfg storage.Config) (Target, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	switch strings.ToLower(strings.TrimSpace(cfg.Target)) {
	case "", TargetMinio:
		client, err := storage.NewClient(storageCfg)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, storageCfg.Bucket, storageCfg.Region); err != nil {
			return nil, err
		}
		return NewMinioTarget(client, storageCfg.Bucket, timeout), nil

	case TargetGitHub:
		opts := []GitHubOption{WithGitHubBranch(cfg.GitHub.Branch)}
		if cfg.GitHub.BaseURL != "" {
			opts = append(opts, WithGitHubBaseURL(cfg.GitHub.BaseURL))
		}
		return NewGitHubTarget(cfg.GitHub.Token, cfg.GitHub.Repository, timeout, opts...)

	case TargetMemory:
		return NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown publish target %q (want minio, github or memory)", cfg.Target)
	}
}
