package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"catalog-sync/core/catalog"
	"catalog-sync/core/config"
	"catalog-sync/core/listing"
	"catalog-sync/core/logger"
	"catalog-sync/core/pipeline"
	"catalog-sync/core/publish"
	"catalog-sync/core/reconcile"

	"github.com/goccy/go-json"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncDryRun          bool
	syncContainerPolicy string
	syncJSON            bool
)

// syncCmd performs one synchronisation run.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise the published catalog with the remote library",
	Long: `Lists the remote library, publishes pages for titles that are not yet
published, republishes series whose episode list changed and rewrites the index.

Examples:
  # Plan only, nothing is written
  catalog-sync sync --dry-run

  # Republish every series page
  catalog-sync sync --container-policy always

  # Save the full report next to the summary
  catalog-sync sync --json`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Plan and report without writing")
	syncCmd.Flags().StringVar(&syncContainerPolicy, "container-policy", "", "Override sync.container_policy (detect or always)")
	syncCmd.Flags().BoolVar(&syncJSON, "json", false, "Save the detailed report as JSON")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logg.Sync()

	policyName := cfg.Sync.ContainerPolicy
	if syncContainerPolicy != "" {
		policyName = syncContainerPolicy
	}
	policy, err := reconcile.ParsePolicy(policyName)
	if err != nil {
		return err
	}

	lock := flock.New(cfg.Sync.LockFile)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("another sync is already running")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logg.Warn("Failed to release sync lock", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lister, err := listing.New(cfg.Listing)
	if err != nil {
		return fmt.Errorf("failed to create listing client: %w", err)
	}

	target, err := publish.Open(ctx, cfg.Publish, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open publish target: %w", err)
	}

	normalizer, lookup, err := newEnrichment(cfg.Enrich)
	if err != nil {
		return err
	}

	deps := pipeline.Deps{
		Lister:     lister,
		Target:     target,
		Normalizer: normalizer,
		Lookup:     lookup,
	}
	// The ledger is optional: a run still publishes when it is unreachable.
	if store, _, err := openLedger(ctx, cfg.Database, logg); err != nil {
		logg.Warn("Run ledger unavailable, run will not be recorded", zap.Error(err))
	} else if store != nil {
		deps.Recorder = store
	}

	p := pipeline.New(pipeline.Settings{
		Layout: catalog.NewLayout(cfg.Layout),
		Policy: policy,
		Apply: reconcile.Options{
			DryRun:          syncDryRun,
			WritesPerSecond: cfg.Publish.WritesPerSecond,
		},
		Enrich:    cfg.Enrich,
		EmbedBase: cfg.Listing.EmbedBaseURL,
	}, deps, logg)

	report, runErr := p.Run(ctx)

	if syncJSON {
		filename := fmt.Sprintf("sync_report_%d.json", time.Now().Unix())
		if err := writeReport(filename, report); err != nil {
			logg.Error("Failed to save JSON report", zap.Error(err))
		} else {
			logg.Info("Detailed JSON report saved", zap.String("file", filename))
		}
	}

	fmt.Println(summaryTable(report))
	if changed := itemTable(report); changed != "" {
		fmt.Println(changed)
	}

	return runErr
}

func writeReport(filename string, report *pipeline.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(filename, data, 0o644)
}

// summaryTable renders run totals.
func summaryTable(r *pipeline.Report) string {
	rows := [][]string{
		{"Run", r.RunID},
		{"Target", r.Target},
		{"Status", r.Status},
		{"Items", strconv.Itoa(r.Summary.TotalItems)},
		{"Movies", strconv.Itoa(r.Summary.Movies)},
		{"Series", strconv.Itoa(r.Summary.Series)},
		{"Published", strconv.Itoa(r.Count(reconcile.OutcomePublished))},
		{"Planned", strconv.Itoa(r.Count(reconcile.OutcomePlanned))},
		{"Skipped", strconv.Itoa(r.Count(reconcile.OutcomeSkipped))},
		{"Failed", strconv.Itoa(r.Count(reconcile.OutcomeFailed))},
		{"Abandoned", strconv.Itoa(r.Count(reconcile.OutcomeAbandoned))},
		{"Index", string(r.Index.Outcome)},
		{"Cache entries", strconv.Itoa(r.Cache.Entries)},
		{"Duration", r.Duration().Round(time.Millisecond).String()},
	}
	if r.DryRun {
		rows = append(rows, []string{"Mode", "dry run"})
	}
	if r.Error != "" {
		rows = append(rows, []string{"Error", r.Error})
	}
	return renderTable("Sync summary", []string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

// itemTable renders every item that was not skipped. It is empty when
// nothing changed.
func itemTable(r *pipeline.Report) string {
	var rows [][]string
	for _, item := range r.Items {
		if item.Outcome == reconcile.OutcomeSkipped {
			continue
		}
		rows = append(rows, []string{item.ID, item.Kind.Label(), string(item.Action), string(item.Outcome), item.Reason, item.Error})
	}
	if len(rows) == 0 {
		return ""
	}
	return renderTable("Changes", []string{"ID", "Kind", "Action", "Outcome", "Reason", "Error"}, rows, nil)
}
