package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"catalog-sync/core/config"
	"catalog-sync/core/ledger"
	"catalog-sync/core/logger"

	"github.com/spf13/cobra"
)

var runsLimit int

// runsCmd lists recorded runs.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show synchronisation history from the run ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, cleanup, err := ledgerForCommand(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		limit := runsLimit
		if limit <= 0 {
			limit = cfg.Sync.HistoryLimit
		}

		list, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		fmt.Println(runsTable(list))
		return nil
	},
}

// runsShowCmd prints the items of one run.
var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the per-item outcomes of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, cleanup, err := ledgerForCommand(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		run, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(runsTable([]ledger.Run{*run}))
		fmt.Println(runItemsTable(run.Entries))
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 0, "Number of runs to show (default sync.history_limit)")
	runsCmd.AddCommand(runsShowCmd)
	RootCmd.AddCommand(runsCmd)
}

func ledgerForCommand(cmd *cobra.Command) (*ledger.Store, *config.Config, func(), error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Database.Enabled {
		return nil, nil, nil, errors.New("run ledger disabled (set DATABASE_ENABLED=true)")
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, db, err := openLedger(cmd.Context(), cfg.Database, logg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open run ledger: %w", err)
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = logg.Sync()
	}
	return store, cfg, cleanup, nil
}

func runsTable(list []ledger.Run) string {
	rows := make([][]string, 0, len(list))
	for _, run := range list {
		mode := ""
		if run.DryRun {
			mode = "dry run"
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Target,
			run.Status,
			strconv.Itoa(run.Items),
			strconv.Itoa(run.Published),
			strconv.Itoa(run.Failed + run.Abandoned),
			run.IndexOutcome,
			mode,
		})
	}
	return renderTable("Runs",
		[]string{"Run", "Started", "Target", "Status", "Items", "Published", "Failed", "Index", "Mode"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft})
}

func runItemsTable(items []ledger.RunItem) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.ItemID, item.Kind, item.Path, item.Action, item.Outcome, item.Reason, item.Error})
	}
	return renderTable("Items", []string{"ID", "Kind", "Path", "Action", "Outcome", "Reason", "Error"}, rows, nil)
}
