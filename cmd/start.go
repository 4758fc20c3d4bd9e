package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-sync/core/config"
	"catalog-sync/core/ledger"
	"catalog-sync/core/loader"
	"catalog-sync/core/logger"
	"catalog-sync/core/middleware/auth"
	"catalog-sync/core/middleware/rayid"
	"catalog-sync/feature/runs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the status server",
	Long:  `Serves health, run history and Prometheus metrics over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// The ledger is optional; run routes answer 503 without it.
		var (
			store  runs.Store
			schema runs.SchemaChecker
		)
		if ls, db, err := openLedger(cmd.Context(), cfg.Database, logg); err != nil {
			logg.Warn("Optional run ledger connection failed", zap.Error(err))
		} else if ls != nil {
			store = ls
			schema = func() (*ledger.SchemaReport, error) { return ledger.CheckSchema(db) }
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		})

		mgr := loader.NewManager()
		mgr.Register(runs.NewFeature(store, schema, logg))

		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		if cfg.Server.AuthEnabled() {
			app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Public: []string{"/health"}}))
		} else {
			logg.Warn("Status API key not set, requests are not authenticated")
		}

		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
