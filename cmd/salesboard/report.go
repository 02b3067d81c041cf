package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chrisconley/salesboard/internal"
	"github.com/chrisconley/salesboard/internal/config"
	"github.com/chrisconley/salesboard/internal/export"
	"github.com/chrisconley/salesboard/internal/infra"
	"github.com/chrisconley/salesboard/internal/source"
	"github.com/chrisconley/salesboard/specs"
)

var (
	reportOut string
	exportDir string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the metric bundle and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		w := cmd.OutOrStdout()
		if reportOut != "" {
			f, err := os.Create(reportOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", reportOut, err)
			}
			defer f.Close()
			w = f
		}
		return runReport(ctx, cfg, logger, w)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the unsegmented companies, filtered subscriptions and owner summary as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		return runExport(ctx, cfg, logger, exportDir)
	},
}

func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancel()
	}
}

func runReport(ctx context.Context, cfg *config.Config, logger *zap.Logger, w io.Writer) error {
	report, err := buildReport(ctx, cfg, logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func runExport(ctx context.Context, cfg *config.Config, logger *zap.Logger, dir string) error {
	report, err := buildReport(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for _, table := range export.Tables(report) {
		path := filepath.Join(dir, table.Name+".csv")
		if err := writeTable(path, table); err != nil {
			return err
		}
		logger.Info("exported table", zap.String("path", path), zap.Int("rows", len(table.Rows)))
	}
	return nil
}

func writeTable(path string, table export.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Write(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// buildReport loads the tables and assembles the bundle. Section failures
// are logged and leave the bundle usable.
func buildReport(ctx context.Context, cfg *config.Config, logger *zap.Logger) (specs.ReportSpec, error) {
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	reportSpec, err := cfg.Report.ToSpec()
	if err != nil {
		return specs.ReportSpec{}, fmt.Errorf("invalid report config: %w", err)
	}

	tables, err := loadTables(ctx, cfg.Source)
	if err != nil {
		return specs.ReportSpec{}, err
	}
	logger.Debug("tables loaded",
		zap.String("source", cfg.Source.Kind),
		zap.Int("organizations", len(tables.Organizations)),
		zap.Int("subscriptions", len(tables.Subscriptions)),
		zap.Int("orders", len(tables.Orders)),
	)

	bus := infra.NewBus()
	infra.LogEvents(bus, logger)

	report, err := internal.NewAssembler(bus).Assemble(tables, reportSpec)
	if err != nil {
		logger.Warn("report incomplete", zap.Int("failed_sections", len(report.Diagnostics.Sections)))
	}
	return report, nil
}

func loadTables(ctx context.Context, c config.SourceConfig) (specs.TablesSpec, error) {
	switch c.Kind {
	case config.SourcePostgres:
		pool, err := source.Connect(ctx, c.DatabaseURL)
		if err != nil {
			return specs.TablesSpec{}, err
		}
		defer pool.Close()

		return source.NewPostgres(pool, source.TableNames{
			Organizations: c.Tables.Organizations,
			Subscriptions: c.Tables.Subscriptions,
			Orders:        c.Tables.Orders,
		}).Load(ctx)
	default:
		return source.CSV{
			Organizations: c.Organizations,
			Subscriptions: c.Subscriptions,
			Orders:        c.Orders,
		}.Load(ctx)
	}
}
