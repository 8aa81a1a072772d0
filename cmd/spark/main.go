package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"discoveryspark/adapters/model"
	"discoveryspark/adapters/postgres"
	"discoveryspark/adapters/render"
	"discoveryspark/adapters/synth"
	"discoveryspark/adapters/translate"
	"discoveryspark/app"
	"discoveryspark/domain/core"
	"discoveryspark/internal"
	"discoveryspark/internal/attribution"
	"discoveryspark/internal/config"
	"discoveryspark/internal/dataset"
	"discoveryspark/internal/testkit"
	"discoveryspark/ports"
	"discoveryspark/ui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spark",
		Short: "DiscoverySpark relational insight engine",
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newAnalyzeCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var seed int64
	var customers, sales int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a deterministic demo dataset (customers + sales)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			genCfg := testkit.DefaultRetailConfig()
			genCfg.Seed = seed
			genCfg.CustomerCount = customers
			genCfg.SaleCount = sales

			gen := testkit.NewRetailDataGenerator(genCfg)
			if err := gen.WriteDataset(cfg.Paths.DatasetDir, cfg.Paths.MappingFile); err != nil {
				return err
			}
			fmt.Printf("wrote customers.csv and sales.csv to %s\n", cfg.Paths.DatasetDir)
			fmt.Printf("wrote mapping to %s\n", cfg.Paths.MappingFile)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().IntVar(&customers, "customers", 100, "customer count")
	cmd.Flags().IntVar(&sales, "sales", 500, "sale count")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var project string
	var targets []string
	var topN int

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the insight analysis and write reports",
		Long: `Load the relational dataset named by the mapping file, synthesize
features, rank insights per target, and write markdown, xlsx, and CSV
reports into the results directory.

Example: spark analyze --project retail --target churn --target age`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if topN > 0 {
				cfg.Analysis.TopN = topN
			}

			return runAnalyze(cmd.Context(), cfg, project, targets)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project name (required)")
	cmd.Flags().StringArrayVar(&targets, "target", nil, "target column (repeatable, required)")
	cmd.Flags().IntVar(&topN, "top-n", 0, "override the insight list cutoff")
	cmd.MarkFlagRequired("project")
	cmd.MarkFlagRequired("target")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the report dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("DATABASE_URL must be set to serve stored reports")
			}

			db, err := sqlx.Connect("postgres", cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			repo := postgres.NewReportRepository(db)
			if err := repo.Migrate(cmd.Context()); err != nil {
				return err
			}

			dashboard := ui.NewApp(repo, render.NewMarkdownRenderer(), internal.DefaultLogger)
			return dashboard.Serve(ui.Config{Port: cfg.Server.Port})
		},
	}
}

func loadConfig() (*config.Config, error) {
	// Missing .env is fine; the environment may be set directly
	_ = godotenv.Load()
	return config.Load()
}

func runAnalyze(ctx context.Context, cfg *config.Config, project string, targetNames []string) error {
	logger := internal.DefaultLogger

	bundle, err := dataset.LoadBundle(cfg.Paths.DatasetDir, cfg.Paths.MappingFile)
	if err != nil {
		return err
	}

	engine, err := attribution.NewEngine(attribution.Options{
		TopN:           cfg.Analysis.TopN,
		ClassThreshold: cfg.Analysis.ClassThreshold,
		NeutralEpsilon: cfg.Analysis.NeutralEpsilon,
		MinInteraction: cfg.Analysis.MinInteraction,
	})
	if err != nil {
		return err
	}

	var repo ports.ReportRepositoryPort
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		pg := postgres.NewReportRepository(db)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		repo = pg
	}

	service := app.NewAnalysisService(
		engine,
		synth.NewAggregateSynthesizer(),
		model.NewCorrelationScorer(),
		translate.NewBusinessTranslator(),
		repo,
		logger,
	)

	targets := make([]core.TargetKey, len(targetNames))
	for i, name := range targetNames {
		targets[i] = core.TargetKey(name)
	}

	result, err := service.Run(ctx, app.RunRequest{
		Project: project,
		Bundle:  bundle,
		Targets: targets,
	})
	if err != nil {
		return err
	}

	renderers := map[string]ports.ReportRendererPort{
		"md":   render.NewMarkdownRenderer(),
		"xlsx": render.NewExcelRenderer(),
	}
	written, err := service.WriteReports(result, cfg.Paths.ResultsDir, renderers, render.WriteMatrixCSV)
	if err != nil {
		return err
	}

	printSummary(result)
	for _, path := range written {
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func printSummary(result *app.RunResult) {
	report := result.Report
	fmt.Printf("run %s finished in %dms\n", report.RunID, result.RuntimeMs)
	for _, tr := range report.Results {
		fmt.Printf("\n%s (%s)\n", tr.Target, tr.Task)
		for _, ins := range tr.Insights {
			label := ins.Label
			if label == "" {
				label = ins.Feature.String()
			}
			fmt.Printf("  #%-3d %-50s %6.2f%% %s\n", ins.Rank, label, ins.Impact*100, ins.Direction)
		}
	}
	for _, ia := range report.Interactions {
		fmt.Printf("\ninteraction %s / %s: r=%.3f (%s, %s)\n",
			ia.TargetA, ia.TargetB, ia.Correlation, ia.Strength, ia.Direction)
	}
	for _, f := range report.Failures {
		fmt.Printf("\nskipped %s: %s\n", f.Target, f.Reason)
	}
}
