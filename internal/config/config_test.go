package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Paths.DatasetDir != "datasets" || cfg.Paths.ResultsDir != "results" {
		t.Errorf("unexpected default paths: %+v", cfg.Paths)
	}
	if cfg.Analysis.TopN != 10 || cfg.Analysis.ClassThreshold != 10 {
		t.Errorf("unexpected analysis defaults: %+v", cfg.Analysis)
	}
	if cfg.Analysis.NeutralEpsilon != 1e-9 || cfg.Analysis.MinInteraction != 0.05 {
		t.Errorf("unexpected analysis defaults: %+v", cfg.Analysis)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SPARK_PORT", "9191")
	t.Setenv("SPARK_TOP_N", "5")
	t.Setenv("SPARK_MIN_INTERACTION", "0.2")
	t.Setenv("DATABASE_URL", "postgres://localhost/spark")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9191" {
		t.Errorf("port override ignored: %s", cfg.Server.Port)
	}
	if cfg.Analysis.TopN != 5 {
		t.Errorf("top-n override ignored: %d", cfg.Analysis.TopN)
	}
	if cfg.Analysis.MinInteraction != 0.2 {
		t.Errorf("interaction floor override ignored: %f", cfg.Analysis.MinInteraction)
	}
	if cfg.Database.URL == "" {
		t.Error("database url override ignored")
	}
}

func TestLoad_InvalidNumbers(t *testing.T) {
	t.Setenv("SPARK_TOP_N", "not-a-number")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-integer SPARK_TOP_N")
	}
}
