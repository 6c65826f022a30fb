package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// #region types

// GoalDef declares one progress goal. Kind is "continuous" (metric must
// never dip below threshold) or "target" (metric must reach threshold).
type GoalDef struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	Metric    string `yaml:"metric"`
	Kind      string `yaml:"kind"`
	Threshold int    `yaml:"threshold"`
}

// Config holds session settings and pacing knobs. Zero values fall back to
// Default(); env vars override file values.
type Config struct {
	Role       string `yaml:"role"`
	SystemName string `yaml:"system_name"`
	Era        string `yaml:"era"`
	Year       int    `yaml:"year"`

	TotalDays      int            `yaml:"total_days"`
	StartBudget    int            `yaml:"start_budget"`
	BudgetTracking bool           `yaml:"budget_tracking"`
	SuggestionCost int            `yaml:"suggestion_cost"`
	Supports       map[string]int `yaml:"supports"`
	Goals          []GoalDef      `yaml:"goals"`

	// DwellMS maps reveal stage name to its minimum dwell in milliseconds.
	DwellMS map[string]int `yaml:"dwell_ms"`

	ValidateTimeout time.Duration `yaml:"validate_timeout"`
	// StageTimeout bounds each analysis stage; 0 disables per-stage
	// timeouts, matching the shipped behavior.
	StageTimeout time.Duration `yaml:"stage_timeout"`

	NarrationWPM int `yaml:"narration_wpm"`

	ServiceURL string `yaml:"service_url"`
	DBPath     string `yaml:"db_path"`
}

// #endregion types

// #region defaults

// Default returns the standard session configuration.
func Default() Config {
	return Config{
		Role:           "mayor",
		SystemName:     "municipal council",
		Era:            "modern",
		TotalDays:      30,
		StartBudget:    1000,
		BudgetTracking: true,
		SuggestionCost: 0,
		Supports: map[string]int{
			"people":   50,
			"military": 50,
			"elites":   50,
		},
		Goals: []GoalDef{
			{ID: "keep-people", Label: "Keep the people above 20%", Metric: "people", Kind: "continuous", Threshold: 20},
			{ID: "win-people", Label: "Reach 75% popular support", Metric: "people", Kind: "target", Threshold: 75},
		},
		DwellMS: map[string]int{
			"support":    600,
			"news":       800,
			"parameters": 500,
			"dilemma":    1200,
			"mirror":     700,
			"actions":    500,
		},
		ValidateTimeout: 15 * time.Second,
		StageTimeout:    0,
		NarrationWPM:    150,
		ServiceURL:      "http://localhost:8787",
		DBPath:          "politics_telemetry.db",
	}
}

// #endregion defaults

// #region load

// Load reads a YAML config file and merges it over Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// FromEnv applies environment overrides: POLITICS_SERVICE_URL,
// POLITICS_DB, POLITICS_TOTAL_DAYS, POLITICS_BUDGET,
// POLITICS_BUDGET_TRACKING, POLITICS_VALIDATE_TIMEOUT (seconds),
// POLITICS_STAGE_TIMEOUT (seconds).
func FromEnv(cfg Config) Config {
	cfg.ServiceURL = envOr("POLITICS_SERVICE_URL", cfg.ServiceURL)
	cfg.DBPath = envOr("POLITICS_DB", cfg.DBPath)
	if v := os.Getenv("POLITICS_TOTAL_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TotalDays = n
		}
	}
	if v := os.Getenv("POLITICS_BUDGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.StartBudget = n
		}
	}
	if v := os.Getenv("POLITICS_BUDGET_TRACKING"); v != "" {
		cfg.BudgetTracking = v == "true" || v == "1"
	}
	if v := os.Getenv("POLITICS_VALIDATE_TIMEOUT"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.ValidateTimeout = time.Duration(sec) * time.Second
		}
	}
	if v := os.Getenv("POLITICS_STAGE_TIMEOUT"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec >= 0 {
			cfg.StageTimeout = time.Duration(sec) * time.Second
		}
	}
	return cfg
}

// Dwell returns the configured dwell for a reveal stage name.
func (c Config) Dwell(stage string) time.Duration {
	ms, ok := c.DwellMS[stage]
	if !ok {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// #endregion load

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
