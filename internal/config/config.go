// Package config loads the service configuration: where the game server
// writes its save data and snapshots, where the lang tables live, and how
// the bounty tracker runs.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir      string `yaml:"data_dir"`      // the game's world/data directory
	SnapshotsDir string `yaml:"snapshots_dir"` // per-player JSON snapshots
	LangDir      string `yaml:"lang_dir"`      // label lookup tables
	GearConfig   string `yaml:"gear_config"`   // static gear modifier tier table

	Tracker Tracker `yaml:"tracker"`
}

type Tracker struct {
	IntervalSeconds int    `yaml:"interval_seconds"`
	JournalPath     string `yaml:"journal_path"`
	AlertLogDir     string `yaml:"alert_log_dir"`
	// Players to track; empty means every player with a snapshot.
	Players []string `yaml:"players,omitempty"`
}

// Load reads a config file, or returns defaults when path is empty.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		DataDir:      "./world/data",
		SnapshotsDir: "./playerSnapshots",
		LangDir:      "./lang",
		GearConfig:   "./configs/gear_modifiers.json",
		Tracker: Tracker{
			IntervalSeconds: 20,
			JournalPath:     "./data/tracker.db",
			AlertLogDir:     "./data/alerts",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if strings.TrimSpace(c.SnapshotsDir) == "" {
		return fmt.Errorf("snapshots_dir must not be empty")
	}
	if strings.TrimSpace(c.LangDir) == "" {
		return fmt.Errorf("lang_dir must not be empty")
	}
	if c.Tracker.IntervalSeconds <= 0 {
		return fmt.Errorf("tracker.interval_seconds must be > 0")
	}
	if strings.TrimSpace(c.Tracker.JournalPath) == "" {
		return fmt.Errorf("tracker.journal_path must not be empty")
	}
	return nil
}
