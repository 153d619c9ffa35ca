package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/hperssn/pomobot/internal/domain"
)

type Config struct {
	ListenAddr       string
	DatabaseDriver   string
	DatabaseDSN      string
	Tick             time.Duration
	MaxCustomMinutes int
	Presets          []domain.Preset
}

type tomlConfig struct {
	ListenAddr string `toml:"listen_addr"`
	Database   struct {
		Driver string `toml:"driver"`
		DSN    string `toml:"dsn"`
	} `toml:"database"`
	Timer struct {
		Tick             string `toml:"tick"`
		MaxCustomMinutes *int   `toml:"max_custom_minutes"`
	} `toml:"timer"`
	Presets []tomlPreset `toml:"presets"`
}

type tomlPreset struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	FocusMinute int    `toml:"focus_minutes"`
	RestMinute  int    `toml:"rest_minutes"`
}

func Default() *Config {
	return &Config{
		ListenAddr:       ":8080",
		DatabaseDriver:   "sqlite3",
		DatabaseDSN:      "pomobot.db",
		Tick:             time.Minute,
		MaxCustomMinutes: 720,
		Presets:          domain.DefaultPresets(),
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var tc tomlConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := cfg.apply(&tc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Config) apply(tc *tomlConfig) error {
	if tc.ListenAddr != "" {
		cfg.ListenAddr = tc.ListenAddr
	}
	if tc.Database.Driver != "" {
		cfg.DatabaseDriver = tc.Database.Driver
	}
	if tc.Database.DSN != "" {
		cfg.DatabaseDSN = tc.Database.DSN
	}
	if tc.Timer.Tick != "" {
		d, err := time.ParseDuration(tc.Timer.Tick)
		if err != nil {
			return fmt.Errorf("timer.tick: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("timer.tick must be positive")
		}
		cfg.Tick = d
	}
	if tc.Timer.MaxCustomMinutes != nil {
		cfg.MaxCustomMinutes = *tc.Timer.MaxCustomMinutes
	}

	if len(tc.Presets) > 0 {
		presets := make([]domain.Preset, 0, len(tc.Presets))
		seen := make(map[string]bool)
		for _, p := range tc.Presets {
			if p.ID == "" {
				return fmt.Errorf("preset without id")
			}
			if seen[p.ID] {
				return fmt.Errorf("duplicate preset %q", p.ID)
			}
			if p.FocusMinute <= 0 || p.RestMinute <= 0 {
				return fmt.Errorf("preset %q: focus and rest minutes must be positive", p.ID)
			}
			seen[p.ID] = true

			name := p.Name
			if name == "" {
				name = fmt.Sprintf("%s (%d/%d)", p.ID, p.FocusMinute, p.RestMinute)
			}
			presets = append(presets, domain.Preset{
				ID:       p.ID,
				Name:     name,
				FocusSec: p.FocusMinute * 60,
				RestSec:  p.RestMinute * 60,
			})
		}
		cfg.Presets = presets
	}
	return nil
}
