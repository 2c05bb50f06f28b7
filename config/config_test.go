package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Clock.TickRate != 60 {
		t.Errorf("expected tick rate 60, got %d", cfg.Clock.TickRate)
	}
	if len(cfg.Fire.Materials) != 4 {
		t.Errorf("expected 4 fire materials, got %d", len(cfg.Fire.Materials))
	}
	if cfg.Water.Width != 256 || cfg.Water.Height != 256 {
		t.Errorf("expected 256x256 water grid, got %dx%d", cfg.Water.Width, cfg.Water.Height)
	}
	if cfg.Droplets.MaxCount != 2000 {
		t.Errorf("expected droplet cap 2000, got %d", cfg.Droplets.MaxCount)
	}
	if cfg.Wind.Count != 300000 {
		t.Errorf("expected 300000 wind particles, got %d", cfg.Wind.Count)
	}
	if cfg.Derived.DT32 <= 0 {
		t.Error("expected derived DT to be computed")
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("water:\n  damping: 0.95\nwind:\n  hemisphere: south\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay: %v", err)
	}
	if cfg.Water.Damping != 0.95 {
		t.Errorf("expected overridden damping 0.95, got %f", cfg.Water.Damping)
	}
	// Untouched fields keep their defaults
	if cfg.Water.WaveSpeed != 20 {
		t.Errorf("expected default wave speed 20, got %f", cfg.Water.WaveSpeed)
	}
	if !cfg.Derived.SouthernHemi {
		t.Error("expected southern hemisphere to be derived")
	}
}

func TestValidateRejectsMalformed(t *testing.T) {
	cases := map[string]func(c *Config){
		"empty palette":  func(c *Config) { c.Fire.Materials = nil },
		"zero fire grid": func(c *Config) { c.Fire.Width = 0 },
		"bad damping":    func(c *Config) { c.Water.Damping = 1.5 },
		"zero delay":     func(c *Config) { c.Droplets.DelayFrames = 0 },
		"bad hemisphere": func(c *Config) { c.Wind.Hemisphere = "east" },
		"bad colour":     func(c *Config) { c.Fire.Materials[0].UnburntColor = "#zz0000" },
		"short colour":   func(c *Config) { c.Fire.Materials[0].BurntColor = "123" },
		"unstable wave":  func(c *Config) { c.Water.WaveSpeed = 60 },
	}

	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", name)
			continue
		}
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Fire.Seed = 99

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if loaded.Fire.Seed != 99 {
		t.Errorf("expected seed 99 after reload, got %d", loaded.Fire.Seed)
	}
}
