// Package config loads meshdims settings from a YAML file, the
// environment and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/chazu/meshdims/pkg/kernel/sdfx"
	"github.com/chazu/meshdims/pkg/scene"
)

// Config holds the editor settings.
type Config struct {
	// Pivot is the scale center: median, bounds or cursor.
	Pivot string `yaml:"pivot" mapstructure:"pivot"`
	// Cursor is the 3D cursor used by the cursor pivot.
	Cursor [3]float64 `yaml:"cursor" mapstructure:"cursor"`
	// MeshCells is the marching cubes resolution for primitives.
	MeshCells int `yaml:"mesh_cells" mapstructure:"mesh_cells"`
	// Unit is appended to length values in forms, e.g. "m".
	Unit string `yaml:"unit" mapstructure:"unit"`
	// Precision is the number of decimals shown for lengths.
	Precision int `yaml:"precision" mapstructure:"precision"`
	// MaxUndo bounds the undo history.
	MaxUndo int `yaml:"max_undo" mapstructure:"max_undo"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Pivot:     "median",
		MeshCells: sdfx.DefaultMeshCells,
		Unit:      "m",
		Precision: 3,
		MaxUndo:   scene.DefaultMaxUndo,
	}
}

// FileName is the config file name looked up without an explicit path.
const FileName = "meshdims"

// Load reads configuration. An explicit path must exist; otherwise
// $HOME/.meshdims/meshdims.yaml and ./meshdims.yaml are tried and a
// missing file is not an error. MESHDIMS_* environment variables override
// file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("pivot", def.Pivot)
	v.SetDefault("cursor", []float64{0, 0, 0})
	v.SetDefault("mesh_cells", def.MeshCells)
	v.SetDefault("unit", def.Unit)
	v.SetDefault("precision", def.Precision)
	v.SetDefault("max_undo", def.MaxUndo)

	v.SetEnvPrefix("MESHDIMS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".meshdims"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := scene.ParsePivot(c.Pivot); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.MeshCells <= 0 {
		return fmt.Errorf("config: mesh_cells must be positive, got %d", c.MeshCells)
	}
	if c.Precision < 0 || c.Precision > 12 {
		return fmt.Errorf("config: precision must be between 0 and 12, got %d", c.Precision)
	}
	if c.MaxUndo < 0 {
		return fmt.Errorf("config: max_undo must not be negative, got %d", c.MaxUndo)
	}
	return nil
}

// Apply copies the scene related settings onto s.
func (c *Config) Apply(s *scene.Scene) error {
	p, err := scene.ParsePivot(c.Pivot)
	if err != nil {
		return err
	}
	s.Pivot = p
	s.Cursor.X, s.Cursor.Y, s.Cursor.Z = c.Cursor[0], c.Cursor[1], c.Cursor[2]
	s.MaxUndo = c.MaxUndo
	return nil
}

// Write saves c as YAML to path, creating parent directories.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
