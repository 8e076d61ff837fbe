// Package engine wires the content loaders, palette resolver, mapgen
// interpreter, overmap generator, and validator into one top-level
// Generate call, driven by a YAML session Config spanning this module's
// multi-stage pipeline.
package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// OvermapCfg parameterizes the overmap generation stage: which overmap to
// build, what its base/city/road terrain ids are, and the city placement
// parameters overmap.CityConfig exposes.
type OvermapCfg struct {
	X, Y int `yaml:"x" json:"x"`

	WildernessTerrain string `yaml:"wildernessTerrain" json:"wildernessTerrain"`
	CityTerrain       string `yaml:"cityTerrain" json:"cityTerrain"`
	RoadTerrain       string `yaml:"roadTerrain" json:"roadTerrain"`

	CityCount      int    `yaml:"cityCount" json:"cityCount"`
	MinCitySpacing int    `yaml:"minCitySpacing" json:"minCitySpacing"`
	MinCitySize    int    `yaml:"minCitySize" json:"minCitySize"`
	MaxCitySize    int    `yaml:"maxCitySize" json:"maxCitySize"`
	MaxAttempts    int    `yaml:"maxAttempts" json:"maxAttempts"`
	PacingCurve    string `yaml:"pacingCurve" json:"pacingCurve"` // "linear", "s_curve", "exponential"
}

// WorldCfg parameterizes the game-map window to materialize: its origin
// in submap-grid coordinates, shared by every slot of the 11x11x21
// window pkg/worldmap.GameMap owns.
type WorldCfg struct {
	OriginX int `yaml:"originX" json:"originX"`
	OriginY int `yaml:"originY" json:"originY"`
	OriginZ int `yaml:"originZ" json:"originZ"`
}

// Config specifies all map generation session parameters: the master
// seed, where to find content, the overmap to build, and the game-map
// window to populate from it. Supports YAML parsing and validation.
type Config struct {
	// Seed is the master seed for deterministic generation. Use 0 to
	// auto-generate from current time.
	Seed uint64 `yaml:"seed" json:"seed"`

	// ContentDir is a directory containing a pack.yaml manifest plus the
	// JSON files it lists (terrain/furniture/trap/palette/mapgen/
	// overmap_terrain records, possibly interleaved across files).
	ContentDir string `yaml:"contentDir" json:"contentDir"`

	// DefaultFillTerrain is the terrain id a submap falls back to when a
	// mapgen template specifies none.
	DefaultFillTerrain string `yaml:"defaultFillTerrain" json:"defaultFillTerrain"`

	Overmap OvermapCfg `yaml:"overmap" json:"overmap"`
	World   WorldCfg   `yaml:"world" json:"world"`

	// Debug enables verbose diagnostics logging and export of debug
	// artifacts by callers that check this flag.
	Debug bool `yaml:"debug" json:"debug"`
}

// DefaultConfig returns a Config with reasonable defaults for a single
// overmap and an 11x11x21 game-map window at its origin.
func DefaultConfig() Config {
	return Config{
		ContentDir:         "content",
		DefaultFillTerrain: "t_null",
		Overmap: OvermapCfg{
			WildernessTerrain: "omt_field",
			CityTerrain:       "omt_house",
			RoadTerrain:       "omt_road",
			CityCount:         3,
			MinCitySpacing:    40,
			MinCitySize:       4,
			MaxCitySize:       12,
			MaxAttempts:       200,
			PacingCurve:       "linear",
		},
	}
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("engine: reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses YAML configuration from a byte slice,
// auto-generating a seed if none is set and validating the result.
// Useful for testing and programmatic config generation.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("engine: parsing YAML: %w", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = generateSeed()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks all configuration constraints, returning the first
// failure encountered.
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("contentDir must not be empty")
	}
	if c.DefaultFillTerrain == "" {
		return fmt.Errorf("defaultFillTerrain must not be empty")
	}
	if err := c.Overmap.Validate(); err != nil {
		return fmt.Errorf("overmap: %w", err)
	}
	return nil
}

// Validate checks OvermapCfg constraints.
func (o *OvermapCfg) Validate() error {
	if o.CityCount < 0 {
		return fmt.Errorf("cityCount must be >= 0, got %d", o.CityCount)
	}
	if o.MinCitySize <= 0 || o.MaxCitySize < o.MinCitySize {
		return fmt.Errorf("minCitySize/maxCitySize must satisfy 0 < min <= max, got %d/%d", o.MinCitySize, o.MaxCitySize)
	}
	if o.CityCount > 1 && o.MinCitySpacing <= 0 {
		return fmt.Errorf("minCitySpacing must be > 0 when cityCount > 1, got %d", o.MinCitySpacing)
	}
	switch o.PacingCurve {
	case "", "linear", "s_curve", "exponential":
	default:
		return fmt.Errorf("pacingCurve must be one of linear, s_curve, exponential, got %q", o.PacingCurve)
	}
	return nil
}

// ToYAML serializes the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Hash computes a deterministic hash of the configuration, used for
// deriving per-stage RNG seeds via rng.NewRNG(seed, stageName, hash).
func (c *Config) Hash() []byte {
	data, err := c.ToYAML()
	if err != nil {
		h := sha256.New()
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], c.Seed)
		h.Write(buf[:])
		return h.Sum(nil)
	}
	h := sha256.New()
	h.Write(data)
	return h.Sum(nil)
}

// generateSeed derives a seed from the current time when none is
// configured.
func generateSeed() uint64 {
	now := time.Now().UnixNano()
	if now < 0 {
		now = -now
	}
	seed := uint64(now)
	if seed == 0 {
		seed = 1
	}
	return seed
}
