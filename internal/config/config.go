// Package config holds the fixed tuning constants of the game and the optional
// startup override file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/adrg/xdg"
)

const (
	cfgFile = "pinchfall/config.json"
	dbFile  = "pinchfall/pinchfall.db"
)

// ErrInvalid is returned (wrapped) when a configuration fails validation.
var ErrInvalid = errors.New("invalid config")

// Config enumerates every tuning constant of the game. Values are read once when
// the engine is constructed and never change afterwards.
type Config struct {
	// Grid
	Columns    int     `json:"columns"`
	Rows       int     `json:"rows"`
	CellSize   float64 `json:"cell_size"`
	SpawnTicks int     `json:"spawn_ticks"`

	// Timing, in milliseconds
	GravityIntervalMs int64 `json:"gravity_interval_ms"`
	HoldSpawnDelayMs  int64 `json:"hold_spawn_delay_ms"`
	RotateCooldownMs  int64 `json:"rotate_cooldown_ms"`
	MoveCooldownMs    int64 `json:"move_cooldown_ms"`

	// Layout, in pixels
	BoardBottomMargin float64 `json:"board_bottom_margin"`
	HoldSlots         int     `json:"hold_slots"`
	HoldCapacity      int     `json:"hold_capacity"`
	HoldSlotWidth     float64 `json:"hold_slot_width"`
	HoldSlotHeight    float64 `json:"hold_slot_height"`
	HoldTopMargin     float64 `json:"hold_top_margin"`
	HoldGap           float64 `json:"hold_gap"`
	HoldEdgeMargin    float64 `json:"hold_edge_margin"`
	HoldDropTolerance float64 `json:"hold_drop_tolerance"`

	// Gesture thresholds
	GrabThreshold       float64 `json:"grab_threshold"`
	ReleaseThreshold    float64 `json:"release_threshold"`
	TargetRadius        float64 `json:"target_radius"`
	SmoothIdle          float64 `json:"smooth_idle"`
	SmoothDrag          float64 `json:"smooth_drag"`
	MoveThresholdTwo    float64 `json:"move_threshold_two"`
	MoveThresholdSingle float64 `json:"move_threshold_single"`
	RotateRadiusTwo     float64 `json:"rotate_radius_two"`
	RotateRadiusSingle  float64 `json:"rotate_radius_single"`
	Easing              float64 `json:"easing"`
}

// Default returns the stock tuning.
func Default() Config {
	return Config{
		Columns:    10,
		Rows:       20,
		CellSize:   30,
		SpawnTicks: 5,

		GravityIntervalMs: 800,
		HoldSpawnDelayMs:  1000,
		RotateCooldownMs:  250,
		MoveCooldownMs:    150,

		BoardBottomMargin: 40,
		HoldSlots:         4,
		HoldCapacity:      3,
		HoldSlotWidth:     120,
		HoldSlotHeight:    120,
		HoldTopMargin:     80,
		HoldGap:           20,
		HoldEdgeMargin:    20,
		HoldDropTolerance: 20,

		GrabThreshold:       0.05,
		ReleaseThreshold:    0.08,
		TargetRadius:        150,
		SmoothIdle:          0.3,
		SmoothDrag:          0.6,
		MoveThresholdTwo:    30,
		MoveThresholdSingle: 50,
		RotateRadiusTwo:     20,
		RotateRadiusSingle:  70,
		Easing:              0.3,
	}
}

// SpawnZoneHeight is the pixel height of the band above the board in which a fresh
// piece can be grabbed.
func (c Config) SpawnZoneHeight() float64 {
	return float64(c.SpawnTicks) * c.CellSize
}

// Validate checks the invariants the engine relies on.
func (c Config) Validate() error {
	if c.Columns <= 0 || c.Rows <= 0 {
		return fmt.Errorf("%w: grid must be positive, got %dx%d", ErrInvalid, c.Columns, c.Rows)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("%w: cell size must be positive", ErrInvalid)
	}
	if c.SpawnTicks < 1 {
		return fmt.Errorf("%w: spawn ticks must be at least 1", ErrInvalid)
	}
	if c.HoldSlots <= 0 || c.HoldSlots%2 != 0 {
		return fmt.Errorf("%w: hold slot count must be positive and even, got %d", ErrInvalid, c.HoldSlots)
	}
	if c.HoldCapacity < 1 {
		return fmt.Errorf("%w: hold capacity must be at least 1", ErrInvalid)
	}
	if c.ReleaseThreshold <= c.GrabThreshold {
		return fmt.Errorf("%w: release threshold %.3f must exceed grab threshold %.3f",
			ErrInvalid, c.ReleaseThreshold, c.GrabThreshold)
	}
	if c.GravityIntervalMs <= 0 {
		return fmt.Errorf("%w: gravity interval must be positive", ErrInvalid)
	}
	return nil
}

// Load returns the default config overlaid with pinchfall/config.json if one is
// found on the XDG config search path.
func Load() (Config, error) {
	cfg := Default()
	path, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		return cfg, nil
	}
	if err := LoadFile(path, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadFile overlays the JSON file at path onto cfg and validates the result.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.Validate()
}

// DataPath returns the sqlite file location under the XDG data directory,
// creating parent directories as needed.
func DataPath() (string, error) {
	path, err := xdg.DataFile(dbFile)
	if err != nil {
		return "", fmt.Errorf("resolve data path: %w", err)
	}
	return path, nil
}
