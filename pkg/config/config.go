// Package config holds the tunable constants of the move-search subsystem.
//
// The grid spacings, margins, recursion thresholds, and difficulty delays
// are empirical values with no derivation behind them, so they are
// configuration rather than code: [Default] returns the values the game
// shipped with, and [Load] overrides them from a TOML file.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/samithreddychinni/greedytangle/pkg/errors"
)

// Config collects every tunable of the solvers and the race controller.
type Config struct {
	// Play area. Candidate positions are clamped to the rectangle
	// [Margin, Width-Margin] × [Margin, Height-Margin].
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Margin float64 `toml:"margin"`

	// Candidate generation shared by all strategies.
	GridSpacing    float64 `toml:"grid_spacing"`    // full-grid sample distance
	NeighborRadius float64 `toml:"neighbor_radius"` // ring radius around neighbors

	// Backtracking search.
	BacktrackDepth int `toml:"backtrack_depth"`

	// Divide-and-conquer + DP.
	BaseCaseThreshold int     `toml:"base_case_threshold"` // partition size solved brute force
	BaseCaseFloor     float64 `toml:"base_case_floor"`     // minimum base-case grid step
	DPMargin          float64 `toml:"dp_margin"`           // bounding-box expansion for DP candidates
	DPStepFloor       float64 `toml:"dp_step_floor"`       // minimum DP grid step

	// Seconds between CPU moves per difficulty. Zero means unthrottled.
	DelayEasy   float64 `toml:"delay_easy"`
	DelayMedium float64 `toml:"delay_medium"`
	DelayHard   float64 `toml:"delay_hard"`
}

// Default returns the tuning the solvers were calibrated against.
func Default() Config {
	return Config{
		Width:             1024,
		Height:            768,
		Margin:            60,
		GridSpacing:       80,
		NeighborRadius:    40,
		BacktrackDepth:    3,
		BaseCaseThreshold: 3,
		BaseCaseFloor:     20,
		DPMargin:          50,
		DPStepFloor:       40,
		DelayEasy:         3.0,
		DelayMedium:       1.5,
		DelayHard:         0,
	}
}

// Load reads a TOML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the search loops cannot run under.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "play area must be positive, got %gx%g", c.Width, c.Height)
	}
	if c.Margin < 0 || 2*c.Margin >= c.Width || 2*c.Margin >= c.Height {
		return errors.New(errors.ErrCodeInvalidConfig, "margin %g leaves no play area", c.Margin)
	}
	if c.GridSpacing <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid spacing must be positive, got %g", c.GridSpacing)
	}
	if c.BacktrackDepth < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "backtrack depth must be at least 1, got %d", c.BacktrackDepth)
	}
	if c.BaseCaseThreshold < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "base case threshold must be at least 1, got %d", c.BaseCaseThreshold)
	}
	if c.BaseCaseFloor <= 0 || c.DPStepFloor <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid step floors must be positive")
	}
	if c.DelayEasy < 0 || c.DelayMedium < 0 || c.DelayHard < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "difficulty delays must not be negative")
	}
	return nil
}

// Delay returns the throttling interval for a difficulty name. Unknown
// names get the hard (unthrottled) delay.
func (c Config) Delay(difficulty string) time.Duration {
	switch difficulty {
	case "easy":
		return time.Duration(c.DelayEasy * float64(time.Second))
	case "medium":
		return time.Duration(c.DelayMedium * float64(time.Second))
	default:
		return time.Duration(c.DelayHard * float64(time.Second))
	}
}
