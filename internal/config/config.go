// ABOUTME: Preview options loading with global + project config merge
// ABOUTME: YAML-based configuration; transforms are injected programmatically

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Transform maps a pair to a pair: a position transform gets (x, y), a
// size transform gets (w, h). Being a typed function value, its shape is
// checked when the configuration is assembled, not at call time.
type Transform func(a, b int) (int, int)

// Identity is the default Transform.
func Identity(a, b int) (int, int) { return a, b }

// Options holds the merged preview configuration. Immutable after Load;
// the engine and geometry code only read it.
type Options struct {
	Width             int   `yaml:"width"`
	Height            int   `yaml:"height"`
	AdaptiveSize      *bool `yaml:"adaptive_size"`
	PositionIndicator *bool `yaml:"position_indicator"`
	PollIntervalMS    int   `yaml:"poll_interval_ms"`

	// Applied after the default position/size computation. Set
	// programmatically, not from files; nil means identity.
	PositionTransform Transform `yaml:"-"`
	SizeTransform     Transform `yaml:"-"`
}

// Defaults returns the documented default options.
func Defaults() *Options {
	adaptive := true
	indicator := false
	return &Options{
		Width:             400,
		Height:            200,
		AdaptiveSize:      &adaptive,
		PositionIndicator: &indicator,
		PollIntervalMS:    100,
		PositionTransform: Identity,
		SizeTransform:     Identity,
	}
}

// Adaptive reports whether adaptive sizing is enabled (default true).
func (o *Options) Adaptive() bool {
	return o.AdaptiveSize == nil || *o.AdaptiveSize
}

// Indicator reports whether the cursor position indicator is enabled
// (default false).
func (o *Options) Indicator() bool {
	return o.PositionIndicator != nil && *o.PositionIndicator
}

// PollInterval returns the trigger poll interval.
func (o *Options) PollInterval() time.Duration {
	return time.Duration(o.PollIntervalMS) * time.Millisecond
}

// Load reads and merges global and project-local options on top of the
// defaults, then applies overrides (CLI flags). Project settings override
// global settings; overrides win over both.
func Load(projectRoot string, overrides *Options) (*Options, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(merge(merge(Defaults(), global), project), overrides)
	if err := merged.validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// loadFile reads Options from a YAML file. Returns zero Options if the
// file does not exist.
func loadFile(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Options{}, err
	}
	var o Options
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &o, nil
}

// merge overlays non-zero fields of over onto base.
func merge(base, over *Options) *Options {
	if base == nil {
		base = &Options{}
	}
	if over == nil {
		return base
	}

	result := *base

	if over.Width != 0 {
		result.Width = over.Width
	}
	if over.Height != 0 {
		result.Height = over.Height
	}
	if over.AdaptiveSize != nil {
		result.AdaptiveSize = over.AdaptiveSize
	}
	if over.PositionIndicator != nil {
		result.PositionIndicator = over.PositionIndicator
	}
	if over.PollIntervalMS != 0 {
		result.PollIntervalMS = over.PollIntervalMS
	}
	if over.PositionTransform != nil {
		result.PositionTransform = over.PositionTransform
	}
	if over.SizeTransform != nil {
		result.SizeTransform = over.SizeTransform
	}

	return &result
}

// validate rejects unusable option values and fills in identity
// transforms where none were supplied.
func (o *Options) validate() error {
	if o.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", o.Width)
	}
	if o.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", o.Height)
	}
	if o.PollIntervalMS <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive, got %d", o.PollIntervalMS)
	}
	if o.PositionTransform == nil {
		o.PositionTransform = Identity
	}
	if o.SizeTransform == nil {
		o.SizeTransform = Identity
	}
	return nil
}
