// Package config loads gerber2nc settings.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Command-line flags (applied by the cli package)
//  2. Environment variables (GERBER2NC_*)
//  3. Config file (.gerber2nc.yaml in the project directory, then $HOME)
//  4. Built-in defaults
//
// Nested keys map to env vars with underscores, e.g. toolpath.offset is
// GERBER2NC_TOOLPATH_OFFSET.
package config

import (
	"github.com/mvp-joe/gerber2nc/internal/gcode"
	"github.com/mvp-joe/gerber2nc/internal/geometry"
	"github.com/mvp-joe/gerber2nc/internal/preview"
)

// Config represents the complete gerber2nc configuration.
type Config struct {
	Toolpath ToolpathConfig `yaml:"toolpath" mapstructure:"toolpath"`
	Milling  MillingConfig  `yaml:"milling" mapstructure:"milling"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// ToolpathConfig controls isolation pass geometry.
type ToolpathConfig struct {
	Offset     float64 `yaml:"offset" mapstructure:"offset"`         // mm from copper edge to first pass
	Passes     int     `yaml:"passes" mapstructure:"passes"`         // concentric passes
	Spacing    float64 `yaml:"spacing" mapstructure:"spacing"`       // mm between passes
	Resolution float64 `yaml:"resolution" mapstructure:"resolution"` // max arc approximation error (mm)
	Tolerance  float64 `yaml:"tolerance" mapstructure:"tolerance"`   // path simplification (mm)
	Workers    int     `yaml:"workers" mapstructure:"workers"`       // 0 = GOMAXPROCS
}

// MillingConfig holds machine settings for the emitted G-code.
type MillingConfig struct {
	SpindleSpeed       int     `yaml:"spindle_speed" mapstructure:"spindle_speed"`               // RPM
	CutDepth           float64 `yaml:"cut_depth" mapstructure:"cut_depth"`                       // trace isolation (mm, negative)
	EdgeCutDepth       float64 `yaml:"edge_cut_depth" mapstructure:"edge_cut_depth"`             // board outline mark (mm, negative)
	SafeHeight         float64 `yaml:"safe_height" mapstructure:"safe_height"`                   // mm above work
	PlungeFeedRate     int     `yaml:"plunge_feed_rate" mapstructure:"plunge_feed_rate"`         // mm/min
	FeedRate           int     `yaml:"feed_rate" mapstructure:"feed_rate"`                       // mm/min
	HoleStart          float64 `yaml:"hole_start" mapstructure:"hole_start"`                     // approach height before drilling
	HoleDepth          float64 `yaml:"hole_depth" mapstructure:"hole_depth"`                     // final drill depth
	LargeHoleThreshold float64 `yaml:"large_hole_threshold" mapstructure:"large_hole_threshold"` // mm diameter
}

// OutputConfig controls side outputs and watch mode.
type OutputConfig struct {
	Preview        bool    `yaml:"preview" mapstructure:"preview"`                   // write <output>.png next to the program
	PreviewScale   float64 `yaml:"preview_scale" mapstructure:"preview_scale"`       // px per mm
	PreviewMaxSize int     `yaml:"preview_max_size" mapstructure:"preview_max_size"` // longest side in px
	DebounceMS     int     `yaml:"debounce_ms" mapstructure:"debounce_ms"`           // watch mode debounce
}

// Default returns a configuration with sensible defaults. Machine, geometry
// and preview defaults come from the packages that use them.
func Default() *Config {
	g := gcode.DefaultParams()
	p := preview.DefaultOptions()
	return &Config{
		Toolpath: ToolpathConfig{
			Offset:     0.22,
			Passes:     3,
			Spacing:    0.2,
			Resolution: geometry.DefaultResolution,
			Tolerance:  geometry.DefaultTolerance,
			Workers:    0,
		},
		Milling: MillingConfig{
			SpindleSpeed:       g.SpindleSpeed,
			CutDepth:           g.CutDepth,
			EdgeCutDepth:       g.EdgeCutDepth,
			SafeHeight:         g.SafeHeight,
			PlungeFeedRate:     g.PlungeFeedRate,
			FeedRate:           g.FeedRate,
			HoleStart:          g.HoleStart,
			HoleDepth:          g.HoleDepth,
			LargeHoleThreshold: g.LargeHoleThreshold,
		},
		Output: OutputConfig{
			Preview:        false,
			PreviewScale:   p.Scale,
			PreviewMaxSize: p.MaxSize,
			DebounceMS:     500,
		},
	}
}
