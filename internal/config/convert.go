package config

import (
	"github.com/mvp-joe/gerber2nc/internal/gcode"
	"github.com/mvp-joe/gerber2nc/internal/geometry"
	"github.com/mvp-joe/gerber2nc/internal/preview"
	"github.com/mvp-joe/gerber2nc/internal/toolpath"
)

// ToToolpathParams converts the pass settings.
func (c *Config) ToToolpathParams() toolpath.Params {
	return toolpath.Params{
		Offset:  c.Toolpath.Offset,
		Passes:  c.Toolpath.Passes,
		Spacing: c.Toolpath.Spacing,
	}
}

// ToGeometryOptions converts the arc approximation setting.
func (c *Config) ToGeometryOptions() geometry.Options {
	return geometry.Options{Resolution: c.Toolpath.Resolution}
}

// ToEngineOptions converts the simplification and concurrency settings.
// Progress is left for the caller to attach.
func (c *Config) ToEngineOptions() toolpath.Options {
	return toolpath.Options{
		Tolerance: c.Toolpath.Tolerance,
		Workers:   c.Toolpath.Workers,
	}
}

// ToGcodeParams converts the machine settings.
func (c *Config) ToGcodeParams() gcode.Params {
	m := c.Milling
	return gcode.Params{
		SpindleSpeed:       m.SpindleSpeed,
		CutDepth:           m.CutDepth,
		EdgeCutDepth:       m.EdgeCutDepth,
		SafeHeight:         m.SafeHeight,
		PlungeFeedRate:     m.PlungeFeedRate,
		FeedRate:           m.FeedRate,
		HoleStart:          m.HoleStart,
		HoleDepth:          m.HoleDepth,
		LargeHoleThreshold: m.LargeHoleThreshold,
	}
}

// ToPreviewOptions converts the preview settings.
func (c *Config) ToPreviewOptions() preview.Options {
	return preview.Options{
		Scale:   c.Output.PreviewScale,
		MaxSize: c.Output.PreviewMaxSize,
	}
}
