// Package gcode writes milling programs for a converted board.
package gcode

// Params are the machine settings used when emitting G-code. Depths are in
// millimetres relative to the copper surface, feed rates in mm/min.
type Params struct {
	SpindleSpeed       int
	CutDepth           float64
	EdgeCutDepth       float64
	SafeHeight         float64
	PlungeFeedRate     int
	FeedRate           int
	HoleStart          float64
	HoleDepth          float64
	LargeHoleThreshold float64
}

// DefaultParams returns settings for a 0.2mm engraving bit on FR4.
func DefaultParams() Params {
	return Params{
		SpindleSpeed:       12000,
		CutDepth:           -0.1,
		EdgeCutDepth:       -0.2,
		SafeHeight:         3.0,
		PlungeFeedRate:     200,
		FeedRate:           450,
		HoleStart:          0.1,
		HoleDepth:          -1.8,
		LargeHoleThreshold: 0.85,
	}
}
