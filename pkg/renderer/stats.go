package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int     // Total number of pixels rendered
	TotalSamples     int     // Total number of finite samples taken
	AverageSamples   float64 // Average samples per pixel
	MaxSamples       int     // Samples requested per pixel
	NonFiniteSamples int     // Samples dropped because they were NaN or infinite
	Passes           int     // Progressive passes completed
}

// merge folds per-row statistics into the running total
func (rs *RenderStats) merge(other RenderStats) {
	rs.TotalPixels += other.TotalPixels
	rs.TotalSamples += other.TotalSamples
	rs.NonFiniteSamples += other.NonFiniteSamples
}

// finalize computes derived statistics once all rows are merged
func (rs *RenderStats) finalize() {
	if rs.TotalPixels > 0 {
		rs.AverageSamples = float64(rs.TotalSamples) / float64(rs.TotalPixels)
	}
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of finite samples taken
	Attempts    int       // Number of samples drawn, including dropped ones
}

// AddSample adds a new color sample to the pixel statistics.
// Non-finite samples are dropped and reported with a false return.
func (ps *PixelStats) AddSample(color core.Vec3) bool {
	ps.Attempts++
	if !color.IsFinite() {
		return false
	}
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
	return true
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// ToRGBA converts a linear color to an 8-bit pixel: gamma 2, clamp to [0, 0.999], scale by 256
func ToRGBA(colorVec core.Vec3) color.RGBA {
	// Negative light is not representable and would poison the square root
	colorVec = colorVec.Clamp(0.0, math.MaxFloat64)
	colorVec = colorVec.GammaCorrect(2.0).Clamp(0.0, 0.999)

	return color.RGBA{
		R: uint8(256 * colorVec.X),
		G: uint8(256 * colorVec.Y),
		B: uint8(256 * colorVec.Z),
		A: 255,
	}
}
