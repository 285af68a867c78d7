package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	InitialSamples int // Samples for first pass (1 recommended)
	MaxPasses      int // Maximum number of passes
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		InitialSamples: 1,
		MaxPasses:      5,
	}
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// getSamplesForPass calculates the target total samples for a given pass
func getSamplesForPass(config ProgressiveConfig, maxSamples, passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if config.MaxPasses <= 1 {
		return maxSamples
	}

	// For multiple passes: first pass is quick preview
	initial := min(max(config.InitialSamples, 1), maxSamples)
	if passNumber == 1 {
		return initial
	}

	// For the final pass, use all remaining samples
	if passNumber >= config.MaxPasses {
		return maxSamples
	}

	// Divide remaining samples evenly across remaining passes
	samplesPerPass := (maxSamples - initial) / (config.MaxPasses - 1)
	return initial + (passNumber-1)*samplesPerPass
}

// RenderProgressive renders the image in passes of increasing sample count.
// Every pass adds samples to the same per-pixel accumulators, so the last
// pass holds the full sample count. onPass is called
// after each pass and may be nil; returning an error stops rendering.
func (rt *Raytracer) RenderProgressive(ctx context.Context, config ProgressiveConfig, onPass func(PassResult) error) (*image.RGBA, RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("invalid sampling config: %w", err)
	}

	width, height := rt.config.Width, rt.config.Height
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	workerPool := NewWorkerPool(rt.config.Workers)
	passes := max(config.MaxPasses, 1)

	var img *image.RGBA
	var stats RenderStats
	for pass := 1; pass <= passes; pass++ {
		startTime := time.Now()
		targetSamples := getSamplesForPass(config, rt.config.SamplesPerPixel, pass)

		if passes > 1 {
			rt.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
				pass, targetSamples, workerPool.GetNumWorkers())
		}

		passStats, err := rt.renderRows(ctx, workerPool, pass, targetSamples, pixelStats)
		if err != nil {
			return nil, RenderStats{}, err
		}
		stats.NonFiniteSamples += passStats.NonFiniteSamples

		img, passStats = rt.assembleImage(pixelStats, targetSamples)
		stats.TotalPixels = passStats.TotalPixels
		stats.TotalSamples = passStats.TotalSamples
		stats.AverageSamples = passStats.AverageSamples
		stats.MaxSamples = targetSamples
		stats.Passes = pass

		if stats.NonFiniteSamples > 0 {
			rt.logger.Printf("Warning: dropped %d non-finite samples\n", stats.NonFiniteSamples)
		}
		if passes > 1 {
			rt.logger.Printf("Pass %d completed in %v\n", pass, time.Since(startTime))
		}

		if onPass != nil {
			result := PassResult{PassNumber: pass, Image: img, Stats: stats, IsLast: pass == passes}
			if err := onPass(result); err != nil {
				return img, stats, err
			}
		}
	}

	return img, stats, nil
}

// renderRows brings every pixel up to targetSamples using the worker pool
func (rt *Raytracer) renderRows(ctx context.Context, workerPool *WorkerPool, pass, targetSamples int, pixelStats [][]PixelStats) (RenderStats, error) {
	var mu sync.Mutex
	var stats RenderStats
	progress := newProgressReporter(rt.logger, "Rendering...", rt.config.Height)

	err := workerPool.Run(ctx, rt.config.Height, func(ctx context.Context, task RowTask) error {
		sampler := rt.newSampler(pass, task.Row)
		row := pixelStats[task.Row]

		var rowStats RenderStats
		for x := range row {
			ps := &row[x]
			rowStats.NonFiniteSamples += rt.SamplePixel(x, task.Row, sampler, ps, targetSamples-ps.Attempts)
		}

		mu.Lock()
		stats.merge(rowStats)
		mu.Unlock()
		progress.rowDone()
		return nil
	})
	if err != nil {
		return RenderStats{}, fmt.Errorf("render pass %d: %w", pass, err)
	}
	return stats, nil
}

// assembleImage creates an image from the current pixel accumulators
func (rt *Raytracer) assembleImage(pixelStats [][]PixelStats, targetSamples int) (*image.RGBA, RenderStats) {
	width, height := rt.config.Width, rt.config.Height
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	stats := RenderStats{
		TotalPixels: width * height,
		MaxSamples:  targetSamples,
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel := &pixelStats[y][x]
			img.SetRGBA(x, y, ToRGBA(pixel.GetColor()))
			stats.TotalSamples += pixel.SampleCount
		}
	}

	stats.finalize()
	return img, stats
}
