package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int   `json:"width"`           // Image width
	Height          int   `json:"height"`          // Image height
	SamplesPerPixel int   `json:"samplesPerPixel"` // Number of rays per pixel
	MaxDepth        int   `json:"maxDepth"`        // Maximum ray bounce depth
	Workers         int   `json:"workers"`         // Parallel row workers (0 = CPU count)
	Seed            int64 `json:"seed"`            // Base seed for per-row random sources
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Workers:         1,
		Seed:            42,
	}
}

// Validate reports configuration values the renderer cannot work with
func (c SamplingConfig) Validate() error {
	var errs []error
	if c.Width < 1 {
		errs = append(errs, fmt.Errorf("width must be at least 1, got %d", c.Width))
	}
	if c.Height < 1 {
		errs = append(errs, fmt.Errorf("height must be at least 1, got %d", c.Height))
	}
	if c.SamplesPerPixel < 1 {
		errs = append(errs, fmt.Errorf("samples per pixel must be at least 1, got %d", c.SamplesPerPixel))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	return errors.Join(errs...)
}

// SamplerFactory returns the random source for one row of one progressive pass
type SamplerFactory func(pass, row int) core.Sampler

// Raytracer handles the rendering process
type Raytracer struct {
	world      geometry.Hittable
	camera     *Camera
	integrator integrator.Integrator
	config     SamplingConfig
	logger     core.Logger
	newSampler SamplerFactory
}

// NewRaytracer creates a new raytracer
func NewRaytracer(world geometry.Hittable, camera *Camera, integ integrator.Integrator, config SamplingConfig) *Raytracer {
	rt := &Raytracer{
		world:      world,
		camera:     camera,
		integrator: integ,
		config:     config,
		logger:     NewNopLogger(),
	}
	rt.newSampler = rt.seededSampler
	return rt
}

// SetLogger sets the logger used for progress output
func (rt *Raytracer) SetLogger(logger core.Logger) {
	rt.logger = logger
}

// SetSamplerFactory replaces the per-row random sources, e.g. with deterministic stubs
func (rt *Raytracer) SetSamplerFactory(factory SamplerFactory) {
	rt.newSampler = factory
}

// seededSampler derives an independent stream per (pass, row) from the base seed,
// so output does not depend on how rows are spread over workers
func (rt *Raytracer) seededSampler(pass, row int) core.Sampler {
	h := uint64(rt.config.Seed)
	h ^= (uint64(pass) + 1) * 0xBF58476D1CE4E5B9
	h ^= (uint64(row) + 1) * 0x9E3779B97F4A7C15
	return core.NewSeededSampler(int64(h))
}

// screenCoordinates maps a jittered pixel to camera (u, v).
// Image row 0 is the top of the viewport, so v counts rows from the bottom.
func (rt *Raytracer) screenCoordinates(x, y int, sampler core.Sampler) (float64, float64) {
	j := rt.config.Height - 1 - y
	u := (float64(x) + sampler.Float64()) / float64(max(rt.config.Width-1, 1))
	v := (float64(j) + sampler.Float64()) / float64(max(rt.config.Height-1, 1))
	return u, v
}

// SamplePixel draws the given number of jittered samples for image pixel (x, y)
// and adds them to ps. Returns the number of dropped non-finite samples.
func (rt *Raytracer) SamplePixel(x, y int, sampler core.Sampler, ps *PixelStats, samples int) int {
	dropped := 0
	for s := 0; s < samples; s++ {
		u, v := rt.screenCoordinates(x, y, sampler)
		ray := rt.camera.GetRay(u, v)
		color := rt.integrator.RayColor(ray, rt.world, sampler, rt.config.MaxDepth)
		if !ps.AddSample(color) {
			dropped++
		}
	}
	return dropped
}

// RenderPass renders the whole image with the configured samples per pixel
func (rt *Raytracer) RenderPass(ctx context.Context) (*image.RGBA, RenderStats, error) {
	return rt.RenderProgressive(ctx, ProgressiveConfig{InitialSamples: rt.config.SamplesPerPixel, MaxPasses: 1}, nil)
}
