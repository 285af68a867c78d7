package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	World          *geometry.HittableList
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Background     integrator.Background
}

// newScene creates an empty scene with the default camera, sampling and sky
func newScene(name string) *Scene {
	s := &Scene{
		Name:           name,
		World:          geometry.NewHittableList(),
		CameraConfig:   renderer.DefaultCameraConfig(),
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Background:     integrator.DefaultBackground(),
	}
	s.SetWidth(s.SamplingConfig.Width)
	return s
}

// SetWidth sets the image width and derives the height from the camera aspect ratio
func (s *Scene) SetWidth(width int) {
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = HeightForWidth(width, s.CameraConfig.AspectRatio)
}

// HeightForWidth returns the image height matching the aspect ratio, at least 1
func HeightForWidth(width int, aspectRatio float64) int {
	if aspectRatio <= 0 {
		return max(width, 1)
	}
	return max(int(float64(width)/aspectRatio), 1)
}

// AddSphere validates and adds a sphere to the world
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) error {
	sphere, err := geometry.NewSphere(center, radius, mat)
	if err != nil {
		return err
	}
	s.World.Add(sphere)
	return nil
}

// mustAddSphere adds a sphere from static scene data
func (s *Scene) mustAddSphere(center core.Vec3, radius float64, mat material.Material) {
	if err := s.AddSphere(center, radius, mat); err != nil {
		panic(err)
	}
}

// NewRaytracer wires the scene's world, camera and background into a raytracer
func (s *Scene) NewRaytracer(logger core.Logger) *renderer.Raytracer {
	camera := renderer.NewCamera(s.CameraConfig)
	integ := integrator.NewPathTracingIntegrator(s.Background)
	rt := renderer.NewRaytracer(s.World, camera, integ, s.SamplingConfig)
	if logger != nil {
		rt.SetLogger(logger)
	}
	return rt
}
