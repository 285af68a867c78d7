package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Material type names used in scene files
const (
	MaterialLambertian = "lambertian"
	MaterialMetal      = "metal"
)

// Description is the on-disk JSON form of a scene
type Description struct {
	Name       string                   `json:"name"`
	Camera     *renderer.CameraConfig   `json:"camera,omitempty"`
	Sampling   *renderer.SamplingConfig `json:"sampling,omitempty"`
	Background *integrator.Background   `json:"background,omitempty"`
	Spheres    []SphereDescription      `json:"spheres"`
}

// SphereDescription describes one sphere and its material
type SphereDescription struct {
	Center   core.Vec3           `json:"center"`
	Radius   float64             `json:"radius"`
	Material MaterialDescription `json:"material"`
}

// MaterialDescription describes a Lambertian or metal material
type MaterialDescription struct {
	Type   string    `json:"type"`
	Albedo core.Vec3 `json:"albedo"`
	Fuzz   float64   `json:"fuzz,omitempty"` // metal only
}

// Load reads a scene from a JSON file
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return s, nil
}

// Decode reads a JSON scene description. Omitted camera, sampling and
// background fields keep their defaults; an omitted height follows the aspect ratio.
func Decode(r io.Reader) (*Scene, error) {
	camera := renderer.DefaultCameraConfig()
	sampling := renderer.DefaultSamplingConfig()
	sampling.Height = 0
	background := integrator.DefaultBackground()
	desc := Description{Camera: &camera, Sampling: &sampling, Background: &background}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return desc.Build()
}

// Build validates the description and creates the scene it describes
func (d Description) Build() (*Scene, error) {
	name := d.Name
	if name == "" {
		name = "custom"
	}
	s := newScene(name)
	if d.Camera != nil {
		s.CameraConfig = *d.Camera
	}
	if d.Background != nil {
		s.Background = *d.Background
	}
	if d.Sampling != nil {
		s.SamplingConfig = *d.Sampling
	}
	if s.SamplingConfig.Height == 0 {
		s.SetWidth(s.SamplingConfig.Width)
	}

	var errs []error
	if s.CameraConfig.AspectRatio <= 0 {
		errs = append(errs, fmt.Errorf("camera aspect ratio must be positive, got %v", s.CameraConfig.AspectRatio))
	}
	if s.CameraConfig.ViewportHeight <= 0 {
		errs = append(errs, fmt.Errorf("camera viewport height must be positive, got %v", s.CameraConfig.ViewportHeight))
	}
	if s.CameraConfig.FocalLength <= 0 {
		errs = append(errs, fmt.Errorf("camera focal length must be positive, got %v", s.CameraConfig.FocalLength))
	}
	if err := s.SamplingConfig.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(d.Spheres) == 0 {
		errs = append(errs, errors.New("scene has no spheres"))
	}

	for i, sd := range d.Spheres {
		mat, err := sd.Material.Build()
		if err != nil {
			errs = append(errs, fmt.Errorf("sphere %d: %w", i, err))
			continue
		}
		if err := s.AddSphere(sd.Center, sd.Radius, mat); err != nil {
			errs = append(errs, fmt.Errorf("sphere %d: %w", i, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

// Build creates the material this description names
func (m MaterialDescription) Build() (material.Material, error) {
	if !m.Albedo.IsFinite() {
		return nil, fmt.Errorf("albedo must be finite, got %v", m.Albedo)
	}
	switch m.Type {
	case MaterialLambertian:
		return material.NewLambertian(m.Albedo), nil
	case MaterialMetal:
		if m.Fuzz < 0 || m.Fuzz > 1 {
			return nil, fmt.Errorf("metal fuzz must be in [0, 1], got %v", m.Fuzz)
		}
		return material.NewMetal(m.Albedo, m.Fuzz), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}

// Describe converts a scene to its JSON description
func Describe(s *Scene) Description {
	camera := s.CameraConfig
	sampling := s.SamplingConfig
	background := s.Background
	desc := Description{
		Name:       s.Name,
		Camera:     &camera,
		Sampling:   &sampling,
		Background: &background,
		Spheres:    make([]SphereDescription, 0, s.World.Len()),
	}

	for _, sphere := range s.World.Spheres {
		var md MaterialDescription
		switch m := sphere.Material.(type) {
		case material.Lambertian:
			md = MaterialDescription{Type: MaterialLambertian, Albedo: m.Albedo}
		case material.Metal:
			md = MaterialDescription{Type: MaterialMetal, Albedo: m.Albedo, Fuzz: m.Fuzz}
		}
		desc.Spheres = append(desc.Spheres, SphereDescription{
			Center:   sphere.Center,
			Radius:   sphere.Radius,
			Material: md,
		})
	}
	return desc
}

// Save writes a scene to a JSON file
func Save(path string, s *Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Describe(s)); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}
