package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// ErrUnknownScene is returned for scene names that are not built in
var ErrUnknownScene = errors.New("unknown scene")

var builtins = map[string]func() *Scene{
	"default": NewDefaultScene,
	"diffuse": NewDiffuseScene,
	"mixed":   NewMixedScene,
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the built-in scene with the given name
func New(name string) (*Scene, error) {
	create, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return create(), nil
}

// addGround adds the large yellow ground sphere shared by all built-in scenes
func (s *Scene) addGround() {
	s.mustAddSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
}

// NewDefaultScene creates three metal spheres of increasing roughness on a diffuse ground
func NewDefaultScene() *Scene {
	s := newScene("default")
	s.addGround()

	s.mustAddSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.3))
	s.mustAddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.7, 0.3, 0.3), 0.0))
	s.mustAddSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.2), 1.0))

	return s
}

// NewDiffuseScene creates a single matte sphere on the ground
func NewDiffuseScene() *Scene {
	s := newScene("diffuse")
	s.addGround()
	s.mustAddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	return s
}

// NewMixedScene creates a matte center sphere between a polished and a brushed metal sphere
func NewMixedScene() *Scene {
	s := newScene("mixed")
	s.addGround()

	s.mustAddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	s.mustAddSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0))
	s.mustAddSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3))

	return s
}
