package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestCamera_GetRay_Corners(t *testing.T) {
	camera := NewCamera(DefaultCameraConfig())
	width := 16.0 / 9.0 * 2.0

	tests := []struct {
		name      string
		u, v      float64
		direction core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-width/2, -1, -1)},
		{"upper right", 1, 1, core.NewVec3(width/2, 1, -1)},
		{"upper left", 0, 1, core.NewVec3(-width/2, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.u, tt.v)
			if ray.Origin != core.NewVec3(0, 0, 0) {
				t.Errorf("Expected origin at zero, got %v", ray.Origin)
			}
			if !vecNear(ray.Direction, tt.direction, 1e-12) {
				t.Errorf("Expected direction %v, got %v", tt.direction, ray.Direction)
			}
		})
	}
}

func TestCamera_CustomOriginAndFocalLength(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Origin:         core.NewVec3(1, 2, 3),
		AspectRatio:    1.0,
		ViewportHeight: 4.0,
		FocalLength:    2.5,
	})

	ray := camera.GetRay(0.5, 0.5)
	if ray.Origin != core.NewVec3(1, 2, 3) {
		t.Errorf("Expected origin (1,2,3), got %v", ray.Origin)
	}
	if !vecNear(ray.Direction, core.NewVec3(0, 0, -2.5), 1e-12) {
		t.Errorf("Expected direction (0,0,-2.5), got %v", ray.Direction)
	}

	ray = camera.GetRay(1, 0)
	if !vecNear(ray.Direction, core.NewVec3(2, -2, -2.5), 1e-12) {
		t.Errorf("Expected direction (2,-2,-2.5), got %v", ray.Direction)
	}
}
