package renderer

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera looking down -Z
type CameraConfig struct {
	Origin         core.Vec3 `json:"origin"`
	AspectRatio    float64   `json:"aspectRatio"`    // Width / height
	ViewportHeight float64   `json:"viewportHeight"` // Height of the image plane in world units
	FocalLength    float64   `json:"focalLength"`    // Distance from origin to the image plane
}

// DefaultCameraConfig returns a 16:9 camera with a 2-unit tall viewport at focal length 1
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:         core.NewVec3(0, 0, 0),
		AspectRatio:    16.0 / 9.0,
		ViewportHeight: 2.0,
		FocalLength:    1.0,
	}
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	viewportHeight := config.ViewportHeight
	viewportWidth := config.AspectRatio * viewportHeight

	origin := config.Origin
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, viewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(core.NewVec3(0, 0, config.FocalLength))

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// GetRay generates a ray for screen coordinates (u, v) where 0 <= u,v <= 1.
// u runs left to right and v runs bottom to top.
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
