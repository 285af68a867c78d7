package material

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Material is the closed set of surface models: Lambertian and Metal.
// The unexported method keeps other packages from adding variants.
type Material interface {
	// Scatter decides whether the incoming ray continues after striking the surface.
	// Returns false when the ray is absorbed.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	isMaterial()
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// scattersAbove reports whether a scattered direction leaves the surface.
// Near-zero directions count as absorbed.
func scattersAbove(direction, normal core.Vec3) bool {
	return !direction.NearZero() && direction.Dot(normal) > 0
}
