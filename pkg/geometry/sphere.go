package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// ErrInvalidRadius is returned when a sphere radius is not a positive finite number
var ErrInvalidRadius = errors.New("sphere radius must be positive and finite")

// ErrMissingMaterial is returned when a sphere is constructed without a material
var ErrMissingMaterial = errors.New("sphere material is required")

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere, rejecting degenerate geometry
func NewSphere(center core.Vec3, radius float64, mat material.Material) (Sphere, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return Sphere{}, fmt.Errorf("%w: got %v", ErrInvalidRadius, radius)
	}
	if !center.IsFinite() {
		return Sphere{}, fmt.Errorf("sphere center %v is not finite", center)
	}
	if mat == nil {
		return Sphere{}, ErrMissingMaterial
	}
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}, nil
}

// Hit tests if a ray intersects with the sphere
func (s Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Half-angle form of the quadratic: at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first; bounds are exclusive
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return nil, false
		}
	}

	hitRecord := &material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	outwardNormal := hitRecord.Point.Subtract(s.Center).Divide(s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}
