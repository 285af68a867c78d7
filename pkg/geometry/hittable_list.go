package geometry

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// HittableList is an unordered collection of spheres searched linearly
type HittableList struct {
	Spheres []Sphere
}

// NewHittableList creates a list holding the given spheres
func NewHittableList(spheres ...Sphere) *HittableList {
	return &HittableList{Spheres: spheres}
}

// Add appends a sphere to the list
func (l *HittableList) Add(sphere Sphere) {
	l.Spheres = append(l.Spheres, sphere)
}

// Len returns the number of spheres
func (l *HittableList) Len() int {
	return len(l.Spheres)
}

// Hit returns the closest hit across all spheres.
// Each candidate is tested only against the best t found so far.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, sphere := range l.Spheres {
		if hit, isHit := sphere.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
