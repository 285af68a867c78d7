package core

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"Divide", a.Divide(2), NewVec3(0.5, 1, 1.5)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Cross anticommutes", NewVec3(0, 1, 0).Cross(NewVec3(1, 0, 0)), NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVec3_DotUsesMatchingAxes(t *testing.T) {
	// A dot that pairs z with the other vector's x would return 1 here
	a := NewVec3(0, 0, 1)
	b := NewVec3(1, 0, 0)
	if got := a.Dot(b); got != 0 {
		t.Errorf("Expected orthogonal dot product 0, got %f", got)
	}

	if got := NewVec3(1, 2, 3).Dot(NewVec3(4, 5, 6)); got != 32 {
		t.Errorf("Expected dot product 32, got %f", got)
	}
}

func TestVec3_LengthSquared(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected float64
	}{
		{"unit x", NewVec3(1, 0, 0), 1},
		{"unit z", NewVec3(0, 0, 1), 1},
		{"mixed", NewVec3(1, 2, 3), 14},
		{"negative", NewVec3(-2, 0, 0), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.LengthSquared(); got != tt.expected {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
			if got := tt.v.Length(); math.Abs(got-math.Sqrt(tt.expected)) > 1e-12 {
				t.Errorf("Expected length %f, got %f", math.Sqrt(tt.expected), got)
			}
		})
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 0, 4).Normalize()
	if !vecNear(v, NewVec3(0.6, 0, 0.8), 1e-12) {
		t.Errorf("Expected (0.6, 0, 0.8), got %v", v)
	}
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}

	// Normalizing the zero vector is undefined; it must not look finite
	if NewVec3(0, 0, 0).Normalize().IsFinite() {
		t.Error("Expected non-finite result for zero vector")
	}
}

func TestVec3_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		normal   Vec3
		expected Vec3
	}{
		{"straight down", NewVec3(0, -1, 0), NewVec3(0, 1, 0), NewVec3(0, 1, 0)},
		{"45 degrees", NewVec3(1, -1, 0), NewVec3(0, 1, 0), NewVec3(1, 1, 0)},
		{"parallel to surface", NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Reflect(tt.normal); !vecNear(got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestVec3_ClampAndGamma(t *testing.T) {
	v := NewVec3(-0.5, 0.25, 2.0).Clamp(0, 0.999)
	if v != NewVec3(0, 0.25, 0.999) {
		t.Errorf("Clamp failed: got %v", v)
	}

	g := NewVec3(0.25, 1, 0).GammaCorrect(2.0)
	if !vecNear(g, NewVec3(0.5, 1, 0), 1e-12) {
		t.Errorf("Gamma 2 failed: got %v", g)
	}

	g = NewVec3(0.125, 1, 0).GammaCorrect(3.0)
	if !vecNear(g, NewVec3(0.5, 1, 0), 1e-12) {
		t.Errorf("Gamma 3 failed: got %v", g)
	}
}

func TestVec3_NearZeroAndFinite(t *testing.T) {
	if !NewVec3(1e-9, -1e-9, 0).NearZero() {
		t.Error("Expected tiny vector to be near zero")
	}
	if NewVec3(1e-3, 0, 0).NearZero() {
		t.Error("Expected 1e-3 not to be near zero")
	}
	if NewVec3(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN component should not be finite")
	}
	if NewVec3(0, math.Inf(1), 0).IsFinite() {
		t.Error("Inf component should not be finite")
	}
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("Regular vector should be finite")
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -2))

	tests := []struct {
		t        float64
		expected Vec3
	}{
		{0, NewVec3(1, 2, 3)},
		{1, NewVec3(1, 2, 1)},
		{-0.5, NewVec3(1, 2, 4)},
	}

	for _, tt := range tests {
		if got := ray.At(tt.t); got != tt.expected {
			t.Errorf("At(%f): expected %v, got %v", tt.t, tt.expected, got)
		}
	}
}
