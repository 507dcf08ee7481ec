package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Basics(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	assert.Equal(t, Vec3{5, 7, 9}, a.Add(b))
	assert.Equal(t, Vec3{-3, -3, -3}, a.Subtract(b))
	assert.Equal(t, Vec3{2, 4, 6}, a.Multiply(2))
	assert.Equal(t, 32.0, a.Dot(b))

	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	assert.Equal(t, Vec3{0, 0, 1}, x.Cross(y))
}

func TestNormalize(t *testing.T) {
	v := NewVec3(3, 4, 0).Normalize()
	assert.InDelta(t, 1.0, v.Length(), 1e-12)
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
}

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(0, 1, -1))
	assert.Equal(t, 1.0, Smoothstep(0, 1, 2))
	assert.InDelta(t, 0.5, Smoothstep(0, 1, 0.5), 1e-12)

	// degenerate edges act as a hard step
	assert.Equal(t, 0.0, Smoothstep(2, 2, 1.9))
	assert.Equal(t, 1.0, Smoothstep(2, 2, 2.1))
}

func TestRandForIndexStableAndBounded(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := RandForIndex(i, 7)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
		assert.Equal(t, v, RandForIndex(i, 7))
	}
	assert.NotEqual(t, RandForIndex(1, 0), RandForIndex(2, 0))
	assert.NotEqual(t, RandForIndex(1, 0), RandForIndex(1, 1))
}

func TestValueNoise3Properties(t *testing.T) {
	for i := 0; i < 200; i++ {
		x := float64(i)*0.37 - 30
		y := float64(i)*0.91 + 4
		z := float64(i) * -0.13
		v := ValueNoise3(x, y, z)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		assert.Equal(t, v, ValueNoise3(x, y, z))
	}

	// continuity across a lattice boundary
	eps := 1e-7
	assert.InDelta(t, ValueNoise3(1-eps, 0.5, 0.5), ValueNoise3(1+eps, 0.5, 0.5), 1e-4)
}

func TestSphericalAngles(t *testing.T) {
	theta, _ := SphericalAngles(0, 1, 0)
	assert.InDelta(t, 0.0, theta, 1e-12, "north pole")

	theta, phi := SphericalAngles(1, 0, 0)
	assert.InDelta(t, math.Pi/2, theta, 1e-12)
	assert.InDelta(t, 0.0, phi, 1e-12)

	_, phi = SphericalAngles(0, 0, -1)
	assert.InDelta(t, 1.5*math.Pi, phi, 1e-12)
}

func TestClampLerp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
	assert.Equal(t, 0.0, Clamp01(-3))
	assert.Equal(t, 1.0, Clamp01(7))
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
}
