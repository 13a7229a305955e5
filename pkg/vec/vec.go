// Package vec contains the 3D vector type used for positions and displacements.
package vec

import "math"

// Vec3 is a Cartesian vector.
type Vec3 [3]float64

// Add returns v+u.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{v[0] + u[0], v[1] + u[1], v[2] + u[2]}
}

// Sub returns v-u.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{v[0] - u[0], v[1] - u[1], v[2] - u[2]}
}

// Scale returns s*v.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the scalar product of v and u.
func (v Vec3) Dot(u Vec3) float64 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// Norm returns the length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}
