// Package hbond detects hydrogen bonds between molecules with a geometric
// criterion: a donor D, the hydrogen H it carries and an acceptor A form a
// bond when |DA| < RCut and the angle between DH and DA is below ThetaCut.
package hbond

import (
	"math"

	"github.com/sydneyshavalier/grad-md-codes/pkg/vec"
)

// WrapFunc maps a displacement to its minimum image.
type WrapFunc func(vec.Vec3) vec.Vec3

// Criteria holds the cutoffs of the geometric test. RCut is a length and
// ThetaCut is in degrees.
type Criteria struct {
	RCut     float64
	ThetaCut float64
}

// Result is the outcome of Test. Distance and Angle are set whenever the
// donor-acceptor distance passed the cutoff.
type Result struct {
	Bonded   bool
	Distance float64
	Angle    float64
}

// Test checks whether the donor at d, its hydrogen at h and the acceptor at a
// form a hydrogen bond.
func (c Criteria) Test(d, h, a vec.Vec3, wrap WrapFunc) Result {
	dh := wrap(h.Sub(d))
	da := wrap(a.Sub(d))

	daDist := da.Norm()
	if daDist >= c.RCut {
		return Result{}
	}

	dhDist := dh.Norm()
	if dhDist == 0 || daDist == 0 {
		return Result{Distance: daDist}
	}

	cos := dh.Dot(da) / (dhDist * daDist)
	cos = math.Max(-1, math.Min(1, cos))
	theta := math.Acos(cos) * 180 / math.Pi

	return Result{Bonded: theta < c.ThetaCut, Distance: daDist, Angle: theta}
}
