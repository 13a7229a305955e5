package hbondr

import (
	"fmt"
	"math"
)

// Bins accumulates values in nBins radial shells of width DeltaR covering
// [0, Len). Q holds the accumulated quantity and Count the number of
// deposits of each shell. Neither is reset between frames.
type Bins struct {
	Len    float64
	DeltaR float64

	Q     []float64
	Count []int

	// Dropped is the number of deposits whose radius fell outside [0, Len).
	Dropped int
}

// NewBins returns empty bins.
func NewBins(length float64, nBins int) (*Bins, error) {
	if nBins <= 0 {
		return nil, fmt.Errorf("number of bins must be greater than 0")
	}
	if length <= 0 {
		return nil, fmt.Errorf("length must be greater than 0")
	}

	return &Bins{
		Len:    length,
		DeltaR: length / float64(nBins),
		Q:      make([]float64, nBins),
		Count:  make([]int, nBins),
	}, nil
}

// N returns the number of bins.
func (b *Bins) N() int { return len(b.Q) }

// Index returns floor(r/DeltaR). The result is not checked against the
// number of bins.
func (b *Bins) Index(r float64) int {
	return int(math.Floor(r / b.DeltaR))
}

// Deposit adds v to the bin of radius r and counts one deposit. A radius
// outside the bins, NaN included, is dropped and counted in Dropped; false
// is returned.
func (b *Bins) Deposit(v, r float64) bool {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		b.Dropped++
		return false
	}

	i := b.Index(r)
	if i < 0 || i >= len(b.Q) {
		b.Dropped++
		return false
	}

	b.Q[i] += v
	b.Count[i]++
	return true
}

// Mid returns the radius at the middle of bin i.
func (b *Bins) Mid(i int) float64 {
	return (float64(i) + 0.5) * b.DeltaR
}

// ShellVolume returns the volume of the thin spherical shell of bin i.
func (b *Bins) ShellVolume(i int) float64 {
	r := b.Mid(i)
	return 4 * math.Pi * r * r * b.DeltaR
}
