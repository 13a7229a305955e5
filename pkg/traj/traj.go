// Package traj defines how frames of a trajectory are read. A Reader gives
// random access to the frames of one trajectory file; each frame is returned
// as a Snapshot holding the raw positions and the periodic box.
package traj

import (
	"math"

	"github.com/sydneyshavalier/grad-md-codes/pkg/vec"
)

// Reader is an interface that will be implemented by every trajectory format.
type Reader interface {
	// Open prepares the trajectory and returns its number of frames.
	Open() (int, error)

	// ReadFrame returns the frame i. Frames can be read in any order.
	ReadFrame(i int) (*Snapshot, error)

	// Close closes the file opened.
	Close() error
}

// Snapshot is the state of the system at one frame. XYZ is indexed by global
// atom index. Box holds the lengths of an orthorhombic periodic box; a zero
// length means the axis is not periodic.
type Snapshot struct {
	Index int
	Box   vec.Vec3
	XYZ   []vec.Vec3
}

// Wrap returns the minimum image of the displacement d.
func (s *Snapshot) Wrap(d vec.Vec3) vec.Vec3 {
	for k := 0; k < 3; k++ {
		if s.Box[k] <= 0 {
			continue
		}
		d[k] -= s.Box[k] * math.Round(d[k]/s.Box[k])
	}
	return d
}
