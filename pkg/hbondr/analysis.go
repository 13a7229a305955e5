// Package hbondr computes radial statistics of hydrogen bonds along a
// trajectory. Molecules of the first selection are the central molecules;
// they are scanned against every molecule of the second selection and the
// bonds found are accumulated in radial bins measured from the origin. What is
// accumulated, and how it is normalized, is decided by a Strategy.
package hbondr

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sydneyshavalier/grad-md-codes/pkg/hbond"
	"github.com/sydneyshavalier/grad-md-codes/pkg/sel"
	"github.com/sydneyshavalier/grad-md-codes/pkg/topo"
	"github.com/sydneyshavalier/grad-md-codes/pkg/traj"
)

// ErrNoFrames is returned by Run when the trajectory is empty.
var ErrNoFrames = errors.New("trajectory has no frames")

// Analysis structure contains everything needed to run the calculation. The
// third selection is not used to find bonds; it is only echoed in the report.
type Analysis struct {
	Reader   traj.Reader
	System   *topo.System
	Sele     [3]*sel.Selection
	Criteria hbond.Criteria
	Bins     *Bins
	Strategy Strategy

	// Step is the stride between two processed frames.
	Step int

	// Out is the report file, rewritten after every frame.
	Out string

	// Params is echoed in the report header when not empty.
	Params string

	Logger *zap.Logger

	// Frames is the number of frames of the trajectory and Processed the
	// number of frames analysed so far.
	Frames    int
	Processed int

	selected [3][]*topo.Molecule
}

// OutputName returns the report file of a trajectory: its path without
// extension followed by suffix.
func OutputName(trajPath, suffix string) string {
	return strings.TrimSuffix(trajPath, filepath.Ext(trajPath)) + suffix
}

// Run performs the calculation. Frames 0, Step, 2*Step... are read in order
// and the report is written after each of them. Any error stops the run; the
// report then holds the statistics up to the last complete frame.
func (a *Analysis) Run(ctx context.Context) (err error) {
	log := a.Logger
	if log == nil {
		log = zap.NewNop()
	}

	step := a.Step
	if step <= 0 {
		step = 1
	}

	defer func() {
		cerr := a.Reader.Close()
		if err == nil {
			err = cerr
		}
	}()

	a.Frames, err = a.Reader.Open()
	if err != nil {
		return fmt.Errorf("Open: %w", err)
	}

	if a.Frames == 0 {
		return ErrNoFrames
	}

	for k, s := range a.Sele {
		if !s.IsDynamic() {
			a.selected[k] = s.Evaluate(a.System, nil)
		}
	}

	for i := 0; i < a.Frames; i += step {
		err = ctx.Err()
		if err != nil {
			return err
		}

		var snap *traj.Snapshot
		snap, err = a.Reader.ReadFrame(i)
		if err != nil {
			return fmt.Errorf("ReadFrame %d: %w", i, err)
		}

		for k, s := range a.Sele {
			if s.IsDynamic() {
				a.selected[k] = s.Evaluate(a.System, snap.XYZ)
			}
		}

		dropped := a.Bins.Dropped
		bonds := a.frame(snap)
		a.Processed++

		log.Debug("frame processed",
			zap.Int("frame", i),
			zap.Int("frames", a.Frames),
			zap.Int("central", len(a.selected[0])),
			zap.Int("bonds", bonds))
		if a.Bins.Dropped > dropped {
			log.Warn("samples outside the bins were dropped",
				zap.Int("frame", i),
				zap.Int("dropped", a.Bins.Dropped-dropped),
				zap.Float64("len", a.Bins.Len))
		}

		err = a.Write()
		if err != nil {
			return err
		}
	}

	return nil
}

// frame scans every central molecule against every partner molecule of snap
// and returns the number of bonds found.
func (a *Analysis) frame(snap *traj.Snapshot) int {
	var bonds int
	for _, m1 := range a.selected[0] {
		var t hbond.Tally
		for _, m2 := range a.selected[1] {
			hbond.Scan(a.Criteria, snap.XYZ, snap.Wrap, m1, m2, func(m hbond.Match) {
				t.Add(m)
				a.Strategy.Match(a.Bins, m, m.Hydrogen().Pos(snap.XYZ))
			})
		}
		a.Strategy.Molecule(a.Bins, m1.COM(snap.XYZ), t)
		bonds += t.Total
	}
	return bonds
}

// Rows returns the current report rows.
func (a *Analysis) Rows() []Row {
	return a.Strategy.Rows(a.Bins, a.Frames)
}
