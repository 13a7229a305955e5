package hbondr

import (
	"github.com/sydneyshavalier/grad-md-codes/pkg/hbond"
	"github.com/sydneyshavalier/grad-md-codes/pkg/vec"
)

// Row is one line of the report: the middle of a bin and its value.
type Row struct {
	R     float64
	Value float64
}

// Strategy decides what is deposited in the bins and how the bins become
// report rows. Molecule is called once per frame for every central molecule,
// after all its partners have been scanned; Match is called for every bond
// found, with the raw position of its hydrogen.
type Strategy interface {
	Name() string
	Suffix() string

	Molecule(b *Bins, com vec.Vec3, t hbond.Tally)
	Match(b *Bins, m hbond.Match, hydrogen vec.Vec3)

	// Rows normalizes the bins. frames is the number of frames of the
	// trajectory.
	Rows(b *Bins, frames int) []Row
}

// PerMolecule gives the average number of hydrogen bonds of a central
// molecule as a function of the distance of its center of mass to the origin.
type PerMolecule struct{}

// Name is part of the Strategy interface.
func (PerMolecule) Name() string { return "Hydrogen Bonds per Molecule vs. R" }

// Suffix is part of the Strategy interface.
func (PerMolecule) Suffix() string { return ".hbondr" }

// Molecule is part of the Strategy interface.
func (PerMolecule) Molecule(b *Bins, com vec.Vec3, t hbond.Tally) {
	b.Deposit(float64(t.Total), com.Norm())
}

// Match is part of the Strategy interface.
func (PerMolecule) Match(*Bins, hbond.Match, vec.Vec3) {}

// Rows is part of the Strategy interface. Empty bins have no row.
func (PerMolecule) Rows(b *Bins, _ int) []Row {
	var rows []Row
	for i := 0; i < b.N(); i++ {
		if b.Count[i] != 0 {
			rows = append(rows, Row{b.Mid(i), b.Q[i] / float64(b.Count[i])})
		}
	}
	return rows
}

// ShellDensity gives the number density of hydrogen bonds, located at their
// hydrogen, per spherical shell and per frame.
type ShellDensity struct{}

// Name is part of the Strategy interface.
func (ShellDensity) Name() string { return "Hydrogen Bond Density vs. R" }

// Suffix is part of the Strategy interface.
func (ShellDensity) Suffix() string { return ".hbondrvol" }

// Molecule is part of the Strategy interface.
func (ShellDensity) Molecule(*Bins, vec.Vec3, hbond.Tally) {}

// Match is part of the Strategy interface. The hydrogen position is the raw
// one, not wrapped into the box.
func (ShellDensity) Match(b *Bins, _ hbond.Match, hydrogen vec.Vec3) {
	b.Deposit(1, hydrogen.Norm())
}

// Rows is part of the Strategy interface. Every bin has a row; bins without
// deposits are 0.
func (ShellDensity) Rows(b *Bins, frames int) []Row {
	rows := make([]Row, b.N())
	for i := range rows {
		rows[i].R = b.Mid(i)

		vol := b.ShellVolume(i)
		if b.Count[i] != 0 && vol != 0 && frames != 0 {
			rows[i].Value = b.Q[i] / vol / float64(frames)
		}
	}
	return rows
}
