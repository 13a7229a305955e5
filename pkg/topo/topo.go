// Package topo describes the molecules of a simulated system: which atoms
// belong to which molecule, their masses, and which atoms can donate or accept
// a hydrogen bond. Positions are not stored here; they belong to the frame
// being analysed and are looked up by global atom index.
package topo

import (
	"fmt"

	"github.com/sydneyshavalier/grad-md-codes/pkg/vec"
)

// MoleculeType is the template of one kind of molecule. Donors and Acceptors
// refer to atoms by their position inside the molecule, starting at 0.
type MoleculeType struct {
	Name      string    `yaml:"name"`
	Count     int       `yaml:"count"`
	Masses    []float64 `yaml:"masses"`
	Donors    [][2]int  `yaml:"donors"`
	Acceptors []int     `yaml:"acceptors"`
}

// Check returns an error if the template is inconsistent.
func (t *MoleculeType) Check() error {
	if t.Name == "" {
		return fmt.Errorf("molecule type without a name")
	}

	if t.Count <= 0 {
		return fmt.Errorf("%s: count must be greater than 0", t.Name)
	}

	if len(t.Masses) == 0 {
		return fmt.Errorf("%s: at least one mass is required", t.Name)
	}

	for k, m := range t.Masses {
		if m <= 0 {
			return fmt.Errorf("%s: mass of atom %d must be greater than 0", t.Name, k)
		}
	}

	for _, d := range t.Donors {
		if !t.has(d[0]) || !t.has(d[1]) {
			return fmt.Errorf("%s: donor %v out of range [0, %d)", t.Name, d, len(t.Masses))
		}
		if d[0] == d[1] {
			return fmt.Errorf("%s: donor %v uses the same atom twice", t.Name, d)
		}
	}

	for _, a := range t.Acceptors {
		if !t.has(a) {
			return fmt.Errorf("%s: acceptor %d out of range [0, %d)", t.Name, a, len(t.Masses))
		}
	}

	return nil
}

func (t *MoleculeType) has(i int) bool {
	return i >= 0 && i < len(t.Masses)
}

// Atom is one atom of the system. Index is its global index, which is also
// its index in the positions of a frame.
type Atom struct {
	Index int
	Mass  float64
}

// Pos returns the position of the atom in xyz.
func (a *Atom) Pos(xyz []vec.Vec3) vec.Vec3 {
	return xyz[a.Index]
}

// Donor is a heavy atom together with the hydrogen it can donate.
type Donor struct {
	Atom     *Atom
	Hydrogen *Atom
}

// Molecule is an instance of a MoleculeType.
type Molecule struct {
	Index int
	Type  string

	atoms     []*Atom
	donors    []Donor
	acceptors []*Atom
	mass      float64
}

// Atoms returns the atoms of the molecule.
func (m *Molecule) Atoms() []*Atom { return m.atoms }

// Donors returns the donor records of the molecule. It may be empty.
func (m *Molecule) Donors() []Donor { return m.donors }

// Acceptors returns the acceptor atoms of the molecule. It may be empty.
func (m *Molecule) Acceptors() []*Atom { return m.acceptors }

// COM returns the center of mass of the molecule computed from the raw
// positions in xyz.
func (m *Molecule) COM(xyz []vec.Vec3) vec.Vec3 {
	var com vec.Vec3
	for _, a := range m.atoms {
		com = com.Add(xyz[a.Index].Scale(a.Mass))
	}
	return com.Scale(1 / m.mass)
}

// System is the ordered list of molecules of a simulation.
type System struct {
	Molecules []*Molecule
	Atoms     int
}

// NewSystem builds the molecules described by types. Molecules and atoms are
// numbered in declaration order: all the molecules of the first type, then
// all the molecules of the second type, and so on.
func NewSystem(types []MoleculeType) (*System, error) {
	var s System
	for k := range types {
		t := &types[k]
		err := t.Check()
		if err != nil {
			return nil, err
		}

		for c := 0; c < t.Count; c++ {
			m := &Molecule{Index: len(s.Molecules), Type: t.Name}
			for _, mass := range t.Masses {
				m.atoms = append(m.atoms, &Atom{Index: s.Atoms, Mass: mass})
				m.mass += mass
				s.Atoms++
			}
			for _, d := range t.Donors {
				m.donors = append(m.donors, Donor{Atom: m.atoms[d[0]], Hydrogen: m.atoms[d[1]]})
			}
			for _, a := range t.Acceptors {
				m.acceptors = append(m.acceptors, m.atoms[a])
			}
			s.Molecules = append(s.Molecules, m)
		}
	}

	if len(s.Molecules) == 0 {
		return nil, fmt.Errorf("no molecules")
	}

	return &s, nil
}
