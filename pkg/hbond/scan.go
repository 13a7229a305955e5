package hbond

import (
	"github.com/sydneyshavalier/grad-md-codes/pkg/topo"
	"github.com/sydneyshavalier/grad-md-codes/pkg/vec"
)

// Role is the part played by the central molecule in a match.
type Role int

const (
	// RoleDonor means the central molecule donates the hydrogen.
	RoleDonor Role = iota
	// RoleAcceptor means the central molecule accepts the hydrogen.
	RoleAcceptor
)

func (r Role) String() string {
	if r == RoleDonor {
		return "donor"
	}
	return "acceptor"
}

// Match is one confirmed hydrogen bond between a central and a partner
// molecule.
type Match struct {
	Role     Role
	Donor    topo.Donor
	Acceptor *topo.Atom
	Result
}

// Hydrogen returns the donated hydrogen of the bond. It belongs to the central
// molecule in the donor role and to the partner in the acceptor role.
func (m Match) Hydrogen() *topo.Atom {
	return m.Donor.Hydrogen
}

// Tally counts the bonds of a central molecule.
type Tally struct {
	Donor    int
	Acceptor int
	Total    int
}

// Add records m.
func (t *Tally) Add(m Match) {
	t.Total++
	if m.Role == RoleDonor {
		t.Donor++
	} else {
		t.Acceptor++
	}
}

// Scan tests every donor of m1 against every acceptor of m2, then every
// acceptor of m1 against every donor of m2, and calls visit for each bond.
// Bonds found in both sweeps are reported twice.
func Scan(c Criteria, xyz []vec.Vec3, wrap WrapFunc, m1, m2 *topo.Molecule, visit func(Match)) {
	for _, d := range m1.Donors() {
		dPos, hPos := d.Atom.Pos(xyz), d.Hydrogen.Pos(xyz)
		for _, a := range m2.Acceptors() {
			res := c.Test(dPos, hPos, a.Pos(xyz), wrap)
			if res.Bonded {
				visit(Match{Role: RoleDonor, Donor: d, Acceptor: a, Result: res})
			}
		}
	}

	for _, a := range m1.Acceptors() {
		aPos := a.Pos(xyz)
		for _, d := range m2.Donors() {
			res := c.Test(d.Atom.Pos(xyz), d.Hydrogen.Pos(xyz), aPos, wrap)
			if res.Bonded {
				visit(Match{Role: RoleAcceptor, Donor: d, Acceptor: a, Result: res})
			}
		}
	}
}
