package cfg

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/sydneyshavalier/grad-md-codes/pkg/topo"
)

// iniFile is the layout of an INI configuration:
//
//	[analysis]
//	traj = water.lammpstrj
//	rcut = 3.5
//	...
//	molecule = SPCE
//
//	[molecule "SPCE"]
//	count = 500
//	mass = 15.9994
//	mass = 1.008
//	mass = 1.008
//	donor = 0 1
//	donor = 0 2
//	acceptor = 0
//
// The molecule variable of [analysis] gives the order of the molecule types.
type iniFile struct {
	Analysis struct {
		Traj     string
		Type     string
		Step     int
		RCut     float64
		ThetaCut float64
		Len      float64
		NBins    int
		Sele1    string
		Sele2    string
		Sele3    string
		Params   string
		Molecule []string
	}
	Molecule map[string]*struct {
		Count    int
		Mass     []float64
		Donor    []string
		Acceptor []int
	}
}

func readINI(path string) (*Cfg, error) {
	var f iniFile
	err := gcfg.ReadFileInto(&f, path)
	if err != nil {
		return nil, err
	}

	an := f.Analysis
	c := &Cfg{
		Traj:     an.Traj,
		Type:     Type(an.Type),
		Step:     an.Step,
		RCut:     an.RCut,
		ThetaCut: an.ThetaCut,
		Len:      an.Len,
		NBins:    an.NBins,
		Sele1:    an.Sele1,
		Sele2:    an.Sele2,
		Sele3:    an.Sele3,
		Params:   an.Params,
	}

	for _, name := range an.Molecule {
		m, ok := f.Molecule[name]
		if !ok {
			return nil, fmt.Errorf("molecule %q has no section", name)
		}

		mt := topo.MoleculeType{Name: name, Count: m.Count, Masses: m.Mass, Acceptors: m.Acceptor}
		for _, d := range m.Donor {
			pair, err := parseDonor(d)
			if err != nil {
				return nil, fmt.Errorf("molecule %q: %w", name, err)
			}
			mt.Donors = append(mt.Donors, pair)
		}
		c.Molecules = append(c.Molecules, mt)
	}

	return c, nil
}

// parseDonor reads "donor hydrogen", two atom indices.
func parseDonor(s string) ([2]int, error) {
	var pair [2]int
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return pair, fmt.Errorf("donor %q must have two atom indices", s)
	}

	for k, v := range fields {
		i, err := strconv.Atoi(v)
		if err != nil {
			return pair, fmt.Errorf("donor %q: %w", s, err)
		}
		pair[k] = i
	}
	return pair, nil
}
