package cfg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sydneyshavalier/grad-md-codes/pkg/hbond"
	"github.com/sydneyshavalier/grad-md-codes/pkg/hbondr"
	"github.com/sydneyshavalier/grad-md-codes/pkg/sel"
	"github.com/sydneyshavalier/grad-md-codes/pkg/topo"
	"github.com/sydneyshavalier/grad-md-codes/pkg/traj"
	"github.com/sydneyshavalier/grad-md-codes/pkg/traj/lammpstrj"
)

// Type is the type of the trajectory
type Type string

// Here are the accepted types. Lammpstrj is a Lammps Trajectory file.
var (
	TLammpstrj Type = "lammpstrj"
)

// ErrUnsupportedType is returned for an unknown trajectory type.
var ErrUnsupportedType = errors.New("unsupported type")

// Cfg is a structure containing the parameters specified in the configuration
// file. It can be instanced through the New method or by "hand". If it is
// instanced by hand, please use the Check method to check if the Cfg meets the
// requirements.
type Cfg struct {
	// Traj is the file containing the configurations
	Traj string `yaml:"traj"`

	// Type is the type of trajectory (e.g: lammpstrj)
	Type Type `yaml:"type"`

	// Step is the stride between two frames. 0 is replaced by 1.
	Step int `yaml:"step"`

	// RCut is the largest donor-acceptor distance of a hydrogen bond
	RCut float64 `yaml:"rCut"`

	// ThetaCut is the largest angle in degrees between the donor-hydrogen and
	// donor-acceptor vectors
	ThetaCut float64 `yaml:"thetaCut"`

	// Len is the radial extent of the bins and NBins their number
	Len   float64 `yaml:"len"`
	NBins int     `yaml:"nBins"`

	// Sele1 selects the central molecules, Sele2 their partners. Sele3 is
	// only written in the header of the output.
	Sele1 string `yaml:"sele1"`
	Sele2 string `yaml:"sele2"`
	Sele3 string `yaml:"sele3"`

	// Params replaces the parameter line of the output
	Params string `yaml:"params"`

	// Molecules are the molecule types in the order of the atoms of the
	// trajectory
	Molecules []topo.MoleculeType `yaml:"molecules"`
}

// New opens and decodes the specified configuration file. YAML files (.yaml,
// .yml) and INI files (.ini, .gcfg) are accepted. This method automatically
// calls the Check method to check the integrity of Cfg.
func New(path string) (*Cfg, error) {
	var (
		c   *Cfg
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg":
		c, err = readINI(path)
	default:
		c, err = readYAML(path)
	}
	if err != nil {
		return nil, err
	}

	err = c.Check()
	if err != nil {
		return nil, fmt.Errorf("Check: %w", err)
	}

	return c, nil
}

func readYAML(path string) (*Cfg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var c Cfg
	r := bufio.NewReader(f)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err = dec.Decode(&c)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// Check checks if Cfg is correct. It returns an error if a field doesn't meet
// the requirements.
func (c *Cfg) Check() error {
	if c.Traj == "" {
		return fmt.Errorf("Traj must be specified")
	}

	if c.Type == "" {
		c.Type = TLammpstrj
	}
	if c.Type != TLammpstrj {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, c.Type)
	}

	if c.Step < 0 {
		return fmt.Errorf("Step must be greater or equal to 0")
	}
	if c.Step == 0 {
		c.Step = 1
	}

	if c.RCut <= 0 || c.ThetaCut <= 0 {
		return fmt.Errorf("RCut and ThetaCut must be greater than 0")
	}

	if c.Len <= 0 || c.NBins <= 0 {
		return fmt.Errorf("Len and NBins must be greater than 0")
	}

	if len(c.Molecules) == 0 {
		return fmt.Errorf("at least one molecule type is required")
	}

	for k := range c.Molecules {
		err := c.Molecules[k].Check()
		if err != nil {
			return err
		}
	}

	for _, s := range c.selections() {
		_, err := sel.Compile(s)
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Cfg) selections() [3]string {
	return [3]string{c.Sele1, c.Sele2, c.Sele3}
}

// Parameters returns the parameter line of the output.
func (c *Cfg) Parameters() string {
	if c.Params != "" {
		return c.Params
	}
	return fmt.Sprintf("rCut = %g, thetaCut = %g, len = %g, nBins = %d, step = %d",
		c.RCut, c.ThetaCut, c.Len, c.NBins, c.Step)
}

// Analysis returns the analysis described by Cfg with strategy s. Its output
// is the trajectory name with the suffix of s.
func (c *Cfg) Analysis(s hbondr.Strategy, log *zap.Logger) (*hbondr.Analysis, error) {
	sys, err := topo.NewSystem(c.Molecules)
	if err != nil {
		return nil, fmt.Errorf("NewSystem: %w", err)
	}

	bins, err := hbondr.NewBins(c.Len, c.NBins)
	if err != nil {
		return nil, fmt.Errorf("NewBins: %w", err)
	}

	var r traj.Reader
	switch c.Type {
	case TLammpstrj:
		r = lammpstrj.New(c.Traj, sys.Atoms)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, c.Type)
	}

	a := &hbondr.Analysis{
		Reader:   r,
		System:   sys,
		Criteria: hbond.Criteria{RCut: c.RCut, ThetaCut: c.ThetaCut},
		Bins:     bins,
		Strategy: s,
		Step:     c.Step,
		Out:      hbondr.OutputName(c.Traj, s.Suffix()),
		Params:   c.Parameters(),
		Logger:   log,
	}

	for k, expr := range c.selections() {
		a.Sele[k], err = sel.Compile(expr)
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}

// HBondR calculates the average number of hydrogen bonds per central molecule
// as a function of the distance to the origin.
func (c *Cfg) HBondR(ctx context.Context, log *zap.Logger) (*hbondr.Analysis, error) {
	return c.run(ctx, hbondr.PerMolecule{}, log)
}

// HBondRvol calculates the number density of hydrogen bonds in spherical
// shells around the origin.
func (c *Cfg) HBondRvol(ctx context.Context, log *zap.Logger) (*hbondr.Analysis, error) {
	return c.run(ctx, hbondr.ShellDensity{}, log)
}

func (c *Cfg) run(ctx context.Context, s hbondr.Strategy, log *zap.Logger) (*hbondr.Analysis, error) {
	a, err := c.Analysis(s, log)
	if err != nil {
		return nil, err
	}

	err = a.Run(ctx)
	return a, err
}
