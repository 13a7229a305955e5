package cfg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sydneyshavalier/grad-md-codes/pkg/topo"
)

// One central molecule donating to one acceptor 3.0 away at 10 degrees. The
// center of mass of the central molecule and its hydrogen are at 5.25 from
// the origin.
const dump = `ITEM: TIMESTEP
0
ITEM: NUMBER OF ATOMS
4
ITEM: BOX BOUNDS pp pp pp
-50 50
-50 50
-50 50
ITEM: ATOMS id type x y z
1 1 5.25 -1 0
2 2 5.25 0 0
3 3 5.25 1 0
4 4 5.770944533 1.954423259 0
`

const yamlCfg = `traj: %s
type: lammpstrj
rCut: 3.5
thetaCut: 30
len: 20
nBins: 40
sele1: type C
sele2: type P
sele3: all
molecules:
  - name: C
    count: 1
    masses: [1, 1, 1]
    donors: [[0, 1]]
  - name: P
    count: 1
    masses: [16]
    acceptors: [0]
`

const iniCfg = `[analysis]
traj = "%s"
type = lammpstrj
rcut = 3.5
thetacut = 30
len = 20
nbins = 40
sele1 = type C
sele2 = type P
sele3 = all
molecule = C
molecule = P

[molecule "C"]
count = 1
mass = 1
mass = 1
mass = 1
donor = 0 1

[molecule "P"]
count = 1
mass = 16
acceptor = 0
`

// setup writes the trajectory and a configuration file named name built from
// format, and returns the path of the configuration.
func setup(t *testing.T, name, format string) string {
	t.Helper()
	dir := t.TempDir()

	trajPath := filepath.Join(dir, "water.lammpstrj")
	require.NoError(t, os.WriteFile(trajPath, []byte(dump), 0644))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(format, trajPath)), 0644))
	return path
}

func TestNew(t *testing.T) {
	y, err := New(setup(t, "hbond.yaml", yamlCfg))
	require.NoError(t, err)

	assert.Equal(t, TLammpstrj, y.Type)
	assert.Equal(t, 1, y.Step)
	assert.Equal(t, 3.5, y.RCut)
	assert.Equal(t, 40, y.NBins)
	assert.Equal(t, "type C", y.Sele1)
	require.Len(t, y.Molecules, 2)
	assert.Equal(t, [][2]int{{0, 1}}, y.Molecules[0].Donors)
	assert.Equal(t, []int{0}, y.Molecules[1].Acceptors)

	i, err := New(setup(t, "hbond.ini", iniCfg))
	require.NoError(t, err)

	// Both formats describe the same analysis; only the directory differs.
	assert.Equal(t, filepath.Base(y.Traj), filepath.Base(i.Traj))
	i.Traj = y.Traj
	if diff := cmp.Diff(y, i); diff != "" {
		t.Errorf("yaml and ini (-yaml +ini)\n%s", diff)
	}
}

func TestHBondR(t *testing.T) {
	c, err := New(setup(t, "hbond.yaml", yamlCfg))
	require.NoError(t, err)

	a, err := c.HBondR(context.Background(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, a.Processed)
	assert.Equal(t, strings.TrimSuffix(c.Traj, ".lammpstrj")+".hbondr", a.Out)

	b, err := os.ReadFile(a.Out)
	require.NoError(t, err)
	want := "# Hydrogen Bonds per Molecule vs. R\n" +
		"#selection 1: (type C)\n" +
		"#selection 2: (type P)\n" +
		"#selection 3: (all)\n" +
		"# parameters: rCut = 3.5, thetaCut = 30, len = 20, nBins = 40, step = 1\n" +
		"#distance\tH Bonds\n" +
		"5.25\t1\n"
	assert.Equal(t, want, string(b))
}

func TestHBondRvol(t *testing.T) {
	c, err := New(setup(t, "hbond.ini", iniCfg))
	require.NoError(t, err)
	c.Params = "water"

	a, err := c.HBondRvol(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(a.Out, "water.hbondrvol"))

	b, err := os.ReadFile(a.Out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 6+40)
	assert.Equal(t, "# Hydrogen Bond Density vs. R", lines[0])
	assert.Equal(t, "# parameters: water", lines[4])
	assert.Equal(t, "0.25\t0", lines[6])
	assert.Equal(t, "5.25\t0.00577433", lines[6+10])
	assert.Equal(t, "19.75\t0", lines[6+39])
}

func TestRunMissingTrajectory(t *testing.T) {
	path := setup(t, "hbond.yaml", yamlCfg)
	c, err := New(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(c.Traj))

	_, err = c.HBondR(context.Background(), nil)
	assert.Error(t, err)
}

func valid() Cfg {
	return Cfg{
		Traj:     "water.lammpstrj",
		RCut:     3.5,
		ThetaCut: 30,
		Len:      20,
		NBins:    40,
		Sele1:    "all",
		Sele2:    "all",
		Sele3:    "all",
		Molecules: []topo.MoleculeType{
			{Name: "W", Count: 2, Masses: []float64{16, 1, 1}, Donors: [][2]int{{0, 1}}, Acceptors: []int{0}},
		},
	}
}

func TestCheck(t *testing.T) {
	c := valid()
	require.NoError(t, c.Check())
	assert.Equal(t, TLammpstrj, c.Type)
	assert.Equal(t, 1, c.Step)

	tests := map[string]func(c *Cfg){
		"no traj":         func(c *Cfg) { c.Traj = "" },
		"bad type":        func(c *Cfg) { c.Type = "xtc" },
		"negative step":   func(c *Cfg) { c.Step = -1 },
		"no rcut":         func(c *Cfg) { c.RCut = 0 },
		"no thetacut":     func(c *Cfg) { c.ThetaCut = -3 },
		"no len":          func(c *Cfg) { c.Len = 0 },
		"no bins":         func(c *Cfg) { c.NBins = 0 },
		"no molecules":    func(c *Cfg) { c.Molecules = nil },
		"bad molecule":    func(c *Cfg) { c.Molecules[0].Acceptors = []int{5} },
		"bad selection":   func(c *Cfg) { c.Sele2 = "water" },
		"empty selection": func(c *Cfg) { c.Sele3 = "" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			assert.Error(t, c.Check())
		})
	}

	c = valid()
	c.Type = "xtc"
	assert.ErrorIs(t, c.Check(), ErrUnsupportedType)
}

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("traj: a\nfoo: 1\n"), 0644))
	_, err = New(unknown)
	assert.Error(t, err, "unknown field")

	noSection := filepath.Join(dir, "nosection.ini")
	require.NoError(t, os.WriteFile(noSection, []byte("[analysis]\nmolecule = W\n"), 0644))
	_, err = New(noSection)
	assert.Error(t, err, "missing molecule section")

	badDonor := filepath.Join(dir, "baddonor.ini")
	require.NoError(t, os.WriteFile(badDonor, []byte("[analysis]\nmolecule = W\n[molecule \"W\"]\ndonor = 0\n"), 0644))
	_, err = New(badDonor)
	assert.Error(t, err, "bad donor")
}
