package lammpstrj

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sydneyshavalier/grad-md-codes/pkg/vec"
)

const dump = `ITEM: TIMESTEP
0
ITEM: NUMBER OF ATOMS
3
ITEM: BOX BOUNDS pp pp pp
-5 5
-5 5
0 20
ITEM: ATOMS id type x y z
2 2 1.0 0.0 0.0
1 1 0.0 0.0 0.0
3 2 0.0 1.0 0.0
ITEM: TIMESTEP
100
ITEM: NUMBER OF ATOMS
3
ITEM: BOX BOUNDS pp pp pp
-6 6
-6 6
0 24
ITEM: ATOMS id type x y z
1 1 0.5 0.5 0.5
2 2 1.5 0.5 0.5
3 2 0.5 1.5 0.5
`

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "water.lammpstrj")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReader(t *testing.T) {
	r := New(writeDump(t, dump), 3)
	defer r.Close()

	n, err := r.Open()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Random access, last configuration first.
	s, err := r.ReadFrame(1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, vec.Vec3{12, 12, 24}, s.Box)
	assert.Equal(t, vec.Vec3{1.5, 0.5, 0.5}, s.XYZ[1])

	s, err = r.ReadFrame(0)
	require.NoError(t, err)
	assert.Equal(t, vec.Vec3{10, 10, 20}, s.Box)
	assert.Equal(t, vec.Vec3{0, 0, 0}, s.XYZ[0])
	assert.Equal(t, vec.Vec3{1, 0, 0}, s.XYZ[1]) // placed by id
	assert.Equal(t, vec.Vec3{0, 1, 0}, s.XYZ[2])

	_, err = r.ReadFrame(2)
	assert.Error(t, err)
}

func TestReaderUnwrappedColumnsWithoutID(t *testing.T) {
	content := `ITEM: TIMESTEP
0
ITEM: NUMBER OF ATOMS
2
ITEM: BOX BOUNDS pp pp pp
0 10
0 10
0 10
ITEM: ATOMS type xu yu zu
1 3.0 4.0 0.0
1 -1.0 2.0 2.0`

	r := New(writeDump(t, content), 2)
	defer r.Close()

	n, err := r.Open()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	s, err := r.ReadFrame(0)
	require.NoError(t, err)
	assert.Equal(t, vec.Vec3{3, 4, 0}, s.XYZ[0])
	assert.Equal(t, vec.Vec3{-1, 2, 2}, s.XYZ[1])
}

func TestReaderErrors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), 3).Open()
	assert.Error(t, err, "missing file")

	_, err = New(writeDump(t, dump), 4).Open()
	assert.Error(t, err, "atom count mismatch")

	truncated := dump[:len(dump)-20]
	_, err = New(writeDump(t, truncated), 3).Open()
	assert.Error(t, err, "truncated configuration")

	duplicate := `ITEM: TIMESTEP
0
ITEM: NUMBER OF ATOMS
2
ITEM: BOX BOUNDS pp pp pp
0 10
0 10
0 10
ITEM: ATOMS id type x y z
1 1 1 2 3
1 1 4 5 6
`
	r := New(writeDump(t, duplicate), 2)
	defer r.Close()
	n, err := r.Open()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = r.ReadFrame(0)
	require.Error(t, err, "duplicate atom id")
	assert.Contains(t, err.Error(), "duplicate atom id 1")
}

func TestReaderTrailingBlankLines(t *testing.T) {
	r := New(writeDump(t, dump+"\n  \n\n"), 3)
	defer r.Close()

	n, err := r.Open()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s, err := r.ReadFrame(1)
	require.NoError(t, err)
	assert.Equal(t, vec.Vec3{0.5, 1.5, 0.5}, s.XYZ[2])
}
