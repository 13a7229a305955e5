// Package lammpstrj reads LAMMPS text trajectories (dump style atom/custom).
package lammpstrj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sydneyshavalier/grad-md-codes/pkg/traj"
	"github.com/sydneyshavalier/grad-md-codes/pkg/vec"
)

// Reader is a traj.Reader for a Lammps Trajectory file. Open reads the whole
// file once and keeps, for each configuration, the position of its first atom
// line and the size of its box. The coordinates are only parsed by ReadFrame.
type Reader struct {
	Path  string
	Atoms int

	f *os.File

	cols    [3]int
	colID   int
	colsTot int

	frames []frame
}

type frame struct {
	offset int64
	box    vec.Vec3
}

// New returns a Reader for the file at path. atoms is the number of atoms
// expected in every configuration.
func New(path string, atoms int) *Reader {
	return &Reader{Path: path, Atoms: atoms, colID: -1}
}

// Open is part of the traj.Reader interface. It returns the number of
// configurations in the file.
func (r *Reader) Open() (int, error) {
	var err error
	r.f, err = os.Open(r.Path)
	if err != nil {
		return 0, err
	}

	br := bufio.NewReader(r.f)
	var bTot int64
	for c := 0; ; c++ {
		bTot, err = skipBlank(br, bTot)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}

		var fr frame
		bTot, fr, err = r.header(br, bTot, c == 0)
		if err != nil {
			return 0, fmt.Errorf("header of configuration %d: %w", c, err)
		}
		r.frames = append(r.frames, fr)

		for a := 0; a < r.Atoms; a++ {
			var l []byte
			l, bTot, err = readLine(br, bTot)
			if err != nil || len(strings.TrimSpace(string(l))) == 0 {
				return 0, fmt.Errorf("configuration %d is truncated", c)
			}
		}
	}

	return len(r.frames), nil
}

// header reads the 9 lines before the atoms. The columns are only located
// for the first configuration.
func (r *Reader) header(br *bufio.Reader, bTot int64, first bool) (int64, frame, error) {
	var (
		fr  frame
		l   []byte
		err error
	)

	for k := 0; k < 3; k++ {
		_, bTot, err = readLine(br, bTot)
		if err != nil {
			return bTot, fr, err
		}
	}

	l, bTot, err = readLine(br, bTot)
	if err != nil {
		return bTot, fr, err
	}
	atoms, err := strconv.Atoi(strings.TrimSpace(string(l)))
	if err != nil {
		return bTot, fr, fmt.Errorf("number of atoms: %w", err)
	}
	if atoms != r.Atoms {
		return bTot, fr, fmt.Errorf("number of atoms don't match: %d (expected %d)", atoms, r.Atoms)
	}

	_, bTot, err = readLine(br, bTot)
	if err != nil {
		return bTot, fr, err
	}

	// Size of the box
	for k := 0; k < 3; k++ {
		l, bTot, err = readLine(br, bTot)
		if err != nil {
			return bTot, fr, err
		}

		fields := strings.Fields(string(l))
		if len(fields) < 2 {
			return bTot, fr, fmt.Errorf("unable to get the size of the box")
		}

		lmin, err1 := strconv.ParseFloat(fields[0], 64)
		lmax, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return bTot, fr, fmt.Errorf("unable to get the size of the box")
		}
		fr.box[k] = lmax - lmin
	}

	l, bTot, err = readLine(br, bTot)
	if err != nil {
		return bTot, fr, err
	}
	if first {
		err = r.columns(string(l))
		if err != nil {
			return bTot, fr, err
		}
	}

	fr.offset = bTot
	return bTot, fr, nil
}

// columns finds the position of the coordinates and of the atom id in the
// ITEM: ATOMS line. Unwrapped coordinates are accepted as well.
func (r *Reader) columns(s string) error {
	fields := strings.Fields(s)
	if len(fields) <= 2 {
		return fmt.Errorf("not enough columns")
	}

	fields = fields[2:] // Omission of ITEM: ATOMS
	r.colsTot = len(fields)

	var found [3]bool
	for k, v := range fields {
		switch v {
		case "x", "xu":
			r.cols[0], found[0] = k, true
		case "y", "yu":
			r.cols[1], found[1] = k, true
		case "z", "zu":
			r.cols[2], found[2] = k, true
		case "id":
			r.colID = k
		}
	}

	if !found[0] || !found[1] || !found[2] {
		return fmt.Errorf("cannot find the columns x y, and z")
	}

	return nil
}

// ReadFrame is part of the traj.Reader interface. Atoms are placed by id when
// the id column exists, in file order otherwise.
func (r *Reader) ReadFrame(i int) (*traj.Snapshot, error) {
	if i < 0 || i >= len(r.frames) {
		return nil, fmt.Errorf("configuration %d out of range [0, %d)", i, len(r.frames))
	}

	fr := r.frames[i]
	_, err := r.f.Seek(fr.offset, io.SeekStart)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(r.f)

	s := &traj.Snapshot{Index: i, Box: fr.box, XYZ: make([]vec.Vec3, r.Atoms)}
	var seen []bool
	if r.colID >= 0 {
		seen = make([]bool, r.Atoms)
	}
	for a := 0; a < r.Atoms; a++ {
		l, _, err := readLine(br, 0)
		if err != nil {
			return nil, fmt.Errorf("configuration %d: %w", i, err)
		}

		fields := strings.Fields(string(l))
		if len(fields) != r.colsTot {
			return nil, fmt.Errorf("configuration %d: number of columns don't match: %d (expected %d)", i, len(fields), r.colsTot)
		}

		at := a
		if r.colID >= 0 {
			id, err := strconv.Atoi(fields[r.colID])
			if err != nil || id < 1 || id > r.Atoms {
				return nil, fmt.Errorf("configuration %d: invalid atom id %q", i, fields[r.colID])
			}
			if seen[id-1] {
				return nil, fmt.Errorf("configuration %d: duplicate atom id %d", i, id)
			}
			seen[id-1] = true
			at = id - 1
		}

		for k := 0; k < 3; k++ {
			s.XYZ[at][k], err = strconv.ParseFloat(fields[r.cols[k]], 64)
			if err != nil {
				return nil, fmt.Errorf("configuration %d: %w", i, err)
			}
		}
	}

	return s, nil
}

// Close is part of the traj.Reader interface.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	return r.f.Close()
}

// skipBlank consumes the whitespace before the next configuration and returns
// b+(number of bytes skipped). io.EOF is returned when nothing else remains.
func skipBlank(r *bufio.Reader, b int64) (int64, error) {
	for {
		c, err := r.Peek(1)
		if err != nil {
			return b, err
		}
		switch c[0] {
		case ' ', '\t', '\r', '\n':
			r.ReadByte()
			b++
		default:
			return b, nil
		}
	}
}

// readLine reads ONE line and returns it with b+(number of bytes in this line).
// The returned slice is only valid until the next read.
func readLine(r *bufio.Reader, b int64) ([]byte, int64, error) {
	l, err := r.ReadSlice('\n')
	b += int64(len(l))
	if errors.Is(err, io.EOF) && len(l) > 0 {
		err = nil
	}
	return l, b, err
}
