// Package sel selects molecules of a system with short expressions.
//
// An expression is a list of clauses joined by "and"; a molecule is selected
// when every clause accepts it:
//
//	all
//	none
//	type SPCE TIP3P     molecules of the given types
//	mol 0-99            molecules by index, bounds included
//	within 12.5         center of mass closer than 12.5 to the origin
//	beyond 12.5         center of mass at 12.5 or more from the origin
//
// A selection using within or beyond depends on the positions and must be
// evaluated again for every frame; it is dynamic.
package sel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sydneyshavalier/grad-md-codes/pkg/topo"
	"github.com/sydneyshavalier/grad-md-codes/pkg/vec"
)

type clause struct {
	dynamic bool
	accept  func(m *topo.Molecule, xyz []vec.Vec3) bool
}

// Selection is a compiled expression.
type Selection struct {
	expr    string
	clauses []clause
	dynamic bool
}

// Compile parses expr.
func Compile(expr string) (*Selection, error) {
	s := &Selection{expr: expr}

	fields := strings.Fields(expr)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty selection")
	}

	var parts [][]string
	start := 0
	for k, f := range fields {
		if f == "and" {
			parts = append(parts, fields[start:k])
			start = k + 1
		}
	}
	parts = append(parts, fields[start:])

	for _, p := range parts {
		if len(p) == 0 {
			return nil, fmt.Errorf("%q: empty clause", expr)
		}

		c, err := compileClause(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", expr, err)
		}
		s.clauses = append(s.clauses, c)
		s.dynamic = s.dynamic || c.dynamic
	}

	return s, nil
}

func compileClause(p []string) (clause, error) {
	args := p[1:]
	switch p[0] {
	case "all", "none":
		if len(args) != 0 {
			return clause{}, fmt.Errorf("%s takes no argument", p[0])
		}
		all := p[0] == "all"
		return clause{accept: func(*topo.Molecule, []vec.Vec3) bool { return all }}, nil

	case "type":
		if len(args) == 0 {
			return clause{}, fmt.Errorf("type needs at least one name")
		}
		names := make(map[string]bool, len(args))
		for _, n := range args {
			names[n] = true
		}
		return clause{accept: func(m *topo.Molecule, _ []vec.Vec3) bool { return names[m.Type] }}, nil

	case "mol":
		if len(args) != 1 {
			return clause{}, fmt.Errorf("mol needs one index or range")
		}
		lo, hi, err := parseRange(args[0])
		if err != nil {
			return clause{}, err
		}
		return clause{accept: func(m *topo.Molecule, _ []vec.Vec3) bool {
			return m.Index >= lo && m.Index <= hi
		}}, nil

	case "within", "beyond":
		if len(args) != 1 {
			return clause{}, fmt.Errorf("%s needs one radius", p[0])
		}
		r, err := strconv.ParseFloat(args[0], 64)
		if err != nil || r < 0 {
			return clause{}, fmt.Errorf("%s: invalid radius %q", p[0], args[0])
		}
		within := p[0] == "within"
		return clause{dynamic: true, accept: func(m *topo.Molecule, xyz []vec.Vec3) bool {
			return (m.COM(xyz).Norm() < r) == within
		}}, nil
	}

	return clause{}, fmt.Errorf("unknown keyword %q", p[0])
}

func parseRange(s string) (lo, hi int, err error) {
	a, b, found := strings.Cut(s, "-")
	lo, err = strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid molecule index %q", a)
	}
	hi = lo
	if found {
		hi, err = strconv.Atoi(b)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid molecule index %q", b)
		}
	}
	if lo < 0 || hi < lo {
		return 0, 0, fmt.Errorf("invalid molecule range %q", s)
	}
	return lo, hi, nil
}

// String returns the expression as written.
func (s *Selection) String() string { return s.expr }

// IsDynamic reports whether the selection depends on the positions.
func (s *Selection) IsDynamic() bool { return s.dynamic }

// Evaluate returns the selected molecules of sys in topology order. xyz is
// only read by dynamic selections and may be nil otherwise.
func (s *Selection) Evaluate(sys *topo.System, xyz []vec.Vec3) []*topo.Molecule {
	var out []*topo.Molecule
	for _, m := range sys.Molecules {
		ok := true
		for _, c := range s.clauses {
			if !c.accept(m, xyz) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, m)
		}
	}
	return out
}
