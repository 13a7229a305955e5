package hbondr

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteTo writes the report into w.
func (a *Analysis) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	bw := bufio.NewWriter(cw)

	fmt.Fprintf(bw, "# %s\n", a.Strategy.Name())
	for k, s := range a.Sele {
		fmt.Fprintf(bw, "#selection %d: (%s)\n", k+1, s)
	}
	if a.Params != "" {
		fmt.Fprintf(bw, "# parameters: %s\n", a.Params)
	}

	fmt.Fprint(bw, "#distance\tH Bonds\n")
	for _, r := range a.Rows() {
		fmt.Fprintf(bw, "%s\t%s\n", format(r.R), format(r.Value))
	}

	err := bw.Flush()
	return cw.n, err
}

// Write writes the report into Out. The file is truncated first.
func (a *Analysis) Write() error {
	f, err := os.Create(a.Out)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", a.Out, err)
	}

	_, err = a.WriteTo(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("unable to write %s: %w", a.Out, err)
	}

	return f.Close()
}

// format prints v with 6 significant digits.
func format(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
