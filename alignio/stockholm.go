package alignio

import (
	"fmt"
	"io"
	"strings"

	"github.com/TuftsBCB/supermatrix/supermatrix"
)

func readStockholm(r io.Reader) (*supermatrix.Supermatrix, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return supermatrix.New(), nil
	}
	if !strings.HasPrefix(lines[0].text, "# STOCKHOLM") {
		return nil, lineErrorf(lines[0], "expected '# STOCKHOLM' header but "+
			"got '%s'", lines[0].text)
	}

	rows := newRowBuilder()
	terminated := false
	for _, l := range lines[1:] {
		if l.text == "//" {
			terminated = true
			break
		}
		// Markup lines (#=GF, #=GS, #=GR, #=GC) and comments.
		if strings.HasPrefix(l.text, "#") {
			continue
		}
		fields := strings.Fields(l.text)
		if len(fields) != 2 {
			return nil, lineErrorf(l, "expected 'name residues' but got '%s'",
				l.text)
		}
		rows.add(fields[0], residues(fields[1]))
	}
	if !terminated {
		return nil, errorf("missing '//' terminator")
	}
	return rows.matrix()
}

func writeStockholm(w io.Writer, m *supermatrix.Supermatrix) error {
	if err := checkNames(m); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "# STOCKHOLM 1.0\n"); err != nil {
		return err
	}
	width := nameWidth(m) + 1
	for _, row := range m.Rows {
		_, err := fmt.Fprintf(w, "%-*s%s\n", width, row.Name, residueString(row))
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "//\n")
	return err
}
