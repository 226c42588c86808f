package alignio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TuftsBCB/supermatrix/supermatrix"
)

// clustalWidth is the number of residues per row in each written block.
const clustalWidth = 60

var clustalHeaders = []string{"CLUSTAL", "MUSCLE", "PROBCONS"}

func readClustal(r io.Reader) (*supermatrix.Supermatrix, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return supermatrix.New(), nil
	}
	if !hasClustalHeader(lines[0].text) {
		return nil, lineErrorf(lines[0], "expected a CLUSTAL header but got '%s'",
			lines[0].text)
	}

	rows := newRowBuilder()
	for _, l := range lines[1:] {
		// Consensus lines are indented.
		if l.text[0] == ' ' || l.text[0] == '\t' {
			continue
		}
		fields := strings.Fields(l.text)
		switch len(fields) {
		case 2:
		case 3:
			if _, err := strconv.Atoi(fields[2]); err != nil {
				return nil, lineErrorf(l, "invalid residue count '%s'",
					fields[2])
			}
		default:
			return nil, lineErrorf(l, "expected 'name residues [count]' "+
				"but got '%s'", l.text)
		}
		rows.add(fields[0], residues(fields[1]))
	}
	return rows.matrix()
}

func hasClustalHeader(text string) bool {
	for _, h := range clustalHeaders {
		if strings.HasPrefix(text, h) {
			return true
		}
	}
	return false
}

func writeClustal(w io.Writer, m *supermatrix.Supermatrix) error {
	if err := checkNames(m); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "CLUSTAL multiple sequence alignment\n\n"); err != nil {
		return err
	}

	width := nameWidth(m) + 4
	rows := make([]string, len(m.Rows))
	for i, row := range m.Rows {
		rows[i] = residueString(row)
	}
	for start := 0; start < m.Len(); start += clustalWidth {
		end := start + clustalWidth
		if end > m.Len() {
			end = m.Len()
		}
		if _, err := fmt.Fprint(w, "\n"); err != nil {
			return err
		}
		for i, row := range m.Rows {
			chunk := rows[i][start:end]
			if _, err := fmt.Fprintf(w, "%-*s%s\n", width, row.Name, chunk); err != nil {
				return err
			}
		}
	}
	return nil
}
