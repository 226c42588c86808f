package alignio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TuftsBCB/seq"
	"github.com/TuftsBCB/supermatrix/supermatrix"
)

// phylipNameWidth is the fixed width of a taxon name in strict PHYLIP.
const phylipNameWidth = 10

// readPhylip reads sequential or interleaved PHYLIP. In sequential files
// each taxon must be on a single line. Strict PHYLIP takes the first ten
// characters of a line as the taxon name; relaxed PHYLIP takes the first
// whitespace separated field.
func readPhylip(r io.Reader, relaxed bool) (*supermatrix.Supermatrix, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return supermatrix.New(), nil
	}

	ntax, nchar, err := phylipHeader(lines[0])
	if err != nil {
		return nil, err
	}
	lines = lines[1:]
	if ntax == 0 && len(lines) > 0 {
		return nil, lineErrorf(lines[0], "header declares no taxa but "+
			"rows follow")
	}
	if len(lines) < ntax {
		return nil, errorf("header declares %d taxa but only %d rows follow",
			ntax, len(lines))
	}

	names := make([]string, ntax)
	rows := make([][]seq.Residue, ntax)
	for i, l := range lines {
		k := i % ntax
		if i < ntax {
			name, rest, err := phylipNameSplit(l, relaxed)
			if err != nil {
				return nil, err
			}
			names[k] = name
			rows[k] = residues(rest)
		} else {
			rows[k] = append(rows[k], residues(l.text)...)
		}
	}

	m := supermatrix.New()
	for k := range names {
		if len(rows[k]) != nchar {
			return nil, errorf("taxon '%s' has %d characters but the header "+
				"declares %d", names[k], len(rows[k]), nchar)
		}
		err := m.Add(seq.Sequence{Name: names[k], Residues: rows[k]})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func phylipHeader(l line) (ntax, nchar int, err error) {
	fields := strings.Fields(l.text)
	if len(fields) < 2 {
		return 0, 0, lineErrorf(l, "expected 'ntax nchar' header but got '%s'",
			l.text)
	}
	if ntax, err = strconv.Atoi(fields[0]); err != nil || ntax < 0 {
		return 0, 0, lineErrorf(l, "invalid number of taxa '%s'", fields[0])
	}
	if nchar, err = strconv.Atoi(fields[1]); err != nil || nchar < 0 {
		return 0, 0, lineErrorf(l, "invalid number of characters '%s'",
			fields[1])
	}
	return ntax, nchar, nil
}

func phylipNameSplit(l line, relaxed bool) (name, rest string, err error) {
	if relaxed {
		text := strings.TrimSpace(l.text)
		i := strings.IndexAny(text, " \t")
		if i < 0 {
			return "", "", lineErrorf(l, "expected a taxon name followed by "+
				"residues")
		}
		return text[:i], text[i:], nil
	}
	if len(l.text) <= phylipNameWidth {
		return "", "", lineErrorf(l, "line is too short to hold a %d "+
			"character taxon name and residues", phylipNameWidth)
	}
	return strings.TrimSpace(l.text[:phylipNameWidth]),
		l.text[phylipNameWidth:], nil
}

// writePhylip writes sequential PHYLIP with one taxon per line.
func writePhylip(w io.Writer, m *supermatrix.Supermatrix, relaxed bool) error {
	if err := checkNames(m); err != nil {
		return err
	}
	width := phylipNameWidth
	if relaxed {
		width = nameWidth(m) + 1
	} else {
		for _, row := range m.Rows {
			if len(row.Name) > phylipNameWidth {
				return errorf("taxon name '%s' is longer than %d characters; "+
					"use relaxed PHYLIP", row.Name, phylipNameWidth)
			}
		}
	}

	if _, err := fmt.Fprintf(w, "%d %d\n", m.NumTaxa(), m.Len()); err != nil {
		return err
	}
	for _, row := range m.Rows {
		_, err := fmt.Fprintf(w, "%-*s%s\n", width, row.Name, residueString(row))
		if err != nil {
			return err
		}
	}
	return nil
}

func residueString(s seq.Sequence) string {
	bs := make([]byte, len(s.Residues))
	for i, r := range s.Residues {
		bs[i] = byte(r)
	}
	return string(bs)
}
