package alignio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/TuftsBCB/seq"
	"github.com/TuftsBCB/supermatrix/supermatrix"
)

const maxLineSize = 64 * 1024 * 1024

// line is a non-blank input line with its 1-based line number.
type line struct {
	num  int
	text string
}

// readLines returns every non-blank line of r with trailing whitespace
// removed.
func readLines(r io.Reader) ([]line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []line
	num := 0
	for scanner.Scan() {
		num++
		text := strings.TrimRightFunc(scanner.Text(), unicode.IsSpace)
		if len(strings.TrimSpace(text)) == 0 {
			continue
		}
		lines = append(lines, line{num, text})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// residues returns the residues in s with all whitespace removed.
func residues(s string) []seq.Residue {
	rs := make([]seq.Residue, 0, len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			rs = append(rs, seq.Residue(c))
		}
	}
	return rs
}

func lineErrorf(l line, format string, v ...interface{}) error {
	return &supermatrix.FormatError{Line: l.num, Msg: fmt.Sprintf(format, v...)}
}

func errorf(format string, v ...interface{}) error {
	return &supermatrix.FormatError{Msg: fmt.Sprintf(format, v...)}
}

// rowBuilder accumulates residues for named rows in order of first
// appearance. It is used by the interleaved formats.
type rowBuilder struct {
	names []string
	rows  map[string][]seq.Residue
}

func newRowBuilder() *rowBuilder {
	return &rowBuilder{rows: make(map[string][]seq.Residue)}
}

func (b *rowBuilder) add(name string, rs []seq.Residue) {
	if _, ok := b.rows[name]; !ok {
		b.names = append(b.names, name)
	}
	b.rows[name] = append(b.rows[name], rs...)
}

// matrix returns the accumulated rows as a supermatrix. Rows of unequal
// length are an error.
func (b *rowBuilder) matrix() (*supermatrix.Supermatrix, error) {
	m := supermatrix.New()
	for _, name := range b.names {
		err := m.Add(seq.Sequence{Name: name, Residues: b.rows[name]})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// nameWidth returns the length of the longest row name in m.
func nameWidth(m *supermatrix.Supermatrix) int {
	width := 0
	for _, row := range m.Rows {
		if len(row.Name) > width {
			width = len(row.Name)
		}
	}
	return width
}

// checkNames returns an error if any row name in m is empty or contains
// whitespace, which the block formats cannot represent.
func checkNames(m *supermatrix.Supermatrix) error {
	for _, row := range m.Rows {
		if len(row.Name) == 0 {
			return errorf("empty taxon name")
		}
		if strings.IndexFunc(row.Name, unicode.IsSpace) >= 0 {
			return errorf("taxon name '%s' contains whitespace", row.Name)
		}
	}
	return nil
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
